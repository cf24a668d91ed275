package function

import (
	"context"
	"fmt"
	"net/http"
)

// Greeting is the body returned by the sample function for GET /hello.
const Greeting = "Hello from funcgate"

// NewSampleHandler returns the built-in sample function. It serves a
// fixed greeting on GET /hello and echoes the request body back as a
// greeting on POST /hello.
func NewSampleHandler() Handler {
	return HandlerFunc(func(_ context.Context, req Request) Response {
		if req.Path != "/hello" && req.Path != "/" {
			return Text(http.StatusNotFound, "not found")
		}

		switch req.Method {
		case http.MethodGet:
			return Text(http.StatusOK, Greeting)
		case http.MethodPost:
			return Text(http.StatusOK, fmt.Sprintf("hello %s", req.Body))
		default:
			return Text(http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

func init() {
	if err := Register(DefaultTarget, NewSampleHandler()); err != nil {
		panic(err)
	}
}
