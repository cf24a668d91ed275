package function

import (
	"context"
	"net/http"
	"net/url"
)

// Request is the generic request shape handed to a Handler. It is
// constructed once per invocation and must not be mutated by handlers.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Response is the generic response shape produced by a Handler.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Handler is the contract between the shim and the wrapped application.
type Handler interface {
	Handle(ctx context.Context, req Request) Response
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, req Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Text creates a plain-text response with the given status code.
func Text(status int, body string) Response {
	header := make(http.Header)
	header.Set("Content-Type", "text/plain; charset=utf-8")

	return Response{
		StatusCode: status,
		Header:     header,
		Body:       []byte(body),
	}
}
