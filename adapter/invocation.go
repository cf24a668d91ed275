package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/funcgate/funcgate/adapter/schema"
	"github.com/funcgate/funcgate/function"
)

// Invocation is the platform-neutral invocation payload. It carries
// everything a platform trigger can contribute to a single function
// call; the body is base64-encoded on the wire.
type Invocation struct {
	ID     string      `json:"id,omitempty"`
	Method string      `json:"method"`
	Path   string      `json:"path"`
	Query  url.Values  `json:"query,omitempty"`
	Header http.Header `json:"header,omitempty"`
	Body   []byte      `json:"body,omitempty"`
}

// Reply is the finalized result of an invocation.
type Reply struct {
	StatusCode int         `json:"statusCode"`
	Header     http.Header `json:"header,omitempty"`
	Body       []byte      `json:"body,omitempty"`
}

// ErrMalformedInvocation indicates an invocation payload that does not
// conform to the invocation schema. Callers should report it as a
// client error.
var ErrMalformedInvocation = errors.New("malformed invocation payload")

var wellKnownErrors = map[error]int{
	ErrMalformedInvocation: http.StatusBadRequest,
}

// StatusForError returns the reply status code for the given error.
func StatusForError(err error) int {
	for known, status := range wellKnownErrors {
		if errors.Is(err, known) {
			return status
		}
	}

	var notFound *function.ErrTargetNotFound
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}

// ErrorReplyFor creates a JSON error reply for the given error.
func ErrorReplyFor(err error) Reply {
	return ErrorReply(StatusForError(err), err.Error())
}

var invocationSchema = sync.OnceValues(schema.NewInvocationSchema)

// Decode parses and validates a JSON invocation payload.
func Decode(data []byte) (Invocation, error) {
	var inv Invocation

	s, err := invocationSchema()
	if err != nil {
		return inv, err
	}

	result, err := s.Validate(data)
	if err != nil {
		return inv, fmt.Errorf("%w: %v", ErrMalformedInvocation, err)
	}

	if !result.Valid() {
		return inv, fmt.Errorf("%w: %s", ErrMalformedInvocation, result.Errors()[0])
	}

	if err := json.Unmarshal(data, &inv); err != nil {
		return inv, fmt.Errorf("%w: %v", ErrMalformedInvocation, err)
	}

	return inv, nil
}

type replyError struct {
	Message string `json:"message"`
}

// ErrorReply creates a JSON error reply with the given status code.
func ErrorReply(status int, message string) Reply {
	body, err := json.Marshal(struct {
		Error replyError `json:"error"`
	}{
		Error: replyError{Message: message},
	})
	if err != nil {
		return Reply{StatusCode: http.StatusInternalServerError}
	}

	header := make(http.Header)
	header.Set("Content-Type", "application/json")

	return Reply{
		StatusCode: status,
		Header:     header,
		Body:       body,
	}
}
