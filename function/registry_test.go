package function

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopHandler() Handler {
	return HandlerFunc(func(context.Context, Request) Response {
		return Text(http.StatusOK, "noop")
	})
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("echo", noopHandler()))

	handler, err := r.Lookup("echo")
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("echo", noopHandler()))
	assert.Error(t, r.Register("echo", noopHandler()))
}

func TestRegistry_RegisterEmptyTarget(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register("", noopHandler()))
}

func TestRegistry_LookupUnknownTarget(t *testing.T) {
	r := NewRegistry()

	_, err := r.Lookup("missing")

	var notFound *ErrTargetNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Target)
}

func TestRegistry_Targets(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register("b", noopHandler()))
	require.NoError(t, r.Register("a", noopHandler()))

	assert.Equal(t, []string{"a", "b"}, r.Targets())
}

func TestDefaultRegistry_HasSampleTarget(t *testing.T) {
	handler, err := Lookup(DefaultTarget)
	require.NoError(t, err)
	assert.NotNil(t, handler)
}

func TestSampleHandler(t *testing.T) {
	h := NewSampleHandler()

	res := h.Handle(context.Background(), Request{Method: http.MethodGet, Path: "/hello"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, Greeting, string(res.Body))

	res = h.Handle(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/hello",
		Body:   []byte("world"),
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "hello world", string(res.Body))

	res = h.Handle(context.Background(), Request{Method: http.MethodGet, Path: "/nope"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = h.Handle(context.Background(), Request{Method: http.MethodDelete, Path: "/hello"})
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
