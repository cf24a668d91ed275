package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funcgate/funcgate/function"
)

func TestDecode(t *testing.T) {
	payload := []byte(`{
		"id": "inv-1",
		"method": "POST",
		"path": "/hello",
		"header": {"Content-Type": ["text/plain"]},
		"body": "d29ybGQ="
	}`)

	inv, err := Decode(payload)
	require.NoError(t, err)

	assert.Equal(t, "inv-1", inv.ID)
	assert.Equal(t, http.MethodPost, inv.Method)
	assert.Equal(t, "/hello", inv.Path)
	assert.Equal(t, "text/plain", inv.Header.Get("Content-Type"))
	assert.Equal(t, "world", string(inv.Body))
}

func TestDecode_Malformed(t *testing.T) {
	tests := map[string]string{
		"not json":       `hello`,
		"missing method": `{"path": "/hello"}`,
		"missing path":   `{"method": "GET"}`,
		"relative path":  `{"method": "GET", "path": "hello"}`,
		"unknown field":  `{"method": "GET", "path": "/", "extra": true}`,
	}

	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(payload))
			assert.ErrorIs(t, err, ErrMalformedInvocation)
		})
	}
}

func TestErrorReply(t *testing.T) {
	reply := ErrorReply(http.StatusBadRequest, "bad payload")

	assert.Equal(t, http.StatusBadRequest, reply.StatusCode)
	assert.Equal(t, "application/json", reply.Header.Get("Content-Type"))

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(reply.Body, &body))
	assert.Equal(t, "bad payload", body.Error.Message)
}

func TestStatusForError(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
	}{
		"malformed payload": {
			err:    fmt.Errorf("%w: not json", ErrMalformedInvocation),
			status: http.StatusBadRequest,
		},
		"unknown target": {
			err:    &function.ErrTargetNotFound{Target: "nope"},
			status: http.StatusNotFound,
		},
		"unknown error": {
			err:    assert.AnError,
			status: http.StatusInternalServerError,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.status, StatusForError(test.err))
		})
	}
}

func TestErrorReplyFor(t *testing.T) {
	reply := ErrorReplyFor(fmt.Errorf("%w: not json", ErrMalformedInvocation))

	assert.Equal(t, http.StatusBadRequest, reply.StatusCode)
	assert.Contains(t, string(reply.Body), "malformed invocation payload")
}
