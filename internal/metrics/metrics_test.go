package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveInvocation(t *testing.T) {
	m := New()

	m.ObserveInvocation("hello", 200, 5*time.Millisecond)
	m.ObserveInvocation("hello", 500, time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	m.HTTPHandler().ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	body := w.Body.String()
	assert.Contains(t, body, `funcgate_invocations_total{code="200",target="hello"} 1`)
	assert.Contains(t, body, `funcgate_invocations_total{code="500",target="hello"} 1`)
	assert.Contains(t, body, "funcgate_invocation_duration_seconds")
}
