package adapter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/funcgate/funcgate/config"
	"github.com/funcgate/funcgate/function"
	"github.com/funcgate/funcgate/internal/metrics"
)

// --- Mock handler ---
type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(ctx context.Context, req function.Request) function.Response {
	args := m.Called(ctx, req)
	return args.Get(0).(function.Response)
}

func newTestAdapter(h function.Handler) *Adapter {
	return New(Params{
		Handler: h,
		Config:  config.FunctionConfig{Target: "test"},
		Metrics: metrics.New(),
		Log:     zap.NewNop(),
	})
}

func TestInvoke_RoundTrip(t *testing.T) {
	mockHandler := new(MockHandler)

	reqBody := []byte(`{"example": "value"}`)

	expectedResponse := function.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(`{"ok":true}`),
	}

	mockHandler.On("Handle", mock.Anything, mock.MatchedBy(func(r function.Request) bool {
		return r.Path == "/test" &&
			r.Method == http.MethodPost &&
			bytes.Equal(r.Body, reqBody)
	})).Return(expectedResponse)

	a := newTestAdapter(mockHandler)

	reply := a.Invoke(context.Background(), Invocation{
		Method: "post",
		Path:   "/test",
		Body:   reqBody,
	})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "application/json", reply.Header.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(reply.Body))
	mockHandler.AssertExpectations(t)
}

func TestInvoke_DefaultsStatusCode(t *testing.T) {
	a := newTestAdapter(function.HandlerFunc(func(context.Context, function.Request) function.Response {
		return function.Response{Body: []byte("ok")}
	}))

	reply := a.Invoke(context.Background(), Invocation{Method: "GET", Path: "/"})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "ok", string(reply.Body))
}

func TestInvoke_HandlerPanic(t *testing.T) {
	calls := 0

	a := newTestAdapter(function.HandlerFunc(func(context.Context, function.Request) function.Response {
		calls++
		if calls == 1 {
			panic("boom")
		}
		return function.Text(http.StatusOK, "recovered")
	}))

	reply := a.Invoke(context.Background(), Invocation{Method: "GET", Path: "/"})

	assert.Equal(t, http.StatusInternalServerError, reply.StatusCode)
	assert.Contains(t, string(reply.Body), "internal error")

	// the adapter must stay usable after a handler fault
	reply = a.Invoke(context.Background(), Invocation{Method: "GET", Path: "/"})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "recovered", string(reply.Body))
}

func TestInvoke_ConcurrentInvocationsAreIsolated(t *testing.T) {
	a := newTestAdapter(function.HandlerFunc(func(_ context.Context, req function.Request) function.Response {
		return function.Text(http.StatusOK, string(req.Body))
	}))

	const n = 32

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			body := fmt.Sprintf("payload-%d", i)
			reply := a.Invoke(context.Background(), Invocation{
				Method: "POST",
				Path:   "/",
				Body:   []byte(body),
			})

			assert.Equal(t, http.StatusOK, reply.StatusCode)
			assert.Equal(t, body, string(reply.Body))
		}(i)
	}

	wg.Wait()
}

func TestInvoke_SampleScenarios(t *testing.T) {
	handler, err := function.Lookup(function.DefaultTarget)
	require.NoError(t, err)

	a := newTestAdapter(handler)

	reply := a.Invoke(context.Background(), Invocation{Method: "GET", Path: "/hello"})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, function.Greeting, string(reply.Body))

	reply = a.Invoke(context.Background(), Invocation{
		Method: "POST",
		Path:   "/hello",
		Body:   []byte("world"),
	})

	assert.Equal(t, http.StatusOK, reply.StatusCode)
	assert.Equal(t, "hello world", string(reply.Body))
}
