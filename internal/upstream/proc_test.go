package upstream

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestMain doubles as the wrapped application: when re-executed with the
// marker variable set, the test binary serves HTTP on the address given
// via HOST and PORT instead of running the tests.
func TestMain(m *testing.M) {
	if os.Getenv("UPSTREAM_ECHO_SERVER") == "1" {
		runEchoServer()
		return
	}

	os.Exit(m.Run())
}

func runEchoServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Echo-Query", r.URL.RawQuery)
		w.Header().Set("X-Echo-Request-Id", r.Header.Get("X-Request-Id"))
		fmt.Fprintf(w, "%s %s %s", r.Method, r.URL.Path, body)
	})

	addr := net.JoinHostPort(os.Getenv("HOST"), os.Getenv("PORT"))
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// echoServerConfig configures the test binary itself as the wrapped
// application command.
func echoServerConfig(t *testing.T) Config {
	t.Setenv("UPSTREAM_ECHO_SERVER", "1")

	return Config{
		Command:        os.Args[0],
		StartupTimeout: 10 * time.Second,
		StopTimeout:    5 * time.Second,
	}
}

func TestStartProc_IsAlive(t *testing.T) {
	p, err := StartProc(context.Background(), echoServerConfig(t), zap.NewNop())
	require.NoError(t, err)

	assert.True(t, p.Alive())

	err = p.Stop(context.Background())
	assert.NoError(t, err)
	assert.False(t, p.Alive())
}

func TestStartProc_RequiresCommand(t *testing.T) {
	_, err := StartProc(context.Background(), Config{}, zap.NewNop())
	assert.Error(t, err)
}

func TestStartProc_FailsWhenProcessExitsBeforeReady(t *testing.T) {
	_, err := StartProc(context.Background(), Config{
		Command:        "sh",
		Args:           []string{"-c", "exit 1"},
		StartupTimeout: 5 * time.Second,
	}, zap.NewNop())
	assert.Error(t, err)
}
