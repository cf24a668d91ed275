package config

import (
	"github.com/funcgate/funcgate/function"
	"github.com/funcgate/funcgate/internal/upstream"
)

// Mode selects where the wrapped application handler comes from.
type Mode string

const (
	// ModeRegistry serves an in-process handler from the entry-point
	// registry.
	ModeRegistry Mode = "registry"

	// ModeProxy launches the wrapped application as a child process and
	// forwards invocations to it over HTTP.
	ModeProxy Mode = "proxy"
)

func (m Mode) String() string {
	return string(m)
}

// AuthConfig carries the optional shared-key auth for the HTTP surface.
type AuthConfig struct {
	Key string `conf:"key"`
}

// FunctionConfig selects the function entry point and handler mode.
type FunctionConfig struct {
	// Target is the entry-point identifier the deployment tooling
	// references verbatim.
	Target string `conf:"target"`

	// Mode is the handler mode. Options: registry, proxy.
	Mode Mode `conf:"mode"`
}

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Auth is the auth configuration for the HTTP surface
	Auth AuthConfig `conf:"auth"`

	// Function selects the entry point and handler mode
	Function FunctionConfig `conf:"function"`

	// Upstream configures wrapped-application processes in proxy mode
	Upstream upstream.Config `conf:"upstream"`
}

var DefaultConfig = map[string]any{
	"function.target":          function.DefaultTarget,
	"function.mode":            string(ModeRegistry),
	"upstream.host":            "127.0.0.1",
	"upstream.min_procs":       0,
	"upstream.max_procs":       1,
	"upstream.startup_timeout": "30s",
	"upstream.stop_timeout":    "5s",
}
