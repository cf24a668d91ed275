package upstream

import "time"

// Config describes how to launch and pool wrapped application processes.
type Config struct {
	// Command is the command to invoke in order to start the wrapped
	// application process.
	Command string `conf:"command"`

	// Args are additional arguments to pass to the command.
	Args []string `conf:"arg"`

	// Host is the address the wrapped application listens on.
	Host string `conf:"host"`

	// Port is the port the wrapped application listens on. If zero, a
	// free port is picked per process and passed via the PORT env var.
	Port int `conf:"port"`

	// MinProcs is the number of processes to start eagerly.
	MinProcs int `conf:"min_procs"`

	// MaxProcs is the maximum number of concurrent processes.
	MaxProcs int `conf:"max_procs"`

	// StartupTimeout bounds the wait for a process to accept connections.
	StartupTimeout time.Duration `conf:"startup_timeout"`

	// StopTimeout bounds the graceful shutdown of a process.
	StopTimeout time.Duration `conf:"stop_timeout"`
}

const (
	defaultHost           = "127.0.0.1"
	defaultStartupTimeout = 30 * time.Second
	defaultStopTimeout    = 5 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.MaxProcs <= 0 {
		c.MaxProcs = 1
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = defaultStartupTimeout
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = defaultStopTimeout
	}
	return c
}
