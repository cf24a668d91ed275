package upstream

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapio"

	"github.com/funcgate/funcgate/util"
)

// Proc is a single wrapped application process. The process is expected
// to bind an HTTP server to the address passed via the HOST and PORT
// environment variables.
type Proc struct {
	cmd  *exec.Cmd
	addr string
	out  *zapio.Writer
	log  *zap.Logger
}

// StartProc launches a wrapped application process and waits until it
// accepts TCP connections.
func StartProc(ctx context.Context, cfg Config, log *zap.Logger) (*Proc, error) {
	cfg = cfg.withDefaults()

	if cfg.Command == "" {
		return nil, fmt.Errorf("no upstream command configured")
	}

	port := cfg.Port
	if port == 0 {
		var err error
		if port, err = freePort(cfg.Host); err != nil {
			return nil, fmt.Errorf("pick port: %w", err)
		}
	}

	out := &zapio.Writer{Log: log.Named("proc"), Level: zap.InfoLevel}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("HOST=%s", cfg.Host),
		fmt.Sprintf("PORT=%d", port),
	)
	cmd.Stdout = out
	cmd.Stderr = out

	if err := cmd.Start(); err != nil {
		out.Close()
		return nil, fmt.Errorf("start upstream process: %w", err)
	}

	p := &Proc{
		cmd:  cmd,
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		out:  out,
		log: log.With(
			zap.Int("pid", cmd.Process.Pid),
			zap.String("command", cfg.Command),
		),
	}

	if err := p.waitReady(ctx, cfg.StartupTimeout); err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.StopTimeout)
		defer cancel()
		p.Stop(stopCtx)
		return nil, err
	}

	p.log.Debug("upstream process ready", zap.String("addr", p.addr))

	return p, nil
}

// URL returns the base URL of the process' HTTP server.
func (p *Proc) URL() string {
	return "http://" + p.addr
}

// Alive reports whether the process is still running.
func (p *Proc) Alive() bool {
	if p.cmd.Process == nil {
		return false
	}
	return util.IsProcessAlive(p.cmd.Process.Pid)
}

// Stop terminates the process, first gracefully, then forcefully once
// the context expires.
func (p *Proc) Stop(ctx context.Context) error {
	defer p.out.Close()

	if p.cmd.Process == nil {
		return nil
	}

	if err := p.cmd.Process.Signal(os.Interrupt); err != nil {
		p.log.Debug("failed to signal upstream process", zap.Error(err))
	}

	done := make(chan error, 1)
	go func() {
		done <- p.cmd.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if err := p.cmd.Process.Kill(); err != nil {
			return fmt.Errorf("kill upstream process: %w", err)
		}
		<-done
		return nil
	}
}

func (p *Proc) waitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", p.addr, 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return nil
		}

		if !p.Alive() {
			return fmt.Errorf("upstream process exited before becoming ready")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("upstream process not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func freePort(host string) (int, error) {
	l, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
	if err != nil {
		return 0, err
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}
