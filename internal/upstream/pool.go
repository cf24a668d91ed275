package upstream

import (
	"context"
	"fmt"

	"github.com/jackc/puddle/v2"
	"go.uber.org/zap"
)

// Pool manages a pool of wrapped application processes. Wrapped function
// runtimes commonly handle one request at a time, so an invocation
// acquires a process for the duration of the exchange.
type Pool struct {
	pool *puddle.Pool[*Proc]
	cfg  Config
	log  *zap.Logger
}

func NewPool(cfg Config, log *zap.Logger) (*Pool, error) {
	cfg = cfg.withDefaults()

	if cfg.Command == "" {
		return nil, fmt.Errorf("no upstream command configured")
	}

	if cfg.Port != 0 && cfg.MaxProcs > 1 {
		return nil, fmt.Errorf("fixed upstream port requires max_procs = 1")
	}

	log = log.Named("upstream")

	pool, err := puddle.NewPool(&puddle.Config[*Proc]{
		Constructor: func(ctx context.Context) (*Proc, error) {
			return StartProc(ctx, cfg, log)
		},
		Destructor: func(p *Proc) {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.StopTimeout)
			defer cancel()

			if err := p.Stop(ctx); err != nil {
				log.Warn("failed to stop upstream process", zap.Error(err))
			}
		},
		MaxSize: int32(cfg.MaxProcs),
	})
	if err != nil {
		return nil, err
	}

	return &Pool{
		pool: pool,
		cfg:  cfg,
		log:  log,
	}, nil
}

// Warm eagerly starts the configured minimum number of processes.
func (p *Pool) Warm(ctx context.Context) error {
	for i := 0; i < p.cfg.MinProcs; i++ {
		if err := p.pool.CreateResource(ctx); err != nil {
			return fmt.Errorf("warm upstream pool: %w", err)
		}
	}

	return nil
}

// Acquire returns a live process resource. Dead processes found in the
// pool are destroyed and replaced.
func (p *Pool) Acquire(ctx context.Context) (*puddle.Resource[*Proc], error) {
	// bounded by pool size: each dead resource is destroyed, so at most
	// MaxProcs stale entries can be drained before a fresh one is built
	for attempt := 0; attempt <= p.cfg.MaxProcs; attempt++ {
		res, err := p.pool.Acquire(ctx)
		if err != nil {
			return nil, err
		}

		if res.Value().Alive() {
			return res, nil
		}

		p.log.Warn("discarding dead upstream process")
		res.Destroy()
	}

	return nil, fmt.Errorf("no live upstream process available")
}

// Shutdown stops all pooled processes and closes the pool.
func (p *Pool) Shutdown(context.Context) error {
	p.pool.Close()
	return nil
}
