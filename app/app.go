package app

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/funcgate/funcgate/adapter"
	"github.com/funcgate/funcgate/config"
	"github.com/funcgate/funcgate/function"
	"github.com/funcgate/funcgate/internal/metrics"
	"github.com/funcgate/funcgate/internal/shell"
	"github.com/funcgate/funcgate/internal/upstream"
	"github.com/funcgate/funcgate/util/conf"
	"github.com/funcgate/funcgate/util/logging"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	sharedModule := fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide function config
		fx.Supply(config.Function),
		// provide metrics
		fx.Provide(metrics.New),
		// provide the wrapped application handler
		fx.Provide(NewFunctionHandler),
		// provide the adapter
		fx.Provide(adapter.New),
	)

	return shell.New(log, sharedModule), nil
}

// FunctionHandlerParams defines the dependencies for the wrapped
// application handler.
type FunctionHandlerParams struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

// NewFunctionHandler resolves the wrapped application handler based on
// the configured mode, attaching lifecycle hooks where the mode manages
// external processes.
func NewFunctionHandler(params FunctionHandlerParams, lc fx.Lifecycle) (function.Handler, error) {
	handler, stop, err := BuildHandler(params.Config, params.Log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return warmHandler(ctx, handler)
		},
		OnStop: stop,
	})

	return handler, nil
}

// BuildHandler constructs the wrapped application handler for the
// configured mode. The returned stop function releases any resources
// the handler owns; it is safe to call even when the handler owns none.
func BuildHandler(cfg config.Config, log *zap.Logger) (function.Handler, func(context.Context) error, error) {
	noopStop := func(context.Context) error { return nil }

	switch cfg.Function.Mode {
	case config.ModeRegistry, "":
		handler, err := function.Lookup(cfg.Function.Target)
		if err != nil {
			return nil, nil, err
		}
		return handler, noopStop, nil

	case config.ModeProxy:
		pool, err := upstream.NewPool(cfg.Upstream, log)
		if err != nil {
			return nil, nil, err
		}
		return NewProxyHandler(pool, log), pool.Shutdown, nil
	}

	return nil, nil, fmt.Errorf("invalid function mode: %s", cfg.Function.Mode)
}

// ProxyHandler wires a pool warm-up into the proxy handler so the
// lifecycle hook can reach it.
type ProxyHandler struct {
	*upstream.Proxy

	pool *upstream.Pool
}

func NewProxyHandler(pool *upstream.Pool, log *zap.Logger) *ProxyHandler {
	return &ProxyHandler{
		Proxy: upstream.NewProxy(pool, log),
		pool:  pool,
	}
}

func warmHandler(ctx context.Context, handler function.Handler) error {
	if proxy, ok := handler.(*ProxyHandler); ok {
		return proxy.pool.Warm(ctx)
	}

	return nil
}
