package adapter

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/funcgate/funcgate/config"
	"github.com/funcgate/funcgate/function"
	"github.com/funcgate/funcgate/internal/metrics"
)

// Params defines the dependencies for the adapter.
type Params struct {
	fx.In

	// Handler is the wrapped application handler.
	Handler function.Handler

	// Config carries the entry-point identifier, used for metric labels.
	Config config.FunctionConfig

	// Metrics records invocation counters and durations.
	Metrics *metrics.Metrics

	// Log is the logger to use for the adapter.
	Log *zap.Logger
}

// Adapter translates platform invocations into calls on the wrapped
// handler. It holds no per-invocation state: serverless instances are
// reused, so everything request-scoped lives in locals and the context.
type Adapter struct {
	handler function.Handler
	target  string
	metrics *metrics.Metrics
	log     *zap.Logger
}

func New(params Params) *Adapter {
	return &Adapter{
		handler: params.Handler,
		target:  params.Config.Target,
		metrics: params.Metrics,
		log:     params.Log.Named("adapter"),
	}
}

// Invoke dispatches a single invocation to the wrapped handler and
// finalizes the reply. Handler panics are translated into a 500 reply
// instead of crashing the process, and the adapter remains usable for
// subsequent invocations.
func (a *Adapter) Invoke(ctx context.Context, inv Invocation) (reply Reply) {
	id := inv.ID
	if id == "" {
		id = uuid.NewString()
	}

	log := a.log.With(
		zap.String("invocation_id", id),
		zap.String("method", inv.Method),
		zap.String("path", inv.Path),
	)

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panic",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			sentry.CurrentHub().Recover(r)
			reply = ErrorReply(http.StatusInternalServerError, "internal error")
		}

		a.metrics.ObserveInvocation(a.target, reply.StatusCode, time.Since(start))

		log.Debug("invocation completed",
			zap.Int("status", reply.StatusCode),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	req := function.Request{
		Method: strings.ToUpper(inv.Method),
		Path:   inv.Path,
		Query:  inv.Query,
		Header: inv.Header,
		Body:   inv.Body,
	}

	res := a.handler.Handle(ctx, req)

	status := res.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	return Reply{
		StatusCode: status,
		Header:     res.Header,
		Body:       res.Body,
	}
}
