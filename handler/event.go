package handler

import (
	"context"
	"net/http"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/cloudevents/sdk-go/v2/protocol"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/funcgate/funcgate/adapter"
)

type EventHandlerParams struct {
	fx.In

	Context context.Context
	Adapter *adapter.Adapter
	Log     *zap.Logger
}

// EventHandler accepts CloudEvents over HTTP and invokes the function
// with the event data. The reply body is discarded; delivery is acked
// or nacked based on the reply status.
type EventHandler struct {
	adapter  *adapter.Adapter
	receiver http.Handler
	log      *zap.Logger
}

func NewEventHandler(params EventHandlerParams) (*EventHandler, error) {
	h := &EventHandler{
		adapter: params.Adapter,
		log:     params.Log.Named("events"),
	}

	p, err := cehttp.New()
	if err != nil {
		return nil, err
	}

	receiver, err := cloudevents.NewHTTPReceiveHandler(params.Context, p, h.receive)
	if err != nil {
		return nil, err
	}

	h.receiver = receiver

	return h, nil
}

func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.receiver.ServeHTTP(w, r)
}

func (h *EventHandler) receive(ctx context.Context, e event.Event) protocol.Result {
	log := h.log.With(
		zap.String("event_id", e.ID()),
		zap.String("event_type", e.Type()),
	)

	header := make(http.Header)
	header.Set("Ce-Id", e.ID())
	header.Set("Ce-Type", e.Type())
	header.Set("Ce-Source", e.Source())
	if ct := e.DataContentType(); ct != "" {
		header.Set("Content-Type", ct)
	}

	// events carry no request path; a "path" extension can address a
	// specific route of the wrapped handler
	path := "/"
	if ext, ok := e.Extensions()["path"].(string); ok && ext != "" {
		path = ext
	}

	inv := adapter.Invocation{
		ID:     e.ID(),
		Method: http.MethodPost,
		Path:   path,
		Header: header,
		Body:   e.Data(),
	}

	reply := h.adapter.Invoke(ctx, inv)

	log.Debug("event handled", zap.Int("status", reply.StatusCode))

	return cehttp.NewResult(reply.StatusCode, "function replied with %d", reply.StatusCode)
}
