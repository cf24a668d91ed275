package handler

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/funcgate/funcgate/adapter"
	"github.com/funcgate/funcgate/config"
)

type HTTPHandlerParams struct {
	fx.In

	Adapter *adapter.Adapter
	Config  config.Config
	Log     *zap.Logger
}

func NewHTTPHandler(params HTTPHandlerParams) *HTTPHandler {
	return &HTTPHandler{
		adapter: params.Adapter,
		config:  params.Config,
		log:     params.Log,
	}
}

// HTTPHandler converts incoming http requests into invocations and
// writes the finalized reply back. It is the single entry for both the
// standalone server and the serverless proxies.
type HTTPHandler struct {
	adapter *adapter.Adapter
	config  config.Config
	log     *zap.Logger
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)

	// Check for authorization
	if h.config.Auth.Key != "" && r.Header.Get("api-key") != h.config.Auth.Key {
		log.Debug("unauthorized request")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read body", zap.Error(err))
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	inv := adapter.Invocation{
		Method: strings.ToUpper(r.Method),
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header,
		Body:   body,
	}

	// Dispatch the invocation
	reply := h.adapter.Invoke(r.Context(), inv)

	// Map reply headers
	for k, v := range reply.Header {
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}

	// Write reply headers and status code
	w.WriteHeader(reply.StatusCode)

	// Write reply body
	if _, err := w.Write(reply.Body); err != nil {
		log.Debug("failed to write reply", zap.Error(err))
	}
}
