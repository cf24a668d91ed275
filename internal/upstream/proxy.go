package upstream

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/funcgate/funcgate/function"
)

// Proxy implements function.Handler by forwarding requests over HTTP to
// a pooled wrapped application process.
type Proxy struct {
	pool   *Pool
	client *http.Client
	log    *zap.Logger
}

var _ function.Handler = (*Proxy)(nil)

func NewProxy(pool *Pool, log *zap.Logger) *Proxy {
	return &Proxy{
		pool:   pool,
		client: &http.Client{},
		log:    log.Named("proxy"),
	}
}

func (p *Proxy) Handle(ctx context.Context, req function.Request) function.Response {
	res, err := p.pool.Acquire(ctx)
	if err != nil {
		p.log.Error("failed to acquire upstream process", zap.Error(err))
		return function.Text(http.StatusBadGateway, "upstream unavailable")
	}

	proc := res.Value()

	url := proc.URL() + req.Path
	if len(req.Query) > 0 {
		url += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bytes.NewReader(req.Body))
	if err != nil {
		res.Release()
		p.log.Error("failed to build upstream request", zap.Error(err))
		return function.Text(http.StatusInternalServerError, "internal error")
	}

	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		// the process may be wedged, replace it
		res.Destroy()
		p.log.Error("upstream request failed", zap.Error(err))
		return function.Text(http.StatusBadGateway, "upstream request failed")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		res.Destroy()
		p.log.Error("failed to read upstream response", zap.Error(err))
		return function.Text(http.StatusBadGateway, "upstream response failed")
	}

	res.Release()

	return function.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}
}
