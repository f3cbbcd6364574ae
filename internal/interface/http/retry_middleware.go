package http

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/yanqian/surf-forecast/internal/infra/config"
)

type replayKey struct{}

// isReplay reports whether r is a retry of a request that already went
// through the chain once. Replays are not charged against the rate limit.
func isReplay(r *http.Request) bool {
	replay, _ := r.Context().Value(replayKey{}).(bool)
	return replay
}

// withRetry replays idempotent reads that failed with a 5xx, doubling the
// backoff between attempts. Only the last attempt reaches the client.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	excluded := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		excluded[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := excluded[r.URL.Path]; skip || !idempotent(r.Method) {
			handler.ServeHTTP(w, r)
			return
		}

		var resp *bufferedResponse
		for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
			if attempt > 1 {
				logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", resp.status, "attempt", attempt-1)
				if !sleepCtx(r, cfg.BaseBackoff<<(attempt-2)) {
					break
				}
			}
			ctx := r.Context()
			if attempt > 1 {
				ctx = context.WithValue(ctx, replayKey{}, true)
			}
			resp = newBufferedResponse()
			handler.ServeHTTP(resp, r.Clone(ctx))
			if !resp.failed() {
				break
			}
		}
		resp.flushTo(w)
	})
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// sleepCtx waits d unless the request is cancelled first.
func sleepCtx(r *http.Request, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

// bufferedResponse holds one attempt's response until it is known to be final.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) failed() bool {
	return b.status >= http.StatusInternalServerError
}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = slices.Clone(v)
	}
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
