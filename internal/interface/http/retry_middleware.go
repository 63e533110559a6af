package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/farmwise/internal/infra/config"
)

// maxReplayBody bounds how much of a request body is buffered for replay.
const maxReplayBody = 1 << 20

var errReplayBodyTooLarge = errors.New("request body too large to replay")

// retryPolicy replays requests that end in a 5xx, with exponential backoff.
type retryPolicy struct {
	attempts   int
	backoff    time.Duration
	exclude    map[string]struct{}
	idempotent func(*http.Request) bool
	sleep      func(context.Context, time.Duration) error
	logger     *slog.Logger
}

// withRetry replays requests that failed with a 5xx. Only requests accepted by
// idempotent are replayed; excluded paths never are.
func withRetry(next http.Handler, cfg config.RetryConfig, idempotent func(*http.Request) bool, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return next
	}
	policy := &retryPolicy{
		attempts:   cfg.MaxAttempts,
		backoff:    cfg.BaseBackoff,
		exclude:    make(map[string]struct{}, len(cfg.Exclude)),
		idempotent: idempotent,
		sleep:      sleepContext,
		logger:     logger,
	}
	for _, path := range cfg.Exclude {
		policy.exclude[path] = struct{}{}
	}
	return policy.wrap(next)
}

func (p *retryPolicy) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := p.exclude[r.URL.Path]; skip || !p.idempotent(r) {
			next.ServeHTTP(w, r)
			return
		}
		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errReplayBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		var last *bufferedResponse
		for attempt := 1; attempt <= p.attempts; attempt++ {
			if attempt > 1 {
				if err := p.sleep(r.Context(), p.delay(attempt)); err != nil {
					break
				}
				p.logger.Warn("retrying request after server error", "path", r.URL.Path, "status", last.status, "attempt", attempt)
			}
			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))

			last = newBufferedResponse()
			next.ServeHTTP(last, replay)
			if last.status < http.StatusInternalServerError {
				break
			}
		}
		last.flushTo(w)
	})
}

// delay doubles the base backoff for each attempt after the second.
func (p *retryPolicy) delay(attempt int) time.Duration {
	return p.backoff << (attempt - 2)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxReplayBody+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxReplayBody {
		return nil, errReplayBodyTooLarge
	}
	return data, nil
}

// bufferedResponse holds one attempt's response until it is known to be final.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
	sent   bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if !b.sent {
		b.status = status
		b.sent = true
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.sent = true
	return b.body.Write(p)
}

// Flush satisfies http.Flusher; output is released only by flushTo.
func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = append([]string(nil), v...)
	}
	w.WriteHeader(b.status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
