package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amaumene/mediatrakker/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	userAgent      = "mediatrakker/1.0"
	maxRetries     = 3
	maxErrorBody   = 4 * 1024
	defaultTimeout = 30 * time.Second
)

// StatusError is returned when a provider answers with a non-2xx status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// retryable reports whether the status is worth another attempt
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Requester performs rate limited provider calls, retrying throttling and
// server errors with exponential backoff.
type Requester struct {
	name       string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	logger     *logrus.Logger

	newBackOff func() backoff.BackOff
}

// NewRequester creates a requester allowing rps requests per second.
// A nil httpClient gets a client with the default timeout.
func NewRequester(name string, httpClient *http.Client, rps float64, m *metrics.Metrics, logger *logrus.Logger) *Requester {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Requester{
		name:       name,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		metrics:    m,
		logger:     logger,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Do sends the request built by build and decodes the JSON response into out.
// build is called once per attempt so request bodies can be replayed.
func (r *Requester) Do(ctx context.Context, build func(ctx context.Context) (*http.Request, error), out interface{}) error {
	attempt := 0
	operation := func() error {
		attempt++
		if err := r.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		r.logger.WithFields(logrus.Fields{
			"provider": r.name,
			"method":   req.Method,
			"url":      req.URL.Redacted(),
			"attempt":  attempt,
		}).Debug("Calling catalog provider")

		resp, err := r.httpClient.Do(req)
		if err != nil {
			r.observe("transport_error")
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("%s request failed: %w", r.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			statusErr := &StatusError{Provider: r.name, StatusCode: resp.StatusCode, Body: string(body)}
			r.observe(fmt.Sprintf("status_%d", resp.StatusCode))
			if statusErr.retryable() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				r.observe("decode_error")
				return backoff.Permanent(fmt.Errorf("failed to decode %s response: %w", r.name, err))
			}
		}
		r.observe("ok")
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), maxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"provider": r.name,
			"wait_ms":  wait.Milliseconds(),
		}).Warn("Catalog provider call failed, retrying")
	}

	return backoff.RetryNotify(operation, policy, notify)
}

func (r *Requester) observe(outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.ProviderRequests.WithLabelValues(r.name, outcome).Inc()
}
