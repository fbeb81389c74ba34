package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

// WebhookSink posts reminders as JSON to an HTTP endpoint.
type WebhookSink struct {
	httpClient       *resty.Client
	url              string
	maxRetryAttempts uint
}

// NewWebhookSink creates a WebhookSink. An empty token sends no Authorization header.
func NewWebhookSink(url, token string, timeout time.Duration, retryAttempts uint) *WebhookSink {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if token != "" {
		client.SetHeader("Authorization", "Bearer "+token)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &WebhookSink{
		httpClient:       client,
		url:              url,
		maxRetryAttempts: retryAttempts,
	}
}

func (s *WebhookSink) Close() error {
	return s.httpClient.Close()
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("response error %d: %s", e.code, e.body)
}

// isRetryableError reports whether a failed delivery may succeed later:
// transport errors, 429 and 5xx responses.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.code == http.StatusTooManyRequests || statusErr.code >= http.StatusInternalServerError
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Send posts the event. Retries reuse the event ID as Idempotency-Key so
// the receiver can drop duplicates.
func (s *WebhookSink) Send(ctx context.Context, event Event) error {
	return retry.Do(
		func() error {
			err := s.send(ctx, event)
			if err != nil && !isRetryableError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(s.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

func (s *WebhookSink) send(ctx context.Context, event Event) error {
	response, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", event.ID).
		SetBody(event).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return &statusError{code: response.StatusCode(), body: response.String()}
	}
	return nil
}
