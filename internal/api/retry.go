package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Retrying retries transient page failures of a Client with exponential
// backoff. It satisfies the same Page contract as Client, so callers see
// only the final outcome.
type Retrying struct {
	client   *Client
	tries    uint
	interval time.Duration
}

// NewRetrying allows up to tries attempts per page, waiting about interval
// before the first retry. tries below 2 disables retrying.
func NewRetrying(client *Client, tries uint, interval time.Duration) *Retrying {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Retrying{client: client, tries: tries, interval: interval}
}

func (r *Retrying) Page(ctx context.Context, locator Locator) (*Page, error) {
	if r.tries < 2 {
		return r.client.Page(ctx, locator)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval
	b.MaxInterval = 10 * r.interval

	return backoff.Retry(ctx, func() (*Page, error) {
		page, err := r.client.Page(ctx, locator)
		if err != nil && !Transient(err) {
			return nil, backoff.Permanent(err)
		}
		return page, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(r.tries))
}

// Character is not retried; it is only used for one-off lookups.
func (r *Retrying) Character(ctx context.Context, id int) (*Character, error) {
	return r.client.Character(ctx, id)
}

// Transient reports whether err is worth another attempt: transport
// failures, rate limiting and 5xx answers.
func Transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
