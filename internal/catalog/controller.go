package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"catalog-cli/internal/api"
)

// ErrFetchFailed wraps every transport, HTTP and decode failure that reaches
// the controller.
var ErrFetchFailed = errors.New("fetch failed")

// Request is one page fetch handed out by Begin. It remembers the query and
// generation it was issued under so that Complete can drop it once a newer
// reset has started.
type Request struct {
	Locator string
	Mode    Mode

	generation uint64
	query      string
}

// Snapshot is a read-only copy of the list state.
type Snapshot struct {
	Records   []api.Character
	Status    Status
	HasMore   bool
	Cursor    string
	Committed string
	Draft     string
	Err       error
}

// Controller owns the result set, the cursor and the fetch status. All
// mutation goes through Begin and Complete.
type Controller struct {
	mu      sync.Mutex
	fetcher Fetcher
	logger  *zap.Logger

	records []api.Character
	seen    map[int]struct{}
	cursor  string
	hasMore bool
	status  Status
	lastErr error

	// query is the committed search text; it tags every request.
	query      string
	generation uint64
	inflight   [2]*Request
}

func NewController(fetcher Fetcher, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		fetcher: fetcher,
		logger:  logger,
		seen:    make(map[int]struct{}),
		status:  StatusLoadingInitial,
	}
}

// Begin registers a page fetch and returns it, or nil when the call is a
// no-op: empty locator, an append while not idle or without more pages, or a
// duplicate of a request already in flight.
func (c *Controller) Begin(locator string, mode Mode) *Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.beginLocked(locator, mode)
}

func (c *Controller) beginLocked(locator string, mode Mode) *Request {
	if locator == "" {
		return nil
	}

	switch mode {
	case ModeAppend:
		if c.status != StatusIdle || !c.hasMore || c.inflight[ModeAppend] != nil {
			return nil
		}
		c.status = StatusLoadingMore

	case ModeReset:
		if cur := c.inflight[ModeReset]; cur != nil && cur.query == c.query && cur.Locator == locator {
			return nil
		}
		// Anything issued before this point is now stale.
		c.generation++
		c.inflight[ModeAppend] = nil
		c.clearLocked()
		c.hasMore = true
		c.status = StatusLoadingInitial
	}

	req := &Request{
		Locator:    locator,
		Mode:       mode,
		generation: c.generation,
		query:      c.query,
	}
	c.inflight[mode] = req
	c.logger.Debug("page fetch started",
		zap.String("mode", mode.String()),
		zap.String("locator", locator),
		zap.String("query", c.query),
		zap.Uint64("generation", c.generation))
	return req
}

// Complete applies the outcome of a request. Stale requests are discarded.
// The returned error wraps ErrFetchFailed when the fetch failed and the
// request was still current.
func (c *Controller) Complete(req *Request, page *api.Page, err error) error {
	if req == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[req.Mode] == req {
		c.inflight[req.Mode] = nil
	}

	if req.generation != c.generation || req.query != c.query {
		c.logger.Debug("stale page discarded",
			zap.String("mode", req.Mode.String()),
			zap.String("locator", req.Locator),
			zap.String("request_query", req.query),
			zap.String("live_query", c.query))
		return nil
	}

	if err == nil && page == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		return c.failLocked(req, err)
	}

	if req.Mode == ModeReset {
		c.clearLocked()
	}
	c.mergeLocked(page.Results)
	c.cursor = page.NextLocator()
	c.hasMore = c.cursor != ""
	c.status = StatusIdle
	c.lastErr = nil

	c.logger.Debug("page fetch completed",
		zap.String("mode", req.Mode.String()),
		zap.Int("received", len(page.Results)),
		zap.Int("total", len(c.records)),
		zap.Bool("has_more", c.hasMore))
	return nil
}

func (c *Controller) failLocked(req *Request, err error) error {
	wrapped := fmt.Errorf("%w: %w", ErrFetchFailed, err)
	c.lastErr = wrapped

	switch req.Mode {
	case ModeReset:
		// Never show results of a query that failed to load.
		c.clearLocked()
		c.hasMore = false
		c.status = StatusError
	case ModeAppend:
		// What is already shown stays; the next trigger may try again.
		c.status = StatusIdle
	}

	c.logger.Warn("page fetch failed",
		zap.String("mode", req.Mode.String()),
		zap.String("locator", req.Locator),
		zap.Error(err))
	return wrapped
}

func (c *Controller) mergeLocked(results []api.Character) {
	for _, r := range results {
		if _, dup := c.seen[r.ID]; dup {
			c.logger.Warn("duplicate record dropped", zap.Int("id", r.ID), zap.String("name", r.Name))
			continue
		}
		c.seen[r.ID] = struct{}{}
		c.records = append(c.records, r)
	}
}

func (c *Controller) clearLocked() {
	c.records = nil
	c.seen = make(map[int]struct{})
	c.cursor = ""
}

// Fetch performs the remote read for req without touching any state, for
// callers that complete requests on their own loop.
func (c *Controller) Fetch(ctx context.Context, req *Request) (*api.Page, error) {
	return c.fetcher.Page(ctx, req.Locator)
}

// Run performs the remote read for req and completes it. A nil request is a
// no-op.
func (c *Controller) Run(ctx context.Context, req *Request) error {
	if req == nil {
		return nil
	}
	page, err := c.Fetch(ctx, req)
	return c.Complete(req, page, err)
}

// LoadPage is Begin followed by Run.
func (c *Controller) LoadPage(ctx context.Context, locator string, mode Mode) error {
	return c.Run(ctx, c.Begin(locator, mode))
}

func (c *Controller) Records() []api.Character {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Character, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

func (c *Controller) Cursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// LastError returns the wrapped error of the latest failed fetch, cleared by
// the next success.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	records := make([]api.Character, len(c.records))
	copy(records, c.records)
	return Snapshot{
		Records:   records,
		Status:    c.status,
		HasMore:   c.hasMore,
		Cursor:    c.cursor,
		Committed: c.query,
		Err:       c.lastErr,
	}
}
