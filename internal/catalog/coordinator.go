package catalog

import (
	"context"
	"strings"
)

// FirstPageFunc maps committed search text to the locator of its first
// page. Empty text must map to the unfiltered listing.
type FirstPageFunc func(query string) string

// Coordinator turns user intents (mount, submit, reaching the end of the
// list, reset) into resets or continuations on the Controller. The returned
// *Request is nil when the intent is a no-op; otherwise the caller executes
// it with Controller.Run, synchronously or in the background.
type Coordinator struct {
	ctrl      *Controller
	firstPage FirstPageFunc

	// guarded by ctrl.mu
	draft   string
	mounted bool
}

func NewCoordinator(ctrl *Controller, firstPage FirstPageFunc) *Coordinator {
	return &Coordinator{ctrl: ctrl, firstPage: firstPage}
}

func (c *Coordinator) Controller() *Controller { return c.ctrl }

// SetDraft records the text currently typed in the search input.
func (c *Coordinator) SetDraft(text string) {
	c.ctrl.mu.Lock()
	c.draft = text
	c.ctrl.mu.Unlock()
}

func (c *Coordinator) Draft() string {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	return c.draft
}

func (c *Coordinator) Committed() string {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	return c.ctrl.query
}

// Mount issues the implicit empty search of a freshly shown list. It fires
// once, and not at all if a query was already committed.
func (c *Coordinator) Mount() *Request {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	if c.mounted || c.ctrl.query != "" {
		return nil
	}
	c.mounted = true
	return c.submitLocked("")
}

// Submit commits draft as the live query and restarts pagination, unless it
// equals the committed query and a healthy non-empty result set is shown.
func (c *Coordinator) Submit(draft string) *Request {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	return c.submitLocked(strings.TrimSpace(draft))
}

func (c *Coordinator) submitLocked(text string) *Request {
	ctrl := c.ctrl
	if text == ctrl.query && len(ctrl.records) > 0 && ctrl.status != StatusError {
		return nil
	}
	ctrl.query = text
	return ctrl.beginLocked(c.firstPage(text), ModeReset)
}

// LoadMore asks for the next page. It is a no-op unless the list is idle
// and more pages exist, which absorbs bursts of end-of-list events.
func (c *Coordinator) LoadMore() *Request {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	if c.ctrl.status != StatusIdle || !c.ctrl.hasMore {
		return nil
	}
	return c.ctrl.beginLocked(c.ctrl.cursor, ModeAppend)
}

// Reset clears the search input and goes back to the unfiltered listing.
func (c *Coordinator) Reset() *Request {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	c.draft = ""
	return c.submitLocked("")
}

func (c *Coordinator) Snapshot() Snapshot {
	c.ctrl.mu.Lock()
	defer c.ctrl.mu.Unlock()
	s := c.ctrl.snapshotLocked()
	s.Draft = c.draft
	return s
}

func (c *Coordinator) MountAndWait(ctx context.Context) error {
	return c.ctrl.Run(ctx, c.Mount())
}

func (c *Coordinator) SubmitAndWait(ctx context.Context, draft string) error {
	return c.ctrl.Run(ctx, c.Submit(draft))
}

func (c *Coordinator) LoadMoreAndWait(ctx context.Context) error {
	return c.ctrl.Run(ctx, c.LoadMore())
}

func (c *Coordinator) ResetAndWait(ctx context.Context) error {
	return c.ctrl.Run(ctx, c.Reset())
}
