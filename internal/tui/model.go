// Package tui is the interactive character browser: a searchable list that
// loads more pages as the selection nears its end, and a detail pane.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"catalog-cli/internal/api"
	"catalog-cli/internal/catalog"
)

// loadMoreThreshold is how close to the last row the selection has to get
// before the next page is requested.
const loadMoreThreshold = 3

// chromeHeight is the number of lines taken by title, search bar and footer.
const chromeHeight = 6

type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeDetail
)

// DetailFetcher loads a single record. *api.Client implements it.
type DetailFetcher interface {
	Character(ctx context.Context, id int) (*api.Character, error)
}

type pageLoadedMsg struct {
	req  *catalog.Request
	page *api.Page
	err  error
}

type detailLoadedMsg struct {
	seq       int
	character *api.Character
	err       error
}

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	coord   *catalog.Coordinator
	details DetailFetcher
	logger  *zap.Logger

	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model

	mode   viewMode
	width  int
	height int

	snap     catalog.Snapshot
	selected int
	offset   int

	// detailSeq tags detail fetches; replies for an older selection are dropped.
	detailSeq     int
	detail        *api.Character
	detailErr     error
	detailLoading bool
}

func New(ctx context.Context, coord *catalog.Coordinator, details DetailFetcher, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Search by name"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		coord:   coord,
		details: details,
		logger:  logger,
		keys:    defaultKeys(),
		help:    help.New(),
		input:   ti,
		spinner: sp,
		height:  24,
		snap:    coord.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.coord.Mount()))
}

// fetch runs the remote read off the update loop; completion comes back as
// a pageLoadedMsg.
func (m Model) fetch(req *catalog.Request) tea.Cmd {
	if req == nil {
		return nil
	}
	ctrl := m.coord.Controller()
	ctx := m.ctx
	return func() tea.Msg {
		page, err := ctrl.Fetch(ctx, req)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
}

func (m Model) fetchDetail(id, seq int) tea.Cmd {
	details := m.details
	ctx := m.ctx
	return func() tea.Msg {
		ch, err := details.Character(ctx, id)
		return detailLoadedMsg{seq: seq, character: ch, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-4)
		m.clampSelection()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case pageLoadedMsg:
		if err := m.coord.Controller().Complete(msg.req, msg.page, msg.err); err != nil {
			m.logger.Warn("page load failed", zap.String("mode", msg.req.Mode.String()), zap.Error(err))
		}
		m.refresh()
		return m, nil

	case detailLoadedMsg:
		if msg.seq != m.detailSeq {
			return m, nil
		}
		m.detailLoading = false
		m.detail = msg.character
		m.detailErr = msg.err
		if msg.err != nil {
			m.logger.Warn("detail load failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.input.Blur()
		cmd := m.fetch(m.coord.Submit(m.input.Value()))
		m.refresh()
		return m, cmd
	case tea.KeyEsc:
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.coord.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		m.detailSeq++
		m.detail = nil
		m.detailErr = nil
		m.detailLoading = false
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Reset):
		m.input.Reset()
		cmd := m.fetch(m.coord.Reset())
		m.refresh()
		return m, cmd

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.Open):
		if len(m.snap.Records) == 0 {
			return m, nil
		}
		m.mode = modeDetail
		m.detailSeq++
		m.detail = nil
		m.detailErr = nil
		m.detailLoading = true
		return m, m.fetchDetail(m.snap.Records[m.selected].ID, m.detailSeq)

	case key.Matches(msg, m.keys.Up):
		return m.moveTo(m.selected - 1)
	case key.Matches(msg, m.keys.Down):
		return m.moveTo(m.selected + 1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveTo(m.selected - m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveTo(m.selected + m.listHeight())
	case key.Matches(msg, m.keys.Top):
		return m.moveTo(0)
	case key.Matches(msg, m.keys.Bottom):
		return m.moveTo(len(m.snap.Records) - 1)
	}
	return m, nil
}

// retry re-runs whatever failed last: the first page after an error, or
// the next page after a failed append.
func (m Model) retry() (tea.Model, tea.Cmd) {
	var req *catalog.Request
	switch {
	case m.snap.Status == catalog.StatusError:
		req = m.coord.Submit(m.snap.Committed)
	case m.snap.Err != nil && errors.Is(m.snap.Err, catalog.ErrFetchFailed):
		req = m.coord.LoadMore()
	}
	cmd := m.fetch(req)
	m.refresh()
	return m, cmd
}

func (m Model) moveTo(idx int) (tea.Model, tea.Cmd) {
	m.selected = idx
	m.clampSelection()

	var cmd tea.Cmd
	if n := len(m.snap.Records); n > 0 && n-1-m.selected < loadMoreThreshold {
		cmd = m.fetch(m.coord.LoadMore())
		m.refresh()
	}
	return m, cmd
}

func (m *Model) refresh() {
	m.snap = m.coord.Snapshot()
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.snap.Records)
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	h := m.listHeight()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
	if m.offset > max(0, n-h) {
		m.offset = max(0, n-h)
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) listHeight() int {
	return max(1, m.height-chromeHeight)
}

// Snapshot exposes the list state the model last rendered.
func (m Model) Snapshot() catalog.Snapshot { return m.snap }

func (m Model) Selected() int { return m.selected }
