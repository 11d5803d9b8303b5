package gui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ncmu-dev/ncmu/internal/nav"
	"github.com/ncmu-dev/ncmu/internal/pipeline"
	"github.com/ncmu-dev/ncmu/internal/reconcile"
)

// Options configures the dashboard.
type Options struct {
	Version    string
	Metric     string // shown in the header
	Interval   time.Duration
	Reconciler *reconcile.Reconciler
}

// model is the Bubble Tea model for the ncmu dashboard. Update is the only
// writer of the controller, so reconciliation and navigation never
// interleave.
type model struct {
	opts   Options
	frames <-chan *pipeline.Frame

	ctrl  *nav.Controller
	rec   *reconcile.Reconciler
	frame *pipeline.Frame // last good frame
	patch reconcile.Patch
	polls int

	stale   bool
	lastErr error

	keys keyMap
	help help.Model

	width  int
	height int

	showDetail bool
	now        time.Time
}

// frameMsg carries a frame published by the poller.
type frameMsg *pipeline.Frame

// tickMsg fires once a second to refresh ages and the stale marker.
type tickMsg time.Time

// Run starts the poller and the Bubble Tea TUI. It returns when the
// operator quits or ctx is cancelled.
func Run(ctx context.Context, p *pipeline.Poller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("poller stopped", "error", err)
		}
	}()

	m := newModel(p.Frames(), opts)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func newModel(frames <-chan *pipeline.Frame, opts Options) model {
	rec := opts.Reconciler
	if rec == nil {
		rec = &reconcile.Reconciler{MinDelta: 1}
	}
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return model{
		opts:   opts,
		frames: frames,
		ctrl:   nav.New(nil),
		rec:    rec,
		keys:   defaultKeys(),
		help:   help.New(),
		now:    time.Now(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitFrame(m.frames), tickCmd())
}

func waitFrame(ch <-chan *pipeline.Frame) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		fr, ok := <-ch
		if !ok {
			return nil
		}
		return frameMsg(fr)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m = m.applyFrame((*pipeline.Frame)(msg))
		return m, waitFrame(m.frames)

	case tickMsg:
		m.now = time.Time(msg)
		if m.frame != nil && m.now.Sub(m.frame.At) > 3*m.opts.Interval {
			m.stale = true
		}
		return m, tickCmd()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ctrl.Follow(m.listHeight())
		return m, nil
	}

	return m, nil
}

func (m model) applyFrame(fr *pipeline.Frame) model {
	if fr == nil {
		return m
	}
	if fr.Err != nil {
		m.stale = true
		m.lastErr = fr.Err
		return m
	}
	m.patch = m.rec.Reconcile(m.ctrl.Forest(), fr.Forest, m.ctrl.State())
	m.ctrl.SetForest(fr.Forest)
	m.ctrl.Follow(m.listHeight())
	m.frame = fr
	m.polls++
	m.stale = false
	m.lastErr = nil
	if fr.At.After(m.now) {
		m.now = fr.At
	}
	return m
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, isNav := m.keys.event(msg)

	// The detail overlay takes every key except quit.
	if m.showDetail && !(isNav && ev == nav.Quit) {
		if key.Matches(msg, m.keys.Detail) || msg.String() == "esc" || msg.String() == "enter" {
			m.showDetail = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.ctrl.Selected(); ok {
			m.showDetail = true
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ctrl.Follow(m.listHeight())
		return m, nil
	}

	if isNav {
		if m.ctrl.Apply(ev) {
			return m, tea.Quit
		}
		m.ctrl.Follow(m.listHeight())
	}
	return m, nil
}
