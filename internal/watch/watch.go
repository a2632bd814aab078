// Package watch drives a Tracker from a live progress channel and renders
// it, either as a full-screen bubbletea view or as plain lines for
// non-interactive use. The channel's event order is the only source of
// tracker mutation, which keeps the state machine single-threaded.
package watch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"agent-finder/internal/api"
	"agent-finder/internal/model"
	"agent-finder/internal/notify"
	"agent-finder/internal/stream"
	"agent-finder/internal/track"
)

type Options struct {
	JobID    string
	Filename string
	Tracker  *track.Tracker
	Channel  *stream.Channel
	API      *api.Client
	Notify   bool
}

// Outcome is what the command layer reports after observation ends.
type Outcome struct {
	Phase     string
	Snapshot  model.ProgressSnapshot
	Ticker    []track.TickerEntry
	ErrMsg    string
	Cancelled bool
	Detached  bool
}

func outcomeFrom(tr *track.Tracker, cancelled, detached bool) Outcome {
	return Outcome{
		Phase:     tr.Phase(),
		Snapshot:  tr.Snapshot(),
		Ticker:    tr.Ticker(),
		ErrMsg:    tr.ErrorMessage(),
		Cancelled: cancelled,
		Detached:  detached,
	}
}

type eventMsg stream.Event

type streamClosedMsg struct{}

type cancelSentMsg struct{ err error }

func waitForEvent(events <-chan stream.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func sendCancel(client *api.Client, jobID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cancelSentMsg{err: client.CancelJob(ctx, jobID)}
	}
}

// Model is the bubbletea model for the live job view.
type Model struct {
	opts    Options
	tracker *track.Tracker
	bar     progress.Model
	spin    spinner.Model
	width   int

	confirmCancel bool
	cancelPending bool
	cancelled     bool
	detached      bool
	notified      bool
}

func NewModel(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		opts:    opts,
		tracker: opts.Tracker,
		bar:     progress.New(progress.WithDefaultGradient()),
		spin:    sp,
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForEvent(m.opts.Channel.Events()))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 10
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.bar.Width = w
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case eventMsg:
		return m.handleEvent(stream.Event(msg))

	case streamClosedMsg:
		if m.cancelPending || m.cancelled || m.detached {
			return m, nil
		}
		if m.tracker.Phase() == model.PhaseProcessing {
			_ = m.tracker.FailDisconnected()
		}
		return m, tea.Quit

	case cancelSentMsg:
		if msg.err != nil {
			// Best effort only: the job may keep running server-side.
			fmt.Fprintf(os.Stderr, "cancel request: %v\n", msg.err)
		}
		m.tracker.Cancel()
		m.cancelPending = false
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleEvent(ev stream.Event) (tea.Model, tea.Cmd) {
	switch ev.Type {
	case stream.EventProgress:
		_ = m.tracker.ApplyProgress(ev.Snapshot, time.Now())
		return m, waitForEvent(m.opts.Channel.Events())

	case stream.EventComplete:
		snap := ev.Snapshot
		_ = m.tracker.CompleteJob(&snap)
		m.opts.Channel.Close()
		if m.opts.Notify && !m.notified {
			m.notified = true
			notifyComplete(m.opts.JobID, m.tracker.Snapshot())
		}
		return m, tea.Quit

	case stream.EventError:
		_ = m.tracker.Fail(ev.Message)
		m.opts.Channel.Close()
		return m, tea.Quit

	case stream.EventDisconnect:
		_ = m.tracker.FailDisconnected()
		m.opts.Channel.Close()
		return m, tea.Quit
	}
	return m, waitForEvent(m.opts.Channel.Events())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmCancel {
		switch msg.String() {
		case "y", "Y":
			m.confirmCancel = false
			m.cancelPending = true
			m.opts.Channel.Close()
			return m, sendCancel(m.opts.API, m.opts.JobID)
		default:
			m.confirmCancel = false
			return m, nil
		}
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		// Detach: stop observing, leave the job running server-side.
		m.detached = true
		m.opts.Channel.Close()
		return m, tea.Quit
	case "c":
		if m.tracker.Phase() == model.PhaseProcessing {
			m.confirmCancel = true
		}
		return m, nil
	}
	return m, nil
}

// RunTUI blocks until the job reaches a terminal state or the user detaches
// or cancels.
func RunTUI(opts Options) (Outcome, error) {
	p := tea.NewProgram(NewModel(opts))
	final, err := p.Run()
	if err != nil {
		opts.Channel.Close()
		return Outcome{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return Outcome{}, fmt.Errorf("unexpected final model %T", final)
	}
	return outcomeFrom(fm.tracker, fm.cancelled, fm.detached), nil
}

func notifyComplete(jobID string, snap model.ProgressSnapshot) {
	rate := 0
	if snap.Completed > 0 {
		rate = (snap.Found + snap.Partial) * 100 / snap.Completed
	}
	notify.Send("Agent Finder",
		fmt.Sprintf("Job %s complete: %d/%d addresses, %d%% matched (found %d, partial %d)",
			jobID, snap.Completed, snap.Total, rate, snap.Found, snap.Partial))
}
