package watch

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"agent-finder/internal/model"
	"agent-finder/internal/stream"
	"agent-finder/internal/track"
)

type sseTransport struct {
	payload string
}

func (s sseTransport) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.payload)), nil
}

func attachChannel(t *testing.T, payload string) *stream.Channel {
	t.Helper()
	ch, err := stream.NewAdapter(sseTransport{payload: payload}).Attach(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	return ch
}

func startedOptions(t *testing.T, payload string, total int) Options {
	t.Helper()
	tr := track.New()
	if err := tr.Begin("job-1", total, testStart()); err != nil {
		t.Fatal(err)
	}
	return Options{
		JobID:   "job-1",
		Tracker: tr,
		Channel: attachChannel(t, payload),
	}
}

func testStart() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
}

func TestRunPlainToCompletion(t *testing.T) {
	payload := strings.Join([]string{
		`data: {"type":"progress","completed":1,"total":2,"found":1,"current_address":"100 Main St"}`,
		"",
		`data: {"type":"progress","completed":2,"total":2,"found":2,"current_address":"200 Oak St"}`,
		"",
		`data: {"type":"complete","completed":2,"total":2,"found":2}`,
		"",
	}, "\n") + "\n"

	opts := startedOptions(t, payload, 2)
	var buf strings.Builder
	outcome := RunPlain(opts, &buf)

	if outcome.Phase != model.PhaseComplete {
		t.Fatalf("expected complete, got %q (err=%q)", outcome.Phase, outcome.ErrMsg)
	}
	if outcome.Snapshot.Completed != 2 {
		t.Fatalf("final snapshot not captured: %+v", outcome.Snapshot)
	}
	if !strings.Contains(buf.String(), "100 Main St") {
		t.Fatalf("expected per-event lines in output, got %q", buf.String())
	}
}

func TestRunPlainSurfacesDisconnect(t *testing.T) {
	payload := "data: {\"type\":\"progress\",\"completed\":1,\"total\":10,\"found\":1}\n\n"

	opts := startedOptions(t, payload, 10)
	outcome := RunPlain(opts, io.Discard)

	if outcome.Phase != model.PhaseError {
		t.Fatalf("expected error phase after transport drop, got %q", outcome.Phase)
	}
	if !strings.Contains(outcome.ErrMsg, "connection lost") {
		t.Fatalf("expected connection-lost message, got %q", outcome.ErrMsg)
	}
}

func TestModelAppliesProgressAndKeepsWaiting(t *testing.T) {
	opts := startedOptions(t, "", 10)
	m := NewModel(opts)

	next, cmd := m.Update(eventMsg(stream.Event{
		Type: stream.EventProgress,
		Snapshot: model.ProgressSnapshot{
			Completed: 3, Total: 10, Found: 3, CurrentAddress: "300 Pine St",
		},
	}))

	nm := next.(Model)
	if got := nm.tracker.Snapshot(); got.Completed != 3 || got.CurrentAddress != "300 Pine St" {
		t.Fatalf("progress event not applied: %+v", got)
	}
	if cmd == nil {
		t.Fatalf("model must keep waiting for the next event")
	}
}

func TestModelQuitsOnTerminalEvents(t *testing.T) {
	cases := []struct {
		ev        stream.Event
		wantPhase string
	}{
		{stream.Event{Type: stream.EventComplete, Snapshot: model.ProgressSnapshot{Completed: 10, Total: 10, Found: 10}}, model.PhaseComplete},
		{stream.Event{Type: stream.EventError, Message: "boom"}, model.PhaseError},
		{stream.Event{Type: stream.EventDisconnect}, model.PhaseError},
	}

	for _, tc := range cases {
		opts := startedOptions(t, "", 10)
		m := NewModel(opts)

		next, cmd := m.Update(eventMsg(tc.ev))
		nm := next.(Model)
		if nm.tracker.Phase() != tc.wantPhase {
			t.Fatalf("event %q: expected phase %q, got %q", tc.ev.Type, tc.wantPhase, nm.tracker.Phase())
		}
		if cmd == nil {
			t.Fatalf("event %q: expected a quit command", tc.ev.Type)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("event %q: expected tea.Quit, got %T", tc.ev.Type, cmd())
		}
	}
}

func TestModelDetachOnQuitKey(t *testing.T) {
	opts := startedOptions(t, "", 10)
	m := NewModel(opts)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	nm := next.(Model)
	if !nm.detached {
		t.Fatalf("q must detach")
	}
	if nm.tracker.Phase() != model.PhaseProcessing {
		t.Fatalf("detach must not change the job phase, got %q", nm.tracker.Phase())
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.Quit after detach")
	}
}

func TestFormatETA(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12, "12s"},
		{95, "1m 35s"},
		{3660, "1h 01m"},
		{-4, "0s"},
	}
	for _, tc := range cases {
		if got := FormatETA(tc.in); got != tc.want {
			t.Fatalf("FormatETA(%f) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
