package track

import (
	"fmt"
	"time"

	"agent-finder/internal/model"
)

// DisconnectMessage is surfaced when the progress channel drops before a
// terminal event. The wording matters: the server-side job is NOT assumed
// dead, only our view of it.
const DisconnectMessage = "connection lost, job may still be running"

// Tracker owns every piece of cross-event state for one monitored job:
// lifecycle phase, the canonical snapshot, the prior snapshot used for delta
// inference, the ticker feed, derived metrics, and the wall-clock start.
// All mutation goes through methods; callers are expected to serialize them
// on a single event loop (the watch UI's update loop, or a plain range over
// the channel). Tracker itself holds no locks.
type Tracker struct {
	phase string

	jobID string
	total int

	snapshot model.ProgressSnapshot
	prior    model.ProgressSnapshot

	ticker []TickerEntry
	seq    int

	startedAt time.Time
	metrics   Metrics

	errMsg string
}

func New() *Tracker {
	return &Tracker{phase: model.PhaseUpload}
}

func (t *Tracker) Phase() string                    { return t.phase }
func (t *Tracker) JobID() string                    { return t.jobID }
func (t *Tracker) Total() int                       { return t.total }
func (t *Tracker) Snapshot() model.ProgressSnapshot { return t.snapshot }
func (t *Tracker) Metrics() Metrics                 { return t.metrics }
func (t *Tracker) StartedAt() time.Time             { return t.startedAt }
func (t *Tracker) ErrorMessage() string             { return t.errMsg }

// Ticker returns the capped outcome feed, newest first.
func (t *Tracker) Ticker() []TickerEntry {
	out := make([]TickerEntry, len(t.ticker))
	copy(out, t.ticker)
	return out
}

// Begin moves upload -> processing for a fresh job instance: a successful
// submission, or a resume of a job still running server-side. Counters,
// ticker and metrics start from zero either way; resume deliberately does
// not replay history (the server only streams live counters forward).
func (t *Tracker) Begin(jobID string, total int, startedAt time.Time) error {
	if err := t.transition(model.PhaseProcessing); err != nil {
		return err
	}
	t.jobID = jobID
	t.total = total
	t.snapshot = model.ProgressSnapshot{Total: total}
	t.prior = model.ProgressSnapshot{}
	t.ticker = nil
	t.metrics = Metrics{}
	t.errMsg = ""
	t.startedAt = startedAt
	return nil
}

// ApplyProgress replaces the snapshot wholesale with the latest channel
// payload, infers at most one ticker entry from the counter delta, and
// recomputes metrics. The prior snapshot is updated exactly once per event,
// after inference has run against it.
func (t *Tracker) ApplyProgress(snap model.ProgressSnapshot, now time.Time) error {
	if t.phase != model.PhaseProcessing {
		return fmt.Errorf("progress event in phase %q ignored", t.phase)
	}
	if snap.Total > 0 {
		t.total = snap.Total
	} else {
		snap.Total = t.total
	}
	if entry, ok := t.inferOutcome(t.prior, snap); ok {
		t.push(entry)
	}
	t.prior = snap
	t.snapshot = snap
	t.metrics = computeMetrics(snap.Completed, t.total, now.Sub(t.startedAt))
	return nil
}

// CompleteJob moves processing -> complete. A final snapshot, when the
// terminal event carries one, is applied the same way as a progress event so
// the last in-flight unit still gets its ticker entry.
func (t *Tracker) CompleteJob(final *model.ProgressSnapshot) error {
	if t.phase == model.PhaseProcessing && final != nil {
		snap := *final
		if snap.Total > 0 {
			t.total = snap.Total
		} else {
			snap.Total = t.total
		}
		if entry, ok := t.inferOutcome(t.prior, snap); ok {
			t.push(entry)
		}
		t.prior = snap
		t.snapshot = snap
	}
	return t.transition(model.PhaseComplete)
}

// Fail moves to the error phase with a user-facing message. Used for
// submission failures, server-reported job errors, and transport loss.
func (t *Tracker) Fail(msg string) error {
	if err := t.transition(model.PhaseError); err != nil {
		return err
	}
	t.errMsg = msg
	return nil
}

// FailDisconnected marks a transport-level drop with no terminal event.
func (t *Tracker) FailDisconnected() error {
	return t.Fail(DisconnectMessage)
}

// Reset abandons the current job instance and returns to upload, discarding
// all per-job state including the ticker sequence. Idempotent.
func (t *Tracker) Reset() {
	t.abandon()
}

// Cancel is Reset under another name: the caller is responsible for the
// best-effort server cancel call, which must never gate local cleanup.
func (t *Tracker) Cancel() {
	t.abandon()
}

func (t *Tracker) abandon() {
	t.phase = model.PhaseUpload
	t.jobID = ""
	t.total = 0
	t.snapshot = model.ProgressSnapshot{}
	t.prior = model.ProgressSnapshot{}
	t.ticker = nil
	t.seq = 0
	t.metrics = Metrics{}
	t.errMsg = ""
	t.startedAt = time.Time{}
}

func (t *Tracker) transition(to string) error {
	next, err := model.Transition(t.phase, to)
	if err != nil {
		return fmt.Errorf("%w (job_id=%s)", err, t.jobID)
	}
	t.phase = next
	return nil
}
