package watch

import (
	"fmt"
	"io"
	"strings"
	"time"

	"agent-finder/internal/model"
	"agent-finder/internal/stream"
	"agent-finder/internal/track"
)

// RunPlain consumes the channel inline and prints one status line per
// progress event. Suits logs, CI, and piped output; same tracker semantics
// as the TUI.
func RunPlain(opts Options, out io.Writer) Outcome {
	tr := opts.Tracker
	for ev := range opts.Channel.Events() {
		switch ev.Type {
		case stream.EventProgress:
			if err := tr.ApplyProgress(ev.Snapshot, time.Now()); err != nil {
				continue
			}
			fmt.Fprintln(out, plainLine(tr))

		case stream.EventComplete:
			snap := ev.Snapshot
			_ = tr.CompleteJob(&snap)
			if opts.Notify {
				notifyComplete(opts.JobID, tr.Snapshot())
			}

		case stream.EventError:
			_ = tr.Fail(ev.Message)

		case stream.EventDisconnect:
			_ = tr.FailDisconnected()
		}
	}
	opts.Channel.Close()

	// A channel that closes without any terminal event still counts as a
	// transport drop.
	if tr.Phase() == model.PhaseProcessing {
		_ = tr.FailDisconnected()
	}
	return outcomeFrom(tr, false, false)
}

func plainLine(tr *track.Tracker) string {
	snap := tr.Snapshot()
	parts := []string{
		fmt.Sprintf("[%d/%d]", snap.Completed, snap.Total),
		fmt.Sprintf("found:%d partial:%d cached:%d not_found:%d", snap.Found, snap.Partial, snap.Cached, snap.NotFound),
	}
	m := tr.Metrics()
	if m.ThroughputPerMinute != nil {
		parts = append(parts, fmt.Sprintf("%d/min", *m.ThroughputPerMinute))
	}
	if m.ETASeconds != nil {
		parts = append(parts, "ETA "+FormatETA(*m.ETASeconds))
	}
	if snap.CurrentAddress != "" {
		parts = append(parts, "| "+snap.CurrentAddress)
	}
	return strings.Join(parts, "  ")
}
