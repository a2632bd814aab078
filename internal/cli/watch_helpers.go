package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"agent-finder/internal/api"
	"agent-finder/internal/model"
	"agent-finder/internal/settings"
	"agent-finder/internal/stream"
	"agent-finder/internal/track"
	"agent-finder/internal/watch"
)

// observeJob is the shared tail of run and resume: start a fresh tracker
// instance for the job, open exactly one progress channel for it, and watch
// until a terminal state, detach, or cancel.
func observeJob(client *api.Client, base, jobID, filename string, total int, cfg settings.Settings, plain, jsonOut bool) error {
	tr := track.New()
	if err := tr.Begin(jobID, total, time.Now()); err != nil {
		return err
	}

	adapter := stream.NewAdapter(&stream.HTTPTransport{BaseURL: base})
	ch, err := adapter.Attach(context.Background(), jobID)
	if err != nil {
		return fmt.Errorf("job %s is submitted but the progress stream failed: %w (re-attach with: agent-finder resume %s)", jobID, err, jobID)
	}

	opts := watch.Options{
		JobID:    jobID,
		Filename: filename,
		Tracker:  tr,
		Channel:  ch,
		API:      client,
		Notify:   cfg.NotifyEnabled() && !jsonOut,
	}

	var outcome watch.Outcome
	if !plain && !jsonOut && stdoutIsTTY() {
		outcome, err = watch.RunTUI(opts)
		if err != nil {
			return err
		}
	} else {
		outcome = watch.RunPlain(opts, os.Stdout)
	}
	return reportOutcome(outcome, jobID, jsonOut)
}

type outcomeReport struct {
	JobID     string                 `json:"job_id"`
	Phase     string                 `json:"phase"`
	Snapshot  model.ProgressSnapshot `json:"snapshot"`
	Ticker    []track.TickerEntry    `json:"ticker,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Cancelled bool                   `json:"cancelled,omitempty"`
	Detached  bool                   `json:"detached,omitempty"`
}

func reportOutcome(o watch.Outcome, jobID string, jsonOut bool) error {
	if jsonOut {
		return printJSON(outcomeReport{
			JobID:     jobID,
			Phase:     o.Phase,
			Snapshot:  o.Snapshot,
			Ticker:    o.Ticker,
			Error:     o.ErrMsg,
			Cancelled: o.Cancelled,
			Detached:  o.Detached,
		})
	}

	switch {
	case o.Detached:
		fmt.Printf("detached; job %s keeps running server-side. re-attach with: agent-finder resume %s\n", jobID, jobID)
	case o.Cancelled:
		fmt.Printf("cancel requested for job %s; local tracking stopped (the server stops the job when it can)\n", jobID)
	case o.Phase == model.PhaseComplete:
		s := o.Snapshot
		fmt.Printf("complete: %d/%d addresses — found %d, partial %d, cached %d, not found %d\n",
			s.Completed, s.Total, s.Found, s.Partial, s.Cached, s.NotFound)
		fmt.Printf("save the export with: agent-finder download %s\n", jobID)
	case o.Phase == model.PhaseError:
		return fmt.Errorf("%s (re-attach with: agent-finder resume %s)", o.ErrMsg, jobID)
	}
	return nil
}
