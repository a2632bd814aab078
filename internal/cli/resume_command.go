package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"agent-finder/internal/history"
	"agent-finder/internal/model"
)

func runResume(args []string) error {
	fs := flag.NewFlagSet("resume", flag.ContinueOnError)
	last := fs.Bool("last", false, "resume the most recently submitted job")
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	plain := fs.Bool("plain", false, "line output instead of the live view")
	jsonOut := fs.Bool("json", false, "print a JSON outcome")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	jobID := ""
	switch {
	case *last:
		st, err := history.DefaultStore()
		if err != nil {
			return err
		}
		rec, ok, err := st.Latest()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("no local submissions recorded; pass a job id (see: agent-finder jobs)")
		}
		jobID = rec.JobID
	case fs.NArg() > 0:
		jobID = fs.Arg(0)
	default:
		return errors.New("usage: agent-finder resume <job-id> | --last")
	}

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	client := newClient(base, cfg)

	// The server's jobs list is the source of truth for whether the job is
	// still running; local records may be stale.
	jobs, err := client.ListJobs(context.Background())
	if err != nil {
		return fmt.Errorf("fetch jobs list: %w", err)
	}
	var entry *model.JobSummary
	for i := range jobs {
		if jobs[i].JobID == jobID {
			entry = &jobs[i]
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("job %s not found on the server", jobID)
	}
	if !entry.IsRunning() {
		return fmt.Errorf("job %s is %s; only running jobs can be resumed", jobID, entry.Status)
	}

	if !*jsonOut {
		fmt.Printf("re-attaching to job %s (%d addresses); counters and ETA restart from now\n", jobID, entry.Total)
	}
	return observeJob(client, base, entry.JobID, entry.Filename, entry.Total, cfg, *plain, *jsonOut)
}
