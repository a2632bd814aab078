package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
)

func runCancel(args []string) error {
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: agent-finder cancel <job-id>")
	}
	jobID := fs.Arg(0)

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	if err := newClient(base, cfg).CancelJob(context.Background(), jobID); err != nil {
		return fmt.Errorf("cancel request failed: %w (the job may still be running)", err)
	}
	fmt.Printf("cancel requested for job %s; the server stops it when it can\n", jobID)
	return nil
}
