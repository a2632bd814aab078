package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
)

func runDownload(args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	output := fs.String("output", "", "destination path (default: agent-finder-<job-id>.csv)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: agent-finder download <job-id>")
	}
	jobID := fs.Arg(0)

	dest := strings.TrimSpace(*output)
	if dest == "" {
		dest = fmt.Sprintf("agent-finder-%s.csv", jobID)
	}

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	if err := newClient(base, cfg).Download(context.Background(), jobID, dest); err != nil {
		return fmt.Errorf("download export for job %s: %w", jobID, err)
	}
	fmt.Printf("export for job %s saved to %s\n", jobID, dest)
	return nil
}
