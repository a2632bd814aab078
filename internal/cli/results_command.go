package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

func runResults(args []string) error {
	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	output := fs.String("output", "", "write the results document to a file instead of stdout")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: agent-finder results <job-id>")
	}
	jobID := fs.Arg(0)

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	raw, err := newClient(base, cfg).Results(context.Background(), jobID)
	if err != nil {
		return fmt.Errorf("fetch results for job %s: %w", jobID, err)
	}

	if dest := strings.TrimSpace(*output); dest != "" {
		if err := os.WriteFile(dest, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dest, err)
		}
		fmt.Printf("results for job %s written to %s\n", jobID, dest)
		return nil
	}

	os.Stdout.Write(raw)
	fmt.Println()
	return nil
}
