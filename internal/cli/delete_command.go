package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
)

func runDelete(args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: agent-finder delete <job-id>")
	}
	jobID := fs.Arg(0)

	if !*yes {
		ok, err := promptConfirm(fmt.Sprintf("delete job %s from the server history? [y/N] ", jobID))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("aborted")
			return nil
		}
	}

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	if err := newClient(base, cfg).DeleteJob(context.Background(), jobID); err != nil {
		return fmt.Errorf("delete job %s: %w", jobID, err)
	}
	fmt.Printf("job %s deleted\n", jobID)
	return nil
}
