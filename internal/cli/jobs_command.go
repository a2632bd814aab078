package cli

import (
	"context"
	"flag"
	"fmt"

	"agent-finder/internal/model"
)

func runJobs(args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	jobs, err := newClient(base, cfg).ListJobs(context.Background())
	if err != nil {
		return fmt.Errorf("fetch jobs list: %w", err)
	}

	if *jsonOut {
		return printJSON(jobs)
	}
	if len(jobs) == 0 {
		fmt.Println("no jobs recorded on the server")
		return nil
	}

	fmt.Println(jobsHeader())
	for _, job := range jobs {
		fmt.Println(formatJobRow(job))
	}
	return nil
}

func jobsHeader() string {
	return fmt.Sprintf("%-26s %-12s %7s %7s %7s %7s  %s",
		"JOB", "STATUS", "TOTAL", "DONE", "FOUND", "MISS", "FILE")
}

func formatJobRow(j model.JobSummary) string {
	id := j.JobID
	if len(id) > 26 {
		id = id[:23] + "..."
	}
	return fmt.Sprintf("%-26s %-12s %7d %7d %7d %7d  %s",
		id, j.Status, j.Total, j.Completed, j.Found, j.NotFound, j.Filename)
}
