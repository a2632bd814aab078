package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"agent-finder/internal/api"
	"agent-finder/internal/history"
)

func runRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	file := fs.String("file", "", "CSV of addresses to submit")
	column := fs.String("address-column", "", "override the address column header")
	baseURL := fs.String("base-url", "", "API base URL (default: settings)")
	plain := fs.Bool("plain", false, "line output instead of the live view")
	jsonOut := fs.Bool("json", false, "print a JSON outcome (implies --plain, no notifications)")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := strings.TrimSpace(*file)
	if path == "" && fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if path == "" {
		return errors.New("usage: agent-finder run --file <addresses.csv>")
	}

	cfg, base, err := loadSettings(*baseURL)
	if err != nil {
		return err
	}
	client := newClient(base, cfg)

	res, err := client.Upload(context.Background(), api.UploadOptions{
		Path:          path,
		AddressColumn: *column,
	})
	if err != nil {
		// Submission failure: no job exists, no channel is opened.
		return fmt.Errorf("upload failed: %w", err)
	}

	if st, herr := history.DefaultStore(); herr == nil {
		// Local record only; losing it costs nothing but `resume --last`.
		_ = st.Append(history.Record{
			JobID:    res.JobID,
			Filename: filepath.Base(path),
			Total:    res.Total,
		})
	}

	if !*jsonOut {
		fmt.Printf("job %s accepted: %d addresses\n", res.JobID, res.Total)
	}
	return observeJob(client, base, res.JobID, filepath.Base(path), res.Total, cfg, *plain, *jsonOut)
}
