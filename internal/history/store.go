// Package history keeps a local record of recent submissions so `resume
// --last` works without remembering job ids. It is advisory only: the
// server's jobs list stays the source of truth for whether a job is still
// running.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"agent-finder/internal/localstore"
)

const (
	fileName   = "recent.json"
	maxRecords = 20
)

type Record struct {
	JobID       string `json:"job_id"`
	Filename    string `json:"filename"`
	Total       int    `json:"total"`
	SubmittedAt string `json:"submitted_at"`
}

type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func DefaultStore() (*Store, error) {
	dir, err := localstore.Dir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(dir, fileName)), nil
}

// Append records a submission at the head of the log, deduplicating by job
// id and trimming to the cap.
func (s *Store) Append(rec Record) error {
	if rec.SubmittedAt == "" {
		rec.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}

	existing, err := s.Records()
	if err != nil {
		return err
	}

	out := make([]Record, 0, len(existing)+1)
	out = append(out, rec)
	for _, r := range existing {
		if r.JobID == rec.JobID {
			continue
		}
		out = append(out, r)
	}
	if len(out) > maxRecords {
		out = out[:maxRecords]
	}
	return localstore.WriteJSON(s.path, out)
}

// Records returns the log newest first; a missing file is an empty log.
func (s *Store) Records() ([]Record, error) {
	var records []Record
	if err := localstore.ReadJSON(s.path, &records); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}

// Latest returns the most recent submission, if any.
func (s *Store) Latest() (Record, bool, error) {
	records, err := s.Records()
	if err != nil || len(records) == 0 {
		return Record{}, false, err
	}
	return records[0], true, nil
}
