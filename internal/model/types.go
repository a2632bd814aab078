package model

// ProgressSnapshot is the canonical cumulative counter set for one job, as
// last reported by the progress channel. Snapshots are replaced wholesale on
// every inbound event, never merged field by field, so a snapshot is always
// internally consistent with one server message.
type ProgressSnapshot struct {
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	Found          int    `json:"found"`
	Partial        int    `json:"partial"`
	Cached         int    `json:"cached"`
	NotFound       int    `json:"not_found"`
	CurrentAddress string `json:"current_address,omitempty"`
}

// CategorySum adds the mutually exclusive outcome categories. A consistent
// snapshot has CategorySum() == Completed.
func (s ProgressSnapshot) CategorySum() int {
	return s.Found + s.Partial + s.Cached + s.NotFound
}

func (s ProgressSnapshot) Consistent() bool {
	return s.CategorySum() == s.Completed
}

// JobSummary is the server-owned history record for one job. The client only
// reads these (and deletes them on request); the server updates them as the
// job progresses.
type JobSummary struct {
	JobID     string `json:"job_id"`
	Filename  string `json:"filename,omitempty"`
	Status    string `json:"status"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Found     int    `json:"found"`
	Partial   int    `json:"partial"`
	Cached    int    `json:"cached"`
	NotFound  int    `json:"not_found"`
	CreatedAt string `json:"created_at,omitempty"`
}

// IsRunning reports whether the server still considers the job live, meaning
// it can be re-attached to with resume. Older servers report "running" where
// newer ones report "processing".
func (j JobSummary) IsRunning() bool {
	return j.Status == "processing" || j.Status == "running"
}
