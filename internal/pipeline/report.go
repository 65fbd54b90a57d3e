package pipeline

import "time"

// Status is the state of a generate run.
type Status string

const (
	StatusFinding   Status = "finding"
	StatusLoading   Status = "loading"
	StatusLayout    Status = "layout"
	StatusRendering Status = "rendering"
	StatusVerifying Status = "verifying"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Skipped records a source file left out of the listing.
type Skipped struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report summarizes a generate run.
type Report struct {
	Status Status `json:"status"`
	Phase  string `json:"phase"`

	Outfile string `json:"outfile"`
	Format  string `json:"format"`

	FilesFound    int            `json:"files_found"`
	FilesIncluded int            `json:"files_included"`
	Skipped       []Skipped      `json:"skipped"`
	Encodings     map[string]int `json:"encodings"`

	Lines          int       `json:"lines"`
	EffectiveLines int       `json:"effective_lines"`
	LinesPerFile   LineStats `json:"lines_per_file"`
	PagesTotal     int       `json:"pages_total"`
	PagesPrinted   int       `json:"pages_printed"`
	PagesElided    int       `json:"pages_elided"`
	Verified       bool      `json:"verified"`
	CJKFont        string    `json:"cjk_font,omitempty"`
	Started        time.Time `json:"started"`
	Finished       time.Time `json:"finished"`
	Errors         []string  `json:"errors"`
}

func newReport() *Report {
	return &Report{
		Encodings: make(map[string]int),
		Skipped:   []Skipped{},
		Errors:    []string{},
		Started:   time.Now(),
	}
}

// SetStatus moves the run to a new state.
func (r *Report) SetStatus(status Status, phase string) {
	r.Status = status
	r.Phase = phase
}

// AddSkipped records a skipped file.
func (r *Report) AddSkipped(path, reason string) {
	r.Skipped = append(r.Skipped, Skipped{Path: path, Reason: reason})
}

// Fail marks the run failed in its current phase and returns err.
func (r *Report) Fail(err error) error {
	r.Errors = append(r.Errors, err.Error())
	r.Status = StatusFailed
	r.Finished = time.Now()
	return err
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return time.Since(r.Started)
	}
	return r.Finished.Sub(r.Started)
}
