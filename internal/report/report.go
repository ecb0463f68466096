package report

import (
	"context"
	"time"

	"go-contract-harvester/internal/models"
)

// AdapterStatus is how one board fared in the run.
type AdapterStatus struct {
	Platform models.Platform `json:"platform"`
	Count    int             `json:"count"`
	Error    string          `json:"error,omitempty"`
}

// Report is everything a sink receives for one run. Records are in
// canonical order and must not be modified by sinks.
type Report struct {
	Kind        string                   `json:"kind"`
	StartedAt   time.Time                `json:"started_at"`
	GeneratedAt time.Time                `json:"generated_at"`
	WindowHours int                      `json:"window_hours"`
	RawCount    int                      `json:"raw_count"`
	Adapters    []AdapterStatus          `json:"adapters"`
	Summary     Summary                  `json:"summary"`
	Records     []models.CanonicalRecord `json:"records"`
}

// New builds a report and its summary. StartedAt defaults to now; callers
// that timed the run overwrite it.
func New(kind string, window time.Duration, rawCount int, adapters []AdapterStatus, records []models.CanonicalRecord) *Report {
	if records == nil {
		records = []models.CanonicalRecord{}
	}
	now := time.Now()
	return &Report{
		Kind:        kind,
		StartedAt:   now,
		GeneratedAt: now,
		WindowHours: int(window.Hours()),
		RawCount:    rawCount,
		Adapters:    adapters,
		Summary:     Summarize(records),
		Records:     records,
	}
}

// Empty reports a run that produced no records.
func (r *Report) Empty() bool {
	return len(r.Records) == 0
}

// Sink receives finished reports. A failing sink never fails the run.
type Sink interface {
	Name() string
	Publish(ctx context.Context, r *Report) error
}

// FailedBoards lists the platforms whose adapter errored.
func (r *Report) FailedBoards() []string {
	var out []string
	for _, a := range r.Adapters {
		if a.Error != "" {
			out = append(out, string(a.Platform))
		}
	}
	return out
}
