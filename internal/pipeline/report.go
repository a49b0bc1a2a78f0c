package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Failure is one document that could not be converted.
type Failure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Report summarizes one build. Every list is sorted by file name.
type Report struct {
	ID        string        `json:"id"`
	Written   []string      `json:"written"`   // pages present and current after the build
	Unchanged []string      `json:"unchanged"` // subset of Written left untouched on disk
	Failed    []Failure     `json:"failed"`
	Skipped   []string      `json:"skipped"`
	Index     string        `json:"index,omitempty"` // index page, if an index file was found
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

func newReport() *Report {
	return &Report{
		ID:        uuid.NewString(),
		Written:   []string{},
		Unchanged: []string{},
		Failed:    []Failure{},
		Skipped:   []string{},
		StartedAt: time.Now(),
	}
}

func (r *Report) sort() {
	sort.Strings(r.Written)
	sort.Strings(r.Unchanged)
	sort.Strings(r.Skipped)
	sort.Slice(r.Failed, func(a, b int) bool { return r.Failed[a].File < r.Failed[b].File })
}

// Outcome is success, partial (some documents failed) or failed (nothing written).
func (r *Report) Outcome() string {
	switch {
	case len(r.Failed) == 0:
		return "success"
	case len(r.Written) > 0:
		return "partial"
	default:
		return "failed"
	}
}

// Err returns a non-nil error naming the failed documents, if any.
func (r *Report) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}
	files := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		files[i] = f.File
	}
	return fmt.Errorf("%d document(s) failed: %s", len(files), strings.Join(files, ", "))
}
