// Package metrics records build metrics.
package metrics

import "time"

// Result labels a single document outcome.
type Result string

const (
	ResultWritten   Result = "written"
	ResultUnchanged Result = "unchanged"
	ResultFailed    Result = "failed"
)

// Recorder receives build observations. NoopRecorder is used when metrics are not wanted.
type Recorder interface {
	IncDocument(result Result)
	ObserveDocumentDuration(d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // success|partial|failed
	SetWorkers(n int)
}

type NoopRecorder struct{}

func (NoopRecorder) IncDocument(Result)                    {}
func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)    {}
func (NoopRecorder) IncBuildOutcome(string)                {}
func (NoopRecorder) SetWorkers(int)                        {}
