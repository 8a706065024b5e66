package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFatal   ResultLabel = "fatal"
)

// RunOutcome enumerates the final status of a run.
type RunOutcome string

const (
	OutcomeWritten  RunOutcome = "written"
	OutcomeUpToDate RunOutcome = "up_to_date"
	OutcomeStale    RunOutcome = "stale"
	OutcomeFailed   RunOutcome = "failed"
)

// Recorder defines observability hooks for a generation run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome RunOutcome)
	SetHeadings(n int)
	AddReferences(n int)
	AddCollisions(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncRunOutcome(RunOutcome)                   {}
func (NoopRecorder) SetHeadings(int)                            {}
func (NoopRecorder) AddReferences(int)                          {}
func (NoopRecorder) AddCollisions(int)                          {}
