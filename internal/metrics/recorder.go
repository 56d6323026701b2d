// Package metrics records build and preview measurements. Components take a
// Recorder and default to NoopRecorder, so metrics cost nothing unless the
// preview server swaps in a PrometheusRecorder.
package metrics

import "time"

// Outcome labels the result of processing one document or one build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeError    Outcome = "error"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines the observation hooks used by the loader, exporter and
// preview watcher.
type Recorder interface {
	ObserveDocument(outcome Outcome, d time.Duration)
	ObserveBuild(outcome Outcome, d time.Duration)
	IncFilesWritten(n int)
	IncFilesSkipped(n int)
	IncFilesRemoved(n int)
	IncRebuild(outcome Outcome)
	SetPosts(n int)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocument(Outcome, time.Duration) {}
func (NoopRecorder) ObserveBuild(Outcome, time.Duration)    {}
func (NoopRecorder) IncFilesWritten(int)                    {}
func (NoopRecorder) IncFilesSkipped(int)                    {}
func (NoopRecorder) IncFilesRemoved(int)                    {}
func (NoopRecorder) IncRebuild(Outcome)                     {}
func (NoopRecorder) SetPosts(int)                           {}
