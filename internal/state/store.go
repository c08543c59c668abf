// Package state persists pipeline run history in SQLite: one row per run
// and one row per stage execution within a run.
package state

import "time"

// RunStatus represents the status of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// StageStatus represents the status of one stage within a run.
type StageStatus string

const (
	StageStatusSuccess StageStatus = "success"
	StageStatusFailed  StageStatus = "failed"
	StageStatusSkipped StageStatus = "skipped"
)

// Run is one pipeline execution.
type Run struct {
	ID          string
	Environment string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	FailedStage string
	Error       string
}

// StageRun is the telemetry for one stage within a run. CompletedAt is nil
// for stages that never executed (skipped).
type StageRun struct {
	ID          string
	RunID       string
	Stage       string
	Status      StageStatus
	Rows        int64
	StartedAt   time.Time
	CompletedAt *time.Time
	ElapsedMS   int64
	Error       string
}

// Store is the run-history persistence contract.
type Store interface {
	CreateRun(env string) (*Run, error)
	CompleteRun(id string, status RunStatus, failedStage, errMsg string) error
	RecordStage(runID string, stage StageRun) error
	GetRun(id string) (*Run, error)
	GetLatestRun(env string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	ListStageRuns(runID string) ([]*StageRun, error)
	Close() error
}
