package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stratify-labs/stratify/internal/state"
	"github.com/stratify-labs/stratify/internal/warehouse"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Run executes the full pipeline: cleanse every entity, then rebuild the
// dimensional layer. Stages execute level by level in dependency order;
// within a level they run concurrently up to the configured limit. The
// first failure cancels the level and the remaining stages are recorded as
// skipped.
func (e *Engine) Run(ctx context.Context) (*state.Run, error) {
	e.logger.Info("starting run", slog.String("environment", e.environment))

	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}

	run, err := e.store.CreateRun(e.environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	e.logger.Debug("created run", slog.String("run_id", run.ID))

	stages := pipelineStages()
	graph, err := buildGraph(stages)
	if err != nil {
		_ = e.store.CompleteRun(run.ID, state.RunStatusFailed, "", err.Error())
		return run, err
	}
	levels, err := graph.ExecutionLevels()
	if err != nil {
		_ = e.store.CompleteRun(run.ID, state.RunStatusFailed, "", err.Error())
		return run, err
	}

	byID := make(map[string]*stage, len(stages))
	for i := range stages {
		byID[stages[i].id] = &stages[i]
	}

	p := &pipelineState{
		wh:  warehouse.New(e.db, e.logger),
		now: e.now().UTC(),
	}

	var (
		mu       sync.Mutex
		firstErr *StageError
	)

	for _, level := range levels {
		if firstErr != nil {
			// A previous level failed; everything downstream is skipped.
			for _, id := range level {
				e.recordStage(run.ID, state.StageRun{Stage: id, Status: state.StageStatusSkipped})
			}
			continue
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.concurrency)

		for _, id := range level {
			st := byID[id]
			g.Go(func() error {
				if gctx.Err() != nil {
					// A sibling already failed; this stage never started.
					e.recordStage(run.ID, state.StageRun{Stage: st.id, Status: state.StageStatusSkipped})
					return nil
				}

				start := time.Now().UTC()
				rows, err := st.run(gctx, p)
				end := time.Now().UTC()
				elapsed := end.Sub(start).Milliseconds()

				if err != nil {
					e.logger.Error("stage failed",
						slog.String("stage", st.id), slog.String("error", err.Error()))
					e.recordStage(run.ID, state.StageRun{
						Stage: st.id, Status: state.StageStatusFailed,
						StartedAt: start, CompletedAt: &end,
						ElapsedMS: elapsed, Error: err.Error(),
					})

					stageErr := &StageError{Stage: st.id, Err: err}
					mu.Lock()
					if firstErr == nil {
						firstErr = stageErr
					}
					mu.Unlock()
					return stageErr
				}

				e.logger.Info("stage completed",
					slog.String("stage", st.id),
					slog.Int64("rows", rows),
					slog.Int64("elapsed_ms", elapsed))
				e.recordStage(run.ID, state.StageRun{
					Stage: st.id, Status: state.StageStatusSuccess,
					Rows: rows, StartedAt: start, CompletedAt: &end,
					ElapsedMS: elapsed,
				})
				return nil
			})
		}

		_ = g.Wait()
	}

	if firstErr != nil {
		e.logger.Info("run failed",
			slog.String("run_id", run.ID), slog.String("stage", firstErr.Stage))
		_ = e.store.CompleteRun(run.ID, state.RunStatusFailed, firstErr.Stage, firstErr.Err.Error())

		if refreshed, err := e.store.GetRun(run.ID); err == nil {
			run = refreshed
		}
		return run, firstErr
	}

	e.logger.Info("run completed", slog.String("run_id", run.ID))
	_ = e.store.CompleteRun(run.ID, state.RunStatusCompleted, "", "")

	if refreshed, err := e.store.GetRun(run.ID); err == nil {
		run = refreshed
	}
	return run, nil
}

func (e *Engine) recordStage(runID string, sr state.StageRun) {
	if err := e.store.RecordStage(runID, sr); err != nil {
		e.logger.Error("failed to record stage telemetry",
			slog.String("stage", sr.Stage), slog.String("error", err.Error()))
	}
}
