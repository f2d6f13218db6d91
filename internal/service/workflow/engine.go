package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hospitalsys/records/internal/repository"
	"github.com/hospitalsys/records/pkg/logger"
)

// Step is one unit of work within a workflow. Steps run strictly in declared
// order on the same transaction; a step that creates a row records its
// generated id on the state for later steps.
type Step struct {
	Name string
	Run  func(ctx context.Context, tx repository.Tx, state *State) error
}

// Definition is a named, fixed sequence of dependent writes plus the
// foreign-key preconditions that must hold before any of them run.
type Definition struct {
	Name  string
	Refs  []Ref
	Steps []Step
}

// Engine executes workflow definitions as atomic transactions. Any step
// failure triggers exactly one automatic rollback; a successful run suspends
// on the injected Decider before committing.
type Engine struct {
	sessions  repository.SessionOpener
	validator *Validator
	logger    *logger.Logger
}

func NewEngine(sessions repository.SessionOpener, validator *Validator, log *logger.Logger) *Engine {
	return &Engine{
		sessions:  sessions,
		validator: validator,
		logger:    log.WithComponent("workflow"),
	}
}

// Run executes one workflow and always returns a terminal Outcome; no store
// or decision failure escapes as a plain error.
func (e *Engine) Run(ctx context.Context, def Definition, decide Decider) (out Outcome) {
	out = Outcome{RunID: uuid.New(), Workflow: def.Name}
	log := e.logger.WithFields(map[string]interface{}{
		"run_id":   out.RunID.String(),
		"workflow": def.Name,
	})

	if err := e.validator.Check(ctx, def.Refs...); err != nil {
		out.Status = StatusAborted
		out.Err = err
		log.Warn("workflow aborted before transaction", "reason", err.Error())
		return out
	}

	sess, err := e.sessions.Open(ctx)
	if err != nil {
		out.Status = StatusAborted
		out.Err = fmt.Errorf("failed to open workflow session: %w", err)
		return out
	}
	defer func() {
		if closeErr := sess.Close(); closeErr != nil {
			// The business outcome is already decided; report the
			// cleanup failure alongside it.
			out.CleanupErr = closeErr
			log.Error(closeErr, "failed to release workflow session")
		}
	}()

	tx, err := sess.Begin(ctx)
	if err != nil {
		out.Status = StatusAborted
		out.Err = fmt.Errorf("failed to begin workflow transaction: %w", err)
		return out
	}

	for i, step := range def.Steps {
		if err := step.Run(ctx, tx, &out.State); err != nil {
			stepErr := &StepExecutionError{Index: i + 1, Name: step.Name, Err: err}
			e.rollback(log, tx, stepErr, &out)
			return out
		}
		log.Debug("workflow step completed", "step", i+1, "name", step.Name)
	}

	decision, err := decide.Decide(ctx, RunInfo{RunID: out.RunID, Workflow: def.Name, State: out.State})
	if err != nil {
		// A decision source that fails cannot confirm; the only safe
		// reading is decline.
		e.rollback(log, tx, fmt.Errorf("decision unavailable: %w", err), &out)
		return out
	}

	if decision != DecisionCommit {
		if rbErr := tx.Rollback(); rbErr != nil {
			out.Status = StatusRollbackFailed
			out.Err = &RollbackError{Err: rbErr}
			log.Error(out.Err, "rollback failed, store state is indeterminate")
			return out
		}
		out.Status = StatusRolledBackByChoice
		log.Info("workflow rolled back by choice")
		return out
	}

	if err := tx.Commit(); err != nil {
		commitErr := fmt.Errorf("failed to commit workflow: %w", err)
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			out.Status = StatusRollbackFailed
			out.Err = &RollbackError{Cause: commitErr, Err: rbErr}
			log.Error(out.Err, "rollback failed after commit failure, store state is indeterminate")
			return out
		}
		out.Status = StatusRolledBackOnError
		out.Err = commitErr
		log.Error(commitErr, "workflow rolled back on commit failure")
		return out
	}

	out.Status = StatusCommitted
	log.Info("workflow committed")
	return out
}

// rollback attempts the automatic rollback exactly once after cause and
// records the resulting status on out.
func (e *Engine) rollback(log *logger.Logger, tx repository.Tx, cause error, out *Outcome) {
	if rbErr := tx.Rollback(); rbErr != nil {
		out.Status = StatusRollbackFailed
		out.Err = &RollbackError{Cause: cause, Err: rbErr}
		log.Error(out.Err, "rollback failed, store state is indeterminate")
		return
	}
	out.Status = StatusRolledBackOnError
	out.Err = cause
	log.Warn("workflow rolled back on error", "cause", cause.Error())
}
