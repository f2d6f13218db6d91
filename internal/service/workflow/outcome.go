package workflow

import (
	"context"

	"github.com/google/uuid"
)

// Status is the terminal state of a workflow run.
type Status string

const (
	// StatusAborted means a precondition failed and no transaction was
	// opened; the store is untouched.
	StatusAborted Status = "aborted"
	// StatusCommitted means every step succeeded and the caller confirmed.
	StatusCommitted Status = "committed"
	// StatusRolledBackByChoice means every step succeeded and the caller
	// declined at the decision point.
	StatusRolledBackByChoice Status = "rolled_back_by_choice"
	// StatusRolledBackOnError means a step failed and the automatic
	// rollback succeeded.
	StatusRolledBackOnError Status = "rolled_back_on_error"
	// StatusRollbackFailed means the rollback itself failed; the store's
	// state is unknown.
	StatusRollbackFailed Status = "rollback_failed"
)

// State carries identifiers generated by earlier steps for later ones.
type State struct {
	AppointmentID int64
	BillID        int64
}

// Outcome is the caller-visible result of one workflow run. Err holds the
// precondition, step or rollback detail for non-committed statuses.
// CleanupErr reports a session-release failure; it never changes Status.
type Outcome struct {
	RunID      uuid.UUID
	Workflow   string
	Status     Status
	State      State
	Err        error
	CleanupErr error
}

// Decision is the caller's answer at the commit/rollback decision point.
type Decision int

const (
	DecisionRollback Decision = iota
	DecisionCommit
)

// RunInfo is the summary handed to the Decider at the decision point.
type RunInfo struct {
	RunID    uuid.UUID
	Workflow string
	State    State
}

// Decider supplies the commit/rollback decision after all steps succeed. The
// engine blocks on it for as long as it takes; callers wanting a bound can
// wrap it with a context deadline and default to rollback.
type Decider interface {
	Decide(ctx context.Context, run RunInfo) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, run RunInfo) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, run RunInfo) (Decision, error) {
	return f(ctx, run)
}

// AutoDecider always answers the same decision. Useful for tests and for
// non-interactive policies.
func AutoDecider(d Decision) Decider {
	return DeciderFunc(func(context.Context, RunInfo) (Decision, error) {
		return d, nil
	})
}
