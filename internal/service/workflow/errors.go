package workflow

import "fmt"

// RefKind names the entity kind a workflow precondition refers to.
type RefKind string

const (
	RefPatient RefKind = "patient"
	RefDoctor  RefKind = "doctor"
	RefStatus  RefKind = "appointment status"
)

// Ref is one foreign-key precondition: the referenced row must exist before
// the workflow opens its transaction.
type Ref struct {
	Kind RefKind
	ID   int64
}

// PreconditionError reports a referenced row that does not exist. The
// workflow never opened a transaction.
type PreconditionError struct {
	Kind RefKind
	ID   int64
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Kind, e.ID)
}

// StepExecutionError reports a step whose write failed. Index is 1-based to
// match the declared step order.
type StepExecutionError struct {
	Index int
	Name  string
	Err   error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Name, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// RollbackError reports a rollback that itself failed after Cause forced it.
// The store's state is indeterminate; this must never be read as an ordinary
// step failure.
type RollbackError struct {
	Cause error
	Err   error
}

func (e *RollbackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rollback failed after %v: %v", e.Cause, e.Err)
	}
	return fmt.Sprintf("rollback failed: %v", e.Err)
}

func (e *RollbackError) Unwrap() error {
	return e.Err
}
