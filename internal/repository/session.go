package repository

import "context"

// Tx is a unit of work bound to one open transaction. The accessors it
// returns run their statements inside that transaction, so a row created by
// one step is visible to the next before commit.
type Tx interface {
	Patients() PatientRepository
	Appointments() AppointmentRepository
	Bills() BillRepository
	Commit() error
	Rollback() error
}

// Session is a pinned connection held for the lifetime of one workflow run.
// Close must be called on every exit path; it releases the connection and
// with it the store's autocommit mode.
type Session interface {
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// SessionOpener hands out sessions, one per workflow run.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}
