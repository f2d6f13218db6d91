package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hospitalsys/records/internal/repository"
)

type sessionFactory struct {
	db *sqlx.DB
}

// NewSessionFactory returns an opener that pins one pool connection per
// session, giving each workflow run exclusive use of its transaction.
func NewSessionFactory(db *sqlx.DB) repository.SessionOpener {
	return &sessionFactory{db: db}
}

func (f *sessionFactory) Open(ctx context.Context) (repository.Session, error) {
	conn, err := f.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &session{conn: conn}, nil
}

type session struct {
	conn *sqlx.Conn
}

func (s *session) Begin(ctx context.Context) (repository.Tx, error) {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &sessionTx{tx: tx}, nil
}

// Close returns the pinned connection to the pool. Once the transaction has
// ended this is what puts the connection back in autocommit mode.
func (s *session) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to release connection: %w", err)
	}
	return nil
}

type sessionTx struct {
	tx *sqlx.Tx
}

func (t *sessionTx) Patients() repository.PatientRepository {
	return NewPatientRepository(t.tx)
}

func (t *sessionTx) Appointments() repository.AppointmentRepository {
	return NewAppointmentRepository(t.tx)
}

func (t *sessionTx) Bills() repository.BillRepository {
	return NewBillRepository(t.tx)
}

func (t *sessionTx) Commit() error {
	return t.tx.Commit()
}

func (t *sessionTx) Rollback() error {
	return t.tx.Rollback()
}
