package repository

import (
	"context"
	"database/sql"

	"github.com/hospitalsys/records/internal/model"
)

// Querier is the subset of sqlx behaviour the accessors need. It is
// satisfied by *sqlx.DB, *sqlx.Tx and *sqlx.Conn, so the same accessor code
// runs standalone in autocommit mode and inside a workflow transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// All repository interfaces in one file
type (
	PersonRepository interface {
		Create(ctx context.Context, person *model.Person) (int64, error)
		Get(ctx context.Context, id int64) (*model.Person, error)
		List(ctx context.Context) ([]*model.Person, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.PatientRecord, error)
		List(ctx context.Context) ([]*model.PatientRecord, error)
		UpdateNotes(ctx context.Context, id int64, notes string) error
		AppendNote(ctx context.Context, id int64, text string) error
		Delete(ctx context.Context, id int64) error
		Exists(ctx context.Context, id int64) (bool, error)
	}

	DoctorRepository interface {
		Get(ctx context.Context, staffID int64) (*model.Doctor, error)
		Exists(ctx context.Context, staffID int64) (bool, error)
	}

	AppointmentStatusRepository interface {
		List(ctx context.Context) ([]*model.AppointmentStatus, error)
		Exists(ctx context.Context, id model.AppointmentStatusID) (bool, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) (int64, error)
		Get(ctx context.Context, id int64) (*model.AppointmentDetail, error)
		List(ctx context.Context) ([]*model.AppointmentDetail, error)
		UpdateStatus(ctx context.Context, id int64, statusID model.AppointmentStatusID) error
		Delete(ctx context.Context, id int64) error
	}

	BillRepository interface {
		Create(ctx context.Context, bill *model.Bill) (int64, error)
		Get(ctx context.Context, billNo int64) (*model.Bill, error)
		ListForPatient(ctx context.Context, patientID int64) ([]*model.Bill, error)
		Delete(ctx context.Context, billNo int64) error
	}

	ReportingRepository interface {
		BillSummary(ctx context.Context) ([]*model.BillSummaryRow, error)
		PatientBalance(ctx context.Context, patientID int64) (float64, error)
		PatientAppointments(ctx context.Context, patientID *int64, statusID *model.AppointmentStatusID) ([]*model.PatientAppointmentRow, error)
	}
)
