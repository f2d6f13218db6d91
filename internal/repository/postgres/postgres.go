package postgres

import (
	"github.com/hospitalsys/records/internal/repository"
)

type personRepository struct {
	db repository.Querier
}

type patientRepository struct {
	db repository.Querier
}

type doctorRepository struct {
	db repository.Querier
}

type appointmentStatusRepository struct {
	db repository.Querier
}

type appointmentRepository struct {
	db repository.Querier
}

type billRepository struct {
	db repository.Querier
}

type reportingRepository struct {
	db repository.Querier
}

// Constructors take a Querier rather than *sqlx.DB so the same accessors can
// be bound to a workflow transaction.

func NewPersonRepository(db repository.Querier) repository.PersonRepository {
	return &personRepository{db: db}
}

func NewPatientRepository(db repository.Querier) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewDoctorRepository(db repository.Querier) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func NewAppointmentStatusRepository(db repository.Querier) repository.AppointmentStatusRepository {
	return &appointmentStatusRepository{db: db}
}

func NewAppointmentRepository(db repository.Querier) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewBillRepository(db repository.Querier) repository.BillRepository {
	return &billRepository{db: db}
}

func NewReportingRepository(db repository.Querier) repository.ReportingRepository {
	return &reportingRepository{db: db}
}
