package model

import "time"

// AppointmentStatusID identifies a row of the AppointmentStatus reference
// table. The table is a closed enumeration seeded at bootstrap, so the ids
// are stable.
type AppointmentStatusID int64

const (
	StatusScheduled AppointmentStatusID = 1
	StatusCompleted AppointmentStatusID = 2
	StatusCancelled AppointmentStatusID = 3
)

type AppointmentStatus struct {
	ID     AppointmentStatusID `db:"status_id" json:"status_id"`
	Status string              `db:"status" json:"status"`
}

type Appointment struct {
	ID          int64               `db:"appointment_id" json:"appointment_id"`
	PatientID   int64               `db:"patient_id" json:"patient_id"`
	DoctorID    int64               `db:"doctor_id" json:"doctor_id"`
	ScheduledAt time.Time           `db:"scheduled_at" json:"scheduled_at"`
	Reason      *string             `db:"reason" json:"reason,omitempty"`
	StatusID    AppointmentStatusID `db:"status_id" json:"status_id"`
}

// AppointmentDetail is an appointment joined to its status text.
type AppointmentDetail struct {
	ID          int64     `db:"appointment_id" json:"appointment_id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	DoctorID    int64     `db:"doctor_id" json:"doctor_id"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduled_at"`
	Reason      *string   `db:"reason" json:"reason,omitempty"`
	Status      string    `db:"status" json:"status"`
}
