package model

import "time"

// Bill may reference an appointment or stand alone.
type Bill struct {
	BillNo        int64     `db:"bill_no" json:"bill_no"`
	PatientID     int64     `db:"patient_id" json:"patient_id"`
	AppointmentID *int64    `db:"appointment_id" json:"appointment_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// BillSummaryRow is one row of the BillSummary reporting view.
type BillSummaryRow struct {
	BillNo        int64     `db:"bill_no" json:"bill_no"`
	PatientID     int64     `db:"patient_id" json:"patient_id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	AppointmentID *int64    `db:"appointment_id" json:"appointment_id,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	TotalAmount   float64   `db:"total_amount" json:"total_amount"`
}

// PatientAppointmentRow is one row of the v_patient_appointments view.
// Appointment columns are nullable because the view left-joins appointments.
type PatientAppointmentRow struct {
	PatientID     int64      `db:"patient_id" json:"patient_id"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	AppointmentID *int64     `db:"appointment_id" json:"appointment_id,omitempty"`
	DoctorID      *int64     `db:"doctor_id" json:"doctor_id,omitempty"`
	ScheduledAt   *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	Reason        *string    `db:"reason" json:"reason,omitempty"`
	Status        *string    `db:"status" json:"status,omitempty"`
}
