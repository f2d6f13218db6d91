package model

import "time"

// Patient specializes Person; its primary key is the person id.
type Patient struct {
	ID          int64   `db:"patient_id" json:"patient_id"`
	InsuranceID *string `db:"insurance_id" json:"insurance_id,omitempty"`
	Notes       *string `db:"notes" json:"notes,omitempty"`
}

// PatientRecord is a patient joined to its person row, as listed by the shell.
type PatientRecord struct {
	ID          int64     `db:"patient_id" json:"patient_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
	InsuranceID *string   `db:"insurance_id" json:"insurance_id,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
}
