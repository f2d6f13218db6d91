package model

import "time"

// Person is the identity root shared by the Patient and Staff subtypes.
type Person struct {
	ID          int64     `db:"person_id" json:"person_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	DateOfBirth time.Time `db:"date_of_birth" json:"date_of_birth"`
}
