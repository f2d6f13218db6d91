package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hospitalsys/records/internal/model"
)

var coreTables = []string{
	`CREATE TABLE IF NOT EXISTS person (
		person_id SERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		date_of_birth TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff_role (
		staff_role_id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS specialty (
		specialty_id SERIAL PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE,
		base_visit_fee DECIMAL(10,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS department (
		department_id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		building_number VARCHAR(10),
		floor INT,
		capacity INT
	)`,
	`CREATE TABLE IF NOT EXISTS patient (
		patient_id INT PRIMARY KEY,
		insurance_id VARCHAR(50),
		notes TEXT,
		FOREIGN KEY (patient_id) REFERENCES person(person_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS staff (
		staff_id INT PRIMARY KEY,
		staff_role_id INT NOT NULL,
		department_id INT NOT NULL,
		hire_date DATE NOT NULL,
		FOREIGN KEY (staff_id) REFERENCES person(person_id) ON DELETE CASCADE,
		FOREIGN KEY (staff_role_id) REFERENCES staff_role(staff_role_id),
		FOREIGN KEY (department_id) REFERENCES department(department_id)
	)`,
	`CREATE TABLE IF NOT EXISTS doctor (
		staff_id INT PRIMARY KEY,
		specialty_id INT NOT NULL,
		license_no VARCHAR(50) UNIQUE,
		FOREIGN KEY (staff_id) REFERENCES staff(staff_id) ON DELETE CASCADE,
		FOREIGN KEY (specialty_id) REFERENCES specialty(specialty_id)
	)`,
	`CREATE TABLE IF NOT EXISTS appointment_status (
		status_id SERIAL PRIMARY KEY,
		status VARCHAR(30) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS appointment (
		appointment_id SERIAL PRIMARY KEY,
		patient_id INT NOT NULL,
		doctor_id INT NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		reason VARCHAR(255),
		status_id INT NOT NULL,
		FOREIGN KEY (patient_id) REFERENCES patient(patient_id),
		FOREIGN KEY (doctor_id) REFERENCES doctor(staff_id),
		FOREIGN KEY (status_id) REFERENCES appointment_status(status_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bill (
		bill_no SERIAL PRIMARY KEY,
		patient_id INT NOT NULL,
		appointment_id INT,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (patient_id) REFERENCES patient(patient_id),
		FOREIGN KEY (appointment_id) REFERENCES appointment(appointment_id)
	)`,
}

var reportingArtifacts = []string{
	`CREATE OR REPLACE VIEW bill_summary AS
		SELECT b.bill_no, b.patient_id, p.first_name, p.last_name,
			   b.appointment_id, b.created_at,
			   COALESCE(sp.base_visit_fee, 0)::float8 AS total_amount
		FROM bill b
		JOIN person p ON p.person_id = b.patient_id
		LEFT JOIN appointment a ON a.appointment_id = b.appointment_id
		LEFT JOIN doctor d ON d.staff_id = a.doctor_id
		LEFT JOIN specialty sp ON sp.specialty_id = d.specialty_id`,
	`CREATE OR REPLACE VIEW v_patient_appointments AS
		SELECT pt.patient_id, p.first_name, p.last_name,
			   a.appointment_id, a.doctor_id, a.scheduled_at, a.reason, s.status
		FROM patient pt
		JOIN person p ON p.person_id = pt.patient_id
		LEFT JOIN appointment a ON a.patient_id = pt.patient_id
		LEFT JOIN appointment_status s ON s.status_id = a.status_id`,
	`CREATE OR REPLACE FUNCTION get_patient_balance(p_patient_id INT) RETURNS DECIMAL(10,2) AS $$
		SELECT COALESCE(SUM(COALESCE(sp.base_visit_fee, 0)), 0)
		FROM bill b
		LEFT JOIN appointment a ON a.appointment_id = b.appointment_id
		LEFT JOIN doctor d ON d.staff_id = a.doctor_id
		LEFT JOIN specialty sp ON sp.specialty_id = d.specialty_id
		WHERE b.patient_id = p_patient_id
	$$ LANGUAGE SQL STABLE`,
}

const (
	demoPatientInsurance = "DEMO-INS-001"
	demoDoctorLicense    = "DEMO-LIC-001"
)

// EnsureSchema creates the tables, reporting views and seed rows the shell
// expects. Every statement is idempotent, so it is safe to run on every
// startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, ddl := range coreTables {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to ensure core tables: %w", err)
		}
	}
	for _, ddl := range reportingArtifacts {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to ensure reporting artifacts: %w", err)
		}
	}
	if err := ensureSeedData(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure seed data: %w", err)
	}
	return nil
}

func ensureSeedData(ctx context.Context, db *sqlx.DB) error {
	if err := ensureAppointmentStatuses(ctx, db); err != nil {
		return err
	}
	if err := ensureDemoPatient(ctx, db); err != nil {
		return err
	}
	return ensureDemoDoctor(ctx, db)
}

func ensureAppointmentStatuses(ctx context.Context, db *sqlx.DB) error {
	for _, status := range []string{"Scheduled", "Completed", "Cancelled"} {
		_, err := db.ExecContext(ctx,
			`INSERT INTO appointment_status (status) VALUES ($1) ON CONFLICT (status) DO NOTHING`,
			status,
		)
		if err != nil {
			return fmt.Errorf("failed to seed appointment status %q: %w", status, err)
		}
	}
	return nil
}

func ensureDemoPatient(ctx context.Context, db *sqlx.DB) error {
	var exists bool
	err := db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM patient WHERE insurance_id = $1)`, demoPatientInsurance)
	if err != nil {
		return fmt.Errorf("failed to check demo patient: %w", err)
	}
	if exists {
		return nil
	}

	persons := NewPersonRepository(db)
	personID, err := persons.Create(ctx, &model.Person{
		FirstName:   "Demo",
		LastName:    "Patient",
		DateOfBirth: time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}

	insurance := demoPatientInsurance
	notes := "Auto-generated demo patient"
	return NewPatientRepository(db).Create(ctx, &model.Patient{
		ID:          personID,
		InsuranceID: &insurance,
		Notes:       &notes,
	})
}

func ensureDemoDoctor(ctx context.Context, db *sqlx.DB) error {
	var exists bool
	err := db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM doctor WHERE license_no = $1)`, demoDoctorLicense)
	if err != nil {
		return fmt.Errorf("failed to check demo doctor: %w", err)
	}
	if exists {
		return nil
	}

	roleID, err := ensureNamedRow(ctx, db,
		`SELECT staff_role_id FROM staff_role WHERE name = $1`,
		`INSERT INTO staff_role (name) VALUES ($1) RETURNING staff_role_id`,
		"Doctor")
	if err != nil {
		return fmt.Errorf("failed to ensure staff role: %w", err)
	}

	departmentID, err := ensureNamedRow(ctx, db,
		`SELECT department_id FROM department WHERE name = $1`,
		`INSERT INTO department (name, building_number, floor, capacity) VALUES ($1, 'A', 1, 20) RETURNING department_id`,
		"General Medicine")
	if err != nil {
		return fmt.Errorf("failed to ensure department: %w", err)
	}

	specialtyID, err := ensureNamedRow(ctx, db,
		`SELECT specialty_id FROM specialty WHERE name = $1`,
		`INSERT INTO specialty (name, base_visit_fee) VALUES ($1, 150.00) RETURNING specialty_id`,
		"General Medicine")
	if err != nil {
		return fmt.Errorf("failed to ensure specialty: %w", err)
	}

	personID, err := NewPersonRepository(db).Create(ctx, &model.Person{
		FirstName:   "Demo",
		LastName:    "Doctor",
		DateOfBirth: time.Date(1980, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO staff (staff_id, staff_role_id, department_id, hire_date) VALUES ($1, $2, $3, $4)`,
		personID, roleID, departmentID, time.Now().AddDate(-5, 0, 0))
	if err != nil {
		return fmt.Errorf("failed to seed demo staff: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO doctor (staff_id, specialty_id, license_no) VALUES ($1, $2, $3)`,
		personID, specialtyID, demoDoctorLicense)
	if err != nil {
		return fmt.Errorf("failed to seed demo doctor: %w", err)
	}
	return nil
}

// ensureNamedRow looks a row up by name and inserts it when missing,
// returning the id either way.
func ensureNamedRow(ctx context.Context, db *sqlx.DB, selectSQL, insertSQL, name string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, selectSQL, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	if err := db.GetContext(ctx, &id, insertSQL, name); err != nil {
		return 0, err
	}
	return id, nil
}
