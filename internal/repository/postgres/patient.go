package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	apperrors "github.com/hospitalsys/records/pkg/errors"
)

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patient (patient_id, insurance_id, notes)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.InsuranceID,
		patient.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.PatientRecord, error) {
	query := `
		SELECT pt.patient_id, p.first_name, p.last_name, p.date_of_birth,
			   pt.insurance_id, pt.notes
		FROM patient pt
		JOIN person p ON p.person_id = pt.patient_id
		WHERE pt.patient_id = $1
	`
	var record model.PatientRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &record, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.PatientRecord, error) {
	query := `
		SELECT pt.patient_id, p.first_name, p.last_name, p.date_of_birth,
			   pt.insurance_id, pt.notes
		FROM patient pt
		JOIN person p ON p.person_id = pt.patient_id
		ORDER BY pt.patient_id
	`
	var records []*model.PatientRecord
	err := r.db.SelectContext(ctx, &records, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return records, nil
}

func (r *patientRepository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	query := `
		UPDATE patient
		SET notes = $1
		WHERE patient_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update patient notes: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("patient not found")
	}

	return nil
}

// AppendNote concatenates text onto the existing notes, treating absent notes
// as empty. The existing text is never overwritten.
func (r *patientRepository) AppendNote(ctx context.Context, id int64, text string) error {
	query := `
		UPDATE patient
		SET notes = COALESCE(notes, '') || $1
		WHERE patient_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, text, id)
	if err != nil {
		return fmt.Errorf("failed to append patient note: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("patient not found")
	}

	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM patient
		WHERE patient_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("patient not found")
	}

	return nil
}

func (r *patientRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM patient WHERE patient_id = $1)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check patient existence: %w", err)
	}
	return exists, nil
}
