package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hospitalsys/records/internal/model"
	apperrors "github.com/hospitalsys/records/pkg/errors"
)

// Create inserts an appointment and returns the generated id. A blank reason
// is stored as NULL.
func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) (int64, error) {
	query := `
		INSERT INTO appointment (patient_id, doctor_id, scheduled_at, reason, status_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING appointment_id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.ScheduledAt,
		normalizeReason(appointment.Reason),
		appointment.StatusID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create appointment: %w", err)
	}
	appointment.ID = id
	return id, nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.AppointmentDetail, error) {
	query := `
		SELECT a.appointment_id, a.patient_id, a.doctor_id,
			   a.scheduled_at, a.reason, s.status
		FROM appointment a
		JOIN appointment_status s ON s.status_id = a.status_id
		WHERE a.appointment_id = $1
	`
	var detail model.AppointmentDetail
	err := r.db.GetContext(ctx, &detail, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &detail, nil
}

func (r *appointmentRepository) List(ctx context.Context) ([]*model.AppointmentDetail, error) {
	query := `
		SELECT a.appointment_id, a.patient_id, a.doctor_id,
			   a.scheduled_at, a.reason, s.status
		FROM appointment a
		JOIN appointment_status s ON s.status_id = a.status_id
		ORDER BY a.scheduled_at
	`
	var details []*model.AppointmentDetail
	err := r.db.SelectContext(ctx, &details, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return details, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id int64, statusID model.AppointmentStatusID) error {
	query := `
		UPDATE appointment
		SET status_id = $1
		WHERE appointment_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, statusID, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM appointment
		WHERE appointment_id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// normalizeReason maps empty and blank reasons to NULL.
func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
