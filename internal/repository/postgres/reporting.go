package postgres

import (
	"context"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
)

func (r *reportingRepository) BillSummary(ctx context.Context) ([]*model.BillSummaryRow, error) {
	query := `
		SELECT bill_no, patient_id, first_name, last_name,
			   appointment_id, created_at, total_amount
		FROM bill_summary
		ORDER BY bill_no
	`
	var rows []*model.BillSummaryRow
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill summary: %w", err)
	}
	return rows, nil
}

func (r *reportingRepository) PatientBalance(ctx context.Context, patientID int64) (float64, error) {
	query := `SELECT get_patient_balance($1)`
	var balance float64
	err := r.db.GetContext(ctx, &balance, query, patientID)
	if err != nil {
		return 0, fmt.Errorf("failed to query patient balance: %w", err)
	}
	return balance, nil
}

func (r *reportingRepository) PatientAppointments(ctx context.Context, patientID *int64, statusID *model.AppointmentStatusID) ([]*model.PatientAppointmentRow, error) {
	query := `
		SELECT patient_id, first_name, last_name, appointment_id,
			   doctor_id, scheduled_at, reason, status
		FROM v_patient_appointments
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if patientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *patientID)
		argCount++
	}

	if statusID != nil {
		query += fmt.Sprintf(" AND status = (SELECT status FROM appointment_status WHERE status_id = $%d)", argCount)
		args = append(args, *statusID)
		argCount++
	}

	query += " ORDER BY scheduled_at NULLS LAST"

	var rows []*model.PatientAppointmentRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patient appointments: %w", err)
	}
	return rows, nil
}
