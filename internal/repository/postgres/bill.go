package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	apperrors "github.com/hospitalsys/records/pkg/errors"
)

// Create inserts a bill and returns the generated bill number. The
// appointment reference may be nil for standalone bills; created_at is
// assigned by the store.
func (r *billRepository) Create(ctx context.Context, bill *model.Bill) (int64, error) {
	query := `
		INSERT INTO bill (patient_id, appointment_id)
		VALUES ($1, $2)
		RETURNING bill_no
	`
	var billNo int64
	err := r.db.GetContext(ctx, &billNo, query,
		bill.PatientID,
		bill.AppointmentID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create bill: %w", err)
	}
	bill.BillNo = billNo
	return billNo, nil
}

func (r *billRepository) Get(ctx context.Context, billNo int64) (*model.Bill, error) {
	query := `
		SELECT bill_no, patient_id, appointment_id, created_at
		FROM bill
		WHERE bill_no = $1
	`
	var bill model.Bill
	err := r.db.GetContext(ctx, &bill, query, billNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("bill", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return &bill, nil
}

func (r *billRepository) ListForPatient(ctx context.Context, patientID int64) ([]*model.Bill, error) {
	query := `
		SELECT bill_no, patient_id, appointment_id, created_at
		FROM bill
		WHERE patient_id = $1
		ORDER BY bill_no
	`
	var bills []*model.Bill
	err := r.db.SelectContext(ctx, &bills, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (r *billRepository) Delete(ctx context.Context, billNo int64) error {
	query := `
		DELETE FROM bill
		WHERE bill_no = $1
	`
	result, err := r.db.ExecContext(ctx, query, billNo)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bill not found")
	}

	return nil
}
