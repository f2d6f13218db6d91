package postgres

import (
	"context"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
)

func (r *appointmentStatusRepository) List(ctx context.Context) ([]*model.AppointmentStatus, error) {
	query := `
		SELECT status_id, status
		FROM appointment_status
		ORDER BY status_id
	`
	var statuses []*model.AppointmentStatus
	err := r.db.SelectContext(ctx, &statuses, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment statuses: %w", err)
	}
	return statuses, nil
}

func (r *appointmentStatusRepository) Exists(ctx context.Context, id model.AppointmentStatusID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM appointment_status WHERE status_id = $1)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check status existence: %w", err)
	}
	return exists, nil
}
