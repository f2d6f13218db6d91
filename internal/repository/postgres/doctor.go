package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	apperrors "github.com/hospitalsys/records/pkg/errors"
)

func (r *doctorRepository) Get(ctx context.Context, staffID int64) (*model.Doctor, error) {
	query := `
		SELECT staff_id, specialty_id, license_no
		FROM doctor
		WHERE staff_id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, staffID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Exists(ctx context.Context, staffID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM doctor WHERE staff_id = $1)`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, staffID)
	if err != nil {
		return false, fmt.Errorf("failed to check doctor existence: %w", err)
	}
	return exists, nil
}
