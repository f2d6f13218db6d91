package workflow

import (
	"context"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	"github.com/hospitalsys/records/internal/repository"
)

// Validator checks foreign-key preconditions before a workflow opens its
// transaction. The existence probes run in autocommit mode on the shared
// pool, not on the workflow's pinned connection.
type Validator struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	statuses repository.AppointmentStatusRepository
}

func NewValidator(patients repository.PatientRepository, doctors repository.DoctorRepository, statuses repository.AppointmentStatusRepository) *Validator {
	return &Validator{
		patients: patients,
		doctors:  doctors,
		statuses: statuses,
	}
}

// Check probes each reference in order and stops at the first missing one,
// returning a *PreconditionError naming it. A probe failure (store error
// rather than a missing row) is returned as-is.
func (v *Validator) Check(ctx context.Context, refs ...Ref) error {
	for _, ref := range refs {
		exists, err := v.exists(ctx, ref)
		if err != nil {
			return fmt.Errorf("failed to validate %s %d: %w", ref.Kind, ref.ID, err)
		}
		if !exists {
			return &PreconditionError{Kind: ref.Kind, ID: ref.ID}
		}
	}
	return nil
}

func (v *Validator) exists(ctx context.Context, ref Ref) (bool, error) {
	switch ref.Kind {
	case RefPatient:
		return v.patients.Exists(ctx, ref.ID)
	case RefDoctor:
		return v.doctors.Exists(ctx, ref.ID)
	case RefStatus:
		return v.statuses.Exists(ctx, model.AppointmentStatusID(ref.ID))
	default:
		return false, fmt.Errorf("unknown reference kind %q", ref.Kind)
	}
}
