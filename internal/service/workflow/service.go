package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hospitalsys/records/internal/model"
	"github.com/hospitalsys/records/internal/repository"
	apperrors "github.com/hospitalsys/records/pkg/errors"
)

// Note markers prepended to the text appended to the patient record.
const (
	scheduleNoteMarker = "\n[Appointment Scheduled] "
	billingNoteMarker  = "\n[Billing Transaction] "
)

const (
	ScheduleAppointmentWorkflow = "schedule-appointment"
	BillingWorkflow             = "billing"
)

// Service exposes the two named workflows to the shell.
type Service struct {
	engine   *Engine
	validate *validator.Validate
}

func NewService(engine *Engine) *Service {
	return &Service{
		engine:   engine,
		validate: validator.New(),
	}
}

type ScheduleAppointmentRequest struct {
	PatientID   int64                     `validate:"required,gt=0"`
	DoctorID    int64                     `validate:"required,gt=0"`
	ScheduledAt time.Time                 `validate:"required"`
	Reason      string                    `validate:"max=255"`
	StatusID    model.AppointmentStatusID `validate:"required,gt=0"`
	Note        string                    `validate:"max=1000"`
}

type BillingRequest struct {
	PatientID   int64                     `validate:"required,gt=0"`
	DoctorID    int64                     `validate:"required,gt=0"`
	ScheduledAt time.Time                 `validate:"required"`
	Reason      string                    `validate:"max=255"`
	StatusID    model.AppointmentStatusID `validate:"required,gt=0"`
	Note        string                    `validate:"max=1000"`
}

// RunScheduleAppointment inserts an appointment and appends a scheduling note
// to the owning patient, as one transaction. The returned error is non-nil
// only for an invalid request; every run result is in the Outcome.
func (s *Service) RunScheduleAppointment(ctx context.Context, req ScheduleAppointmentRequest, decide Decider) (Outcome, error) {
	if err := s.validate.Struct(req); err != nil {
		return Outcome{}, apperrors.BadRequest("invalid schedule-appointment request", err)
	}

	def := Definition{
		Name: ScheduleAppointmentWorkflow,
		Refs: []Ref{
			{Kind: RefPatient, ID: req.PatientID},
			{Kind: RefDoctor, ID: req.DoctorID},
			{Kind: RefStatus, ID: int64(req.StatusID)},
		},
		Steps: []Step{
			insertAppointmentStep(req.PatientID, req.DoctorID, req.ScheduledAt, req.Reason, req.StatusID),
			appendNoteStep(req.PatientID, scheduleNoteMarker+req.Note),
		},
	}

	return s.engine.Run(ctx, def, decide), nil
}

// RunBilling inserts an appointment, bills it, and appends a billing note to
// the owning patient, as one transaction. The bill references the
// appointment id generated in the first step.
func (s *Service) RunBilling(ctx context.Context, req BillingRequest, decide Decider) (Outcome, error) {
	if err := s.validate.Struct(req); err != nil {
		return Outcome{}, apperrors.BadRequest("invalid billing request", err)
	}

	def := Definition{
		Name: BillingWorkflow,
		Refs: []Ref{
			{Kind: RefPatient, ID: req.PatientID},
			{Kind: RefDoctor, ID: req.DoctorID},
			{Kind: RefStatus, ID: int64(req.StatusID)},
		},
		Steps: []Step{
			insertAppointmentStep(req.PatientID, req.DoctorID, req.ScheduledAt, req.Reason, req.StatusID),
			insertBillStep(req.PatientID),
			appendNoteStep(req.PatientID, billingNoteMarker+req.Note),
		},
	}

	return s.engine.Run(ctx, def, decide), nil
}

func insertAppointmentStep(patientID, doctorID int64, scheduledAt time.Time, reason string, statusID model.AppointmentStatusID) Step {
	return Step{
		Name: "insert appointment",
		Run: func(ctx context.Context, tx repository.Tx, state *State) error {
			appt := &model.Appointment{
				PatientID:   patientID,
				DoctorID:    doctorID,
				ScheduledAt: scheduledAt,
				StatusID:    statusID,
			}
			if reason != "" {
				appt.Reason = &reason
			}
			id, err := tx.Appointments().Create(ctx, appt)
			if err != nil {
				return err
			}
			if id == 0 {
				return fmt.Errorf("appointment insert returned no id")
			}
			state.AppointmentID = id
			return nil
		},
	}
}

func insertBillStep(patientID int64) Step {
	return Step{
		Name: "insert bill",
		Run: func(ctx context.Context, tx repository.Tx, state *State) error {
			bill := &model.Bill{
				PatientID:     patientID,
				AppointmentID: &state.AppointmentID,
			}
			billNo, err := tx.Bills().Create(ctx, bill)
			if err != nil {
				return err
			}
			if billNo == 0 {
				return fmt.Errorf("bill insert returned no id")
			}
			state.BillID = billNo
			return nil
		},
	}
}

func appendNoteStep(patientID int64, text string) Step {
	return Step{
		Name: "append patient note",
		Run: func(ctx context.Context, tx repository.Tx, _ *State) error {
			return tx.Patients().AppendNote(ctx, patientID, text)
		},
	}
}
