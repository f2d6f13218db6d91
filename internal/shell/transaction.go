package shell

import (
	"context"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	"github.com/hospitalsys/records/internal/service/workflow"
)

// promptDecider is the shell's commit/rollback decision source: a y/n prompt
// at the workflow's decision point. Only an explicit "y" commits.
func (s *Shell) promptDecider() workflow.Decider {
	return workflow.DeciderFunc(func(_ context.Context, run workflow.RunInfo) (workflow.Decision, error) {
		fmt.Fprintln(s.out, "\n>>> Transaction ready. Commit or rollback? (y=COMMIT / n=ROLLBACK):")
		commit, err := s.prompter.YesNo("Your choice")
		if err != nil {
			return workflow.DecisionRollback, err
		}
		if commit {
			return workflow.DecisionCommit, nil
		}
		return workflow.DecisionRollback, nil
	})
}

func (s *Shell) runScheduleWorkflow(ctx context.Context) error {
	fmt.Fprintln(s.out, "\n========== TRANSACTION DEMO: Schedule Appointment + Update Patient Notes ==========")
	fmt.Fprintln(s.out, "This transaction will:")
	fmt.Fprintln(s.out, "  1. Insert a new appointment")
	fmt.Fprintln(s.out, "  2. Update patient notes to reflect the appointment")
	fmt.Fprintln(s.out, "  3. Ask you to COMMIT or ROLLBACK")
	fmt.Fprintln(s.out)

	req, note, err := s.promptWorkflowInput()
	if err != nil {
		return err
	}

	outcome, err := s.workflows.RunScheduleAppointment(ctx, workflow.ScheduleAppointmentRequest{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		StatusID:    req.StatusID,
		Note:        note,
	}, s.promptDecider())
	if err != nil {
		return err
	}
	s.renderOutcome(outcome)
	return nil
}

func (s *Shell) runBillingWorkflow(ctx context.Context) error {
	fmt.Fprintln(s.out, "\n========== TRANSACTION DEMO: Appointment + Bill + Patient Note ==========")
	fmt.Fprintln(s.out, "This transaction will:")
	fmt.Fprintln(s.out, "  1. Insert a new appointment")
	fmt.Fprintln(s.out, "  2. Immediately create a bill linked to that appointment")
	fmt.Fprintln(s.out, "  3. Append a billing note to the patient record")
	fmt.Fprintln(s.out, "  4. Let you COMMIT or ROLLBACK the whole workflow")
	fmt.Fprintln(s.out)

	req, note, err := s.promptWorkflowInput()
	if err != nil {
		return err
	}

	outcome, err := s.workflows.RunBilling(ctx, workflow.BillingRequest{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		ScheduledAt: req.ScheduledAt,
		Reason:      req.Reason,
		StatusID:    req.StatusID,
		Note:        note,
	}, s.promptDecider())
	if err != nil {
		return err
	}
	s.renderOutcome(outcome)
	return nil
}

func (s *Shell) promptWorkflowInput() (workflow.BillingRequest, string, error) {
	var req workflow.BillingRequest

	patientID, err := s.prompter.Int("Patient ID")
	if err != nil {
		return req, "", err
	}
	doctorID, err := s.prompter.Int("Doctor ID (staff_id)")
	if err != nil {
		return req, "", err
	}
	scheduledAt, err := s.prompter.Timestamp(fmt.Sprintf("Appointment time (%s)", TimestampLayout))
	if err != nil {
		return req, "", err
	}
	reason, err := s.prompter.String("Reason (optional, blank allowed)")
	if err != nil {
		return req, "", err
	}
	statusID, err := s.prompter.Int("Status ID (1=Scheduled, 2=Completed, 3=Cancelled)")
	if err != nil {
		return req, "", err
	}
	note, err := s.prompter.String("Note text to append to patient record")
	if err != nil {
		return req, "", err
	}

	req = workflow.BillingRequest{
		PatientID:   patientID,
		DoctorID:    doctorID,
		ScheduledAt: scheduledAt,
		Reason:      reason,
		StatusID:    model.AppointmentStatusID(statusID),
	}
	return req, note, nil
}

func (s *Shell) renderOutcome(outcome workflow.Outcome) {
	switch outcome.Status {
	case workflow.StatusCommitted:
		fmt.Fprintln(s.out, "*** Transaction COMMITTED successfully! ***")
		fmt.Fprintf(s.out, "Appointment ID: %d\n", outcome.State.AppointmentID)
		if outcome.State.BillID != 0 {
			fmt.Fprintf(s.out, "Bill number: %d\n", outcome.State.BillID)
		}
	case workflow.StatusRolledBackByChoice:
		fmt.Fprintln(s.out, "*** Transaction ROLLED BACK - no changes made. ***")
	case workflow.StatusRolledBackOnError:
		fmt.Fprintln(s.out, "*** Transaction ROLLED BACK due to error. ***")
		fmt.Fprintf(s.out, "Transaction failed: %v\n", outcome.Err)
	case workflow.StatusRollbackFailed:
		fmt.Fprintf(s.out, "CRITICAL: Rollback failed: %v\n", outcome.Err)
	case workflow.StatusAborted:
		fmt.Fprintf(s.out, "%v. Operation cancelled.\n", outcome.Err)
	}
	if outcome.CleanupErr != nil {
		fmt.Fprintf(s.out, "Could not release session: %v\n", outcome.CleanupErr)
	}
}
