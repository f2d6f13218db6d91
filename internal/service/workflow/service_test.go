package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServiceFixture() (*Service, *engineFixture) {
	f := newEngineFixture()
	return NewService(f.engine), f
}

func scheduledAt(t *testing.T) time.Time {
	t.Helper()
	at, err := time.Parse("2006-01-02 15:04", "2024-05-31 09:30")
	require.NoError(t, err)
	return at
}

func TestBillingWorkflowCommit(t *testing.T) {
	svc, f := newServiceFixture()

	out, err := svc.RunBilling(context.Background(), BillingRequest{
		PatientID:   7,
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		Reason:      "checkup",
		StatusID:    1,
		Note:        "first visit",
	}, AutoDecider(DecisionCommit))

	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, out.Status)
	assert.Equal(t, int64(42), out.State.AppointmentID)
	assert.Equal(t, int64(9), out.State.BillID)

	// steps ran in declared order and committed once
	assert.Equal(t, []string{"appointment.create", "bill.create", "patient.append_note", "commit"}, f.store.ops)

	// the bill references the appointment id generated in the same run
	require.Len(t, f.store.bills, 1)
	require.NotNil(t, f.store.bills[0].AppointmentID)
	assert.Equal(t, int64(42), *f.store.bills[0].AppointmentID)
	assert.Equal(t, int64(7), f.store.bills[0].PatientID)

	require.Len(t, f.store.appointments, 1)
	appt := f.store.appointments[0]
	assert.Equal(t, int64(7), appt.PatientID)
	assert.Equal(t, int64(3), appt.DoctorID)
	require.NotNil(t, appt.Reason)
	assert.Equal(t, "checkup", *appt.Reason)

	// billing note carries its marker and the user text
	assert.Equal(t, "\n[Billing Transaction] first visit", f.store.notes[7])
}

func TestBillingWorkflowBillFailureRollsBackAppointment(t *testing.T) {
	svc, f := newServiceFixture()
	f.store.billErr = errors.New("bill insert failed")

	out, err := svc.RunBilling(context.Background(), BillingRequest{
		PatientID:   7,
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		StatusID:    1,
		Note:        "x",
	}, AutoDecider(DecisionCommit))

	require.NoError(t, err)
	assert.Equal(t, StatusRolledBackOnError, out.Status)

	var stepErr *StepExecutionError
	require.ErrorAs(t, out.Err, &stepErr)
	assert.Equal(t, 2, stepErr.Index)
	assert.Equal(t, "insert bill", stepErr.Name)

	// the note step never ran and the whole run rolled back
	assert.Equal(t, []string{"appointment.create", "bill.create", "rollback"}, f.store.ops)
	assert.Empty(t, f.store.notes[7])
}

func TestScheduleWorkflowDecline(t *testing.T) {
	svc, f := newServiceFixture()

	out, err := svc.RunScheduleAppointment(context.Background(), ScheduleAppointmentRequest{
		PatientID:   7,
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		Reason:      "",
		StatusID:    1,
		Note:        "follow up",
	}, AutoDecider(DecisionRollback))

	require.NoError(t, err)
	assert.Equal(t, StatusRolledBackByChoice, out.Status)
	assert.Equal(t, []string{"appointment.create", "patient.append_note", "rollback"}, f.store.ops)

	// blank reason is carried as absent
	require.Len(t, f.store.appointments, 1)
	assert.Nil(t, f.store.appointments[0].Reason)
}

func TestScheduleWorkflowNoteMarker(t *testing.T) {
	svc, f := newServiceFixture()

	out, err := svc.RunScheduleAppointment(context.Background(), ScheduleAppointmentRequest{
		PatientID:   7,
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		StatusID:    1,
		Note:        "B",
	}, AutoDecider(DecisionCommit))

	require.NoError(t, err)
	assert.Equal(t, StatusCommitted, out.Status)
	assert.Equal(t, "\n[Appointment Scheduled] B", f.store.notes[7])
}

func TestNoteAppendPreservesExistingText(t *testing.T) {
	svc, f := newServiceFixture()
	f.store.notes[7] = "A"

	_, err := svc.RunScheduleAppointment(context.Background(), ScheduleAppointmentRequest{
		PatientID:   7,
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		StatusID:    1,
		Note:        "B",
	}, AutoDecider(DecisionCommit))

	require.NoError(t, err)
	assert.Equal(t, "A\n[Appointment Scheduled] B", f.store.notes[7])
}

func TestWorkflowMissingPreconditionNeverWrites(t *testing.T) {
	svc, f := newServiceFixture()

	out, err := svc.RunBilling(context.Background(), BillingRequest{
		PatientID:   999,
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		StatusID:    1,
		Note:        "x",
	}, AutoDecider(DecisionCommit))

	require.NoError(t, err)
	assert.Equal(t, StatusAborted, out.Status)
	var pre *PreconditionError
	require.ErrorAs(t, out.Err, &pre)
	assert.Equal(t, RefPatient, pre.Kind)
	assert.Empty(t, f.store.ops)
	assert.Empty(t, f.store.appointments)
}

func TestWorkflowRequestValidation(t *testing.T) {
	svc, f := newServiceFixture()

	_, err := svc.RunBilling(context.Background(), BillingRequest{
		DoctorID:    3,
		ScheduledAt: scheduledAt(t),
		StatusID:    1,
	}, AutoDecider(DecisionCommit))

	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid billing request")
	assert.Empty(t, f.store.ops)

	_, err = svc.RunScheduleAppointment(context.Background(), ScheduleAppointmentRequest{
		PatientID: 7,
		DoctorID:  3,
		StatusID:  1,
	}, AutoDecider(DecisionCommit))

	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid schedule-appointment request")
}
