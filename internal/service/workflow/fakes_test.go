package workflow

import (
	"context"
	"fmt"

	"github.com/hospitalsys/records/internal/model"
	"github.com/hospitalsys/records/internal/repository"
)

// The fakes record every operation in a shared log so tests can assert step
// ordering alongside outcomes.

type fakeStore struct {
	ops []string

	existingPatients map[int64]bool
	existingDoctors  map[int64]bool
	existingStatuses map[int64]bool
	existsErr        error

	nextAppointmentID int64
	appointmentErr    error
	appointments      []*model.Appointment

	nextBillNo int64
	billErr    error
	bills      []*model.Bill

	appendNoteErr error
	notes         map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		existingPatients:  map[int64]bool{7: true},
		existingDoctors:   map[int64]bool{3: true},
		existingStatuses:  map[int64]bool{1: true, 2: true, 3: true},
		nextAppointmentID: 42,
		nextBillNo:        9,
		notes:             map[int64]string{},
	}
}

func (s *fakeStore) record(op string) {
	s.ops = append(s.ops, op)
}

type fakePatientRepo struct{ store *fakeStore }

func (r *fakePatientRepo) Create(context.Context, *model.Patient) error { return nil }
func (r *fakePatientRepo) Get(context.Context, int64) (*model.PatientRecord, error) {
	return nil, fmt.Errorf("not implemented")
}
func (r *fakePatientRepo) List(context.Context) ([]*model.PatientRecord, error) { return nil, nil }
func (r *fakePatientRepo) UpdateNotes(context.Context, int64, string) error     { return nil }
func (r *fakePatientRepo) Delete(context.Context, int64) error                  { return nil }

func (r *fakePatientRepo) AppendNote(_ context.Context, id int64, text string) error {
	r.store.record("patient.append_note")
	if r.store.appendNoteErr != nil {
		return r.store.appendNoteErr
	}
	r.store.notes[id] += text
	return nil
}

func (r *fakePatientRepo) Exists(_ context.Context, id int64) (bool, error) {
	if r.store.existsErr != nil {
		return false, r.store.existsErr
	}
	return r.store.existingPatients[id], nil
}

type fakeDoctorRepo struct{ store *fakeStore }

func (r *fakeDoctorRepo) Get(context.Context, int64) (*model.Doctor, error) {
	return nil, fmt.Errorf("not implemented")
}

func (r *fakeDoctorRepo) Exists(_ context.Context, id int64) (bool, error) {
	if r.store.existsErr != nil {
		return false, r.store.existsErr
	}
	return r.store.existingDoctors[id], nil
}

type fakeStatusRepo struct{ store *fakeStore }

func (r *fakeStatusRepo) List(context.Context) ([]*model.AppointmentStatus, error) {
	return nil, nil
}

func (r *fakeStatusRepo) Exists(_ context.Context, id model.AppointmentStatusID) (bool, error) {
	if r.store.existsErr != nil {
		return false, r.store.existsErr
	}
	return r.store.existingStatuses[int64(id)], nil
}

type fakeAppointmentRepo struct{ store *fakeStore }

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *model.Appointment) (int64, error) {
	r.store.record("appointment.create")
	if r.store.appointmentErr != nil {
		return 0, r.store.appointmentErr
	}
	appt.ID = r.store.nextAppointmentID
	r.store.appointments = append(r.store.appointments, appt)
	return appt.ID, nil
}

func (r *fakeAppointmentRepo) Get(context.Context, int64) (*model.AppointmentDetail, error) {
	return nil, fmt.Errorf("not implemented")
}
func (r *fakeAppointmentRepo) List(context.Context) ([]*model.AppointmentDetail, error) {
	return nil, nil
}
func (r *fakeAppointmentRepo) UpdateStatus(context.Context, int64, model.AppointmentStatusID) error {
	return nil
}
func (r *fakeAppointmentRepo) Delete(context.Context, int64) error { return nil }

type fakeBillRepo struct{ store *fakeStore }

func (r *fakeBillRepo) Create(_ context.Context, bill *model.Bill) (int64, error) {
	r.store.record("bill.create")
	if r.store.billErr != nil {
		return 0, r.store.billErr
	}
	bill.BillNo = r.store.nextBillNo
	r.store.bills = append(r.store.bills, bill)
	return bill.BillNo, nil
}

func (r *fakeBillRepo) Get(context.Context, int64) (*model.Bill, error) {
	return nil, fmt.Errorf("not implemented")
}
func (r *fakeBillRepo) ListForPatient(context.Context, int64) ([]*model.Bill, error) {
	return nil, nil
}
func (r *fakeBillRepo) Delete(context.Context, int64) error { return nil }

type fakeTx struct {
	store       *fakeStore
	commitErr   error
	rollbackErr error
	commits     int
	rollbacks   int
}

func (t *fakeTx) Patients() repository.PatientRepository {
	return &fakePatientRepo{store: t.store}
}

func (t *fakeTx) Appointments() repository.AppointmentRepository {
	return &fakeAppointmentRepo{store: t.store}
}

func (t *fakeTx) Bills() repository.BillRepository {
	return &fakeBillRepo{store: t.store}
}

func (t *fakeTx) Commit() error {
	t.store.record("commit")
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.store.record("rollback")
	t.rollbacks++
	return t.rollbackErr
}

type fakeSession struct {
	tx       *fakeTx
	beginErr error
	closeErr error
	closed   int
}

func (s *fakeSession) Begin(context.Context) (repository.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.tx, nil
}

func (s *fakeSession) Close() error {
	s.closed++
	return s.closeErr
}

type fakeOpener struct {
	sess    *fakeSession
	openErr error
}

func (o *fakeOpener) Open(context.Context) (repository.Session, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	return o.sess, nil
}
