package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hospitalsys/records/internal/model"
	"github.com/hospitalsys/records/internal/repository"
	"github.com/hospitalsys/records/internal/service/workflow"
	"github.com/hospitalsys/records/pkg/logger"
)

// Repos bundles the record accessors the shell drives directly.
type Repos struct {
	Persons      repository.PersonRepository
	Doctors      repository.DoctorRepository
	Patients     repository.PatientRepository
	Appointments repository.AppointmentRepository
	Bills        repository.BillRepository
	Statuses     repository.AppointmentStatusRepository
	Reporting    repository.ReportingRepository
}

// Shell is the interactive console menu over the record accessors and the
// workflow service.
type Shell struct {
	prompter  *Prompter
	out       io.Writer
	log       *logger.Logger
	repos     Repos
	workflows *workflow.Service
}

func New(in io.Reader, out io.Writer, log *logger.Logger, repos Repos, workflows *workflow.Service) *Shell {
	return &Shell{
		prompter:  NewPrompter(in, out),
		out:       out,
		log:       log.WithComponent("shell"),
		repos:     repos,
		workflows: workflows,
	}
}

// Run drives the menu until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.printMenu()
		choice, err := s.prompter.String("Select option")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if choice == "0" {
			return nil
		}
		if err := s.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		s.report(s.listPatients(ctx), "view all patients")
	case "2":
		s.report(s.viewPatient(ctx), "view patient")
	case "3":
		s.report(s.insertPatient(ctx), "insert patient")
	case "4":
		s.report(s.updatePatientNotes(ctx), "update patient notes")
	case "5":
		s.report(s.deletePatient(ctx), "delete patient")
	case "6":
		s.report(s.listAppointments(ctx), "view all appointments")
	case "7":
		s.report(s.viewAppointment(ctx), "view appointment")
	case "8":
		s.report(s.insertAppointment(ctx), "insert appointment")
	case "9":
		s.report(s.updateAppointmentStatus(ctx), "update appointment status")
	case "10":
		s.report(s.deleteAppointment(ctx), "delete appointment")
	case "11":
		s.report(s.runScheduleWorkflow(ctx), "run appointment transaction")
	case "12":
		s.report(s.listBillsForPatient(ctx), "list bills for patient")
	case "13":
		s.report(s.viewBill(ctx), "view bill")
	case "14":
		s.report(s.insertBill(ctx), "insert bill")
	case "15":
		s.report(s.deleteBill(ctx), "delete bill")
	case "16":
		s.report(s.listPersons(ctx), "view all persons")
	case "17":
		s.report(s.listStatuses(ctx), "view appointment statuses")
	case "18":
		s.report(s.viewDoctor(ctx), "view doctor")
	case "19":
		s.report(s.runBillingWorkflow(ctx), "run billing transaction")
	case "20":
		s.report(s.viewBillSummary(ctx), "view bill summary")
	case "21":
		s.report(s.viewPatientBalance(ctx), "view patient balance")
	case "22":
		s.report(s.viewPatientAppointments(ctx), "view patient appointments")
	default:
		fmt.Fprintln(s.out, "Unknown option.")
	}
	return nil
}

// report prints action failures without ending the session; read errors are
// handled by the caller.
func (s *Shell) report(err error, action string) {
	if err == nil || errors.Is(err, io.EOF) {
		return
	}
	fmt.Fprintf(s.out, "Failed to %s: %v\n", action, err)
	s.log.Error(err, "action failed", "action", action)
}

func (s *Shell) printMenu() {
	fmt.Fprintln(s.out, "\n================ HOSPITAL RECORDS ================")
	fmt.Fprintln(s.out, "PATIENTS:")
	fmt.Fprintln(s.out, "   1) View all patients")
	fmt.Fprintln(s.out, "   2) View patient by ID")
	fmt.Fprintln(s.out, "   3) Insert patient")
	fmt.Fprintln(s.out, "   4) Update patient notes")
	fmt.Fprintln(s.out, "   5) Delete patient")
	fmt.Fprintln(s.out, "APPOINTMENTS:")
	fmt.Fprintln(s.out, "   6) View all appointments")
	fmt.Fprintln(s.out, "   7) View appointment by ID")
	fmt.Fprintln(s.out, "   8) Insert appointment")
	fmt.Fprintln(s.out, "   9) Update appointment status")
	fmt.Fprintln(s.out, "  10) Delete appointment")
	fmt.Fprintln(s.out, "  11) Run Appointment Transaction (COMMIT/ROLLBACK Demo)")
	fmt.Fprintln(s.out, "BILLS:")
	fmt.Fprintln(s.out, "  12) List bills for patient")
	fmt.Fprintln(s.out, "  13) View bill by number")
	fmt.Fprintln(s.out, "  14) Insert bill")
	fmt.Fprintln(s.out, "  15) Delete bill")
	fmt.Fprintln(s.out, "REFERENCE DATA:")
	fmt.Fprintln(s.out, "  16) View all persons")
	fmt.Fprintln(s.out, "  17) View appointment statuses")
	fmt.Fprintln(s.out, "  18) View doctor by staff ID")
	fmt.Fprintln(s.out, "  19) Run Billing Transaction (Appointment + Bill + Notes)")
	fmt.Fprintln(s.out, "REPORTING:")
	fmt.Fprintln(s.out, "  20) View bill summary")
	fmt.Fprintln(s.out, "  21) View patient balance")
	fmt.Fprintln(s.out, "  22) View patient appointments")
	fmt.Fprintln(s.out, "\n   0) Exit")
	fmt.Fprintln(s.out, "==================================================")
}

func (s *Shell) listPatients(ctx context.Context) error {
	records, err := s.repos.Patients.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ID | Name | DOB | Insurance | Notes")
	for _, r := range records {
		fmt.Fprintf(s.out, "%d | %s %s | %s | %s | %s\n",
			r.ID, r.FirstName, r.LastName,
			r.DateOfBirth.Format("2006-01-02"),
			deref(r.InsuranceID), deref(r.Notes))
	}
	return nil
}

func (s *Shell) viewPatient(ctx context.Context) error {
	id, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	r, err := s.repos.Patients.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Patient %d: %s %s, born %s, insurance %s\nNotes: %s\n",
		r.ID, r.FirstName, r.LastName,
		r.DateOfBirth.Format("2006-01-02"),
		deref(r.InsuranceID), deref(r.Notes))
	return nil
}

func (s *Shell) insertPatient(ctx context.Context) error {
	id, err := s.prompter.Int("Existing Person ID")
	if err != nil {
		return err
	}
	insurance, err := s.prompter.String("Insurance ID")
	if err != nil {
		return err
	}
	notes, err := s.prompter.String("Notes (optional)")
	if err != nil {
		return err
	}
	patient := &model.Patient{ID: id}
	if insurance != "" {
		patient.InsuranceID = &insurance
	}
	if notes != "" {
		patient.Notes = &notes
	}
	if err := s.repos.Patients.Create(ctx, patient); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Patient %d inserted.\n", id)
	return nil
}

func (s *Shell) updatePatientNotes(ctx context.Context) error {
	id, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	notes, err := s.prompter.String("New notes")
	if err != nil {
		return err
	}
	if err := s.repos.Patients.UpdateNotes(ctx, id, notes); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Notes updated.")
	return nil
}

func (s *Shell) deletePatient(ctx context.Context) error {
	id, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	if err := s.repos.Patients.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Patient %d deleted.\n", id)
	return nil
}

func (s *Shell) listAppointments(ctx context.Context) error {
	details, err := s.repos.Appointments.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ID | Patient | Doctor | Scheduled At | Status | Reason")
	for _, d := range details {
		fmt.Fprintf(s.out, "%d | %d | %d | %s | %s | %s\n",
			d.ID, d.PatientID, d.DoctorID,
			d.ScheduledAt.Format(TimestampLayout), d.Status, deref(d.Reason))
	}
	return nil
}

func (s *Shell) viewAppointment(ctx context.Context) error {
	id, err := s.prompter.Int("Appointment ID")
	if err != nil {
		return err
	}
	d, err := s.repos.Appointments.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Appointment %d: patient=%d doctor=%d at=%s status=%s reason=%s\n",
		d.ID, d.PatientID, d.DoctorID,
		d.ScheduledAt.Format(TimestampLayout), d.Status, deref(d.Reason))
	return nil
}

func (s *Shell) insertAppointment(ctx context.Context) error {
	patientID, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	doctorID, err := s.prompter.Int("Doctor ID (staff_id from doctor table)")
	if err != nil {
		return err
	}
	scheduledAt, err := s.prompter.Timestamp(fmt.Sprintf("Scheduled time (%s)", TimestampLayout))
	if err != nil {
		return err
	}
	reason, err := s.prompter.String("Reason (optional)")
	if err != nil {
		return err
	}
	statusID, err := s.prompter.Int("Status ID (1=Scheduled, 2=Completed, 3=Cancelled)")
	if err != nil {
		return err
	}
	appt := &model.Appointment{
		PatientID:   patientID,
		DoctorID:    doctorID,
		ScheduledAt: scheduledAt,
		StatusID:    model.AppointmentStatusID(statusID),
	}
	if reason != "" {
		appt.Reason = &reason
	}
	id, err := s.repos.Appointments.Create(ctx, appt)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Appointment inserted with ID: %d\n", id)
	return nil
}

func (s *Shell) updateAppointmentStatus(ctx context.Context) error {
	id, err := s.prompter.Int("Appointment ID")
	if err != nil {
		return err
	}
	statusID, err := s.prompter.Int("New Status ID (1=Scheduled, 2=Completed, 3=Cancelled)")
	if err != nil {
		return err
	}
	if err := s.repos.Appointments.UpdateStatus(ctx, id, model.AppointmentStatusID(statusID)); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Status updated.")
	return nil
}

func (s *Shell) deleteAppointment(ctx context.Context) error {
	id, err := s.prompter.Int("Appointment ID")
	if err != nil {
		return err
	}
	if err := s.repos.Appointments.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Appointment %d deleted.\n", id)
	return nil
}

func (s *Shell) listBillsForPatient(ctx context.Context) error {
	patientID, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	bills, err := s.repos.Bills.ListForPatient(ctx, patientID)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "BillNo | Patient | Appointment | CreatedAt")
	for _, b := range bills {
		fmt.Fprintf(s.out, "%d | %d | %s | %s\n",
			b.BillNo, b.PatientID, derefInt(b.AppointmentID),
			b.CreatedAt.Format(TimestampLayout))
	}
	return nil
}

func (s *Shell) viewBill(ctx context.Context) error {
	billNo, err := s.prompter.Int("Bill Number")
	if err != nil {
		return err
	}
	b, err := s.repos.Bills.Get(ctx, billNo)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Bill %d: patient=%d appointment=%s created_at=%s\n",
		b.BillNo, b.PatientID, derefInt(b.AppointmentID),
		b.CreatedAt.Format(TimestampLayout))
	return nil
}

func (s *Shell) insertBill(ctx context.Context) error {
	patientID, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	appointmentID, err := s.prompter.OptionalInt("Appointment ID (blank if none)")
	if err != nil {
		return err
	}
	billNo, err := s.repos.Bills.Create(ctx, &model.Bill{
		PatientID:     patientID,
		AppointmentID: appointmentID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Bill inserted with number: %d\n", billNo)
	return nil
}

func (s *Shell) deleteBill(ctx context.Context) error {
	billNo, err := s.prompter.Int("Bill Number")
	if err != nil {
		return err
	}
	if err := s.repos.Bills.Delete(ctx, billNo); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Bill %d deleted.\n", billNo)
	return nil
}

func (s *Shell) listPersons(ctx context.Context) error {
	persons, err := s.repos.Persons.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ID | Name | Date of Birth")
	for _, p := range persons {
		fmt.Fprintf(s.out, "%d | %s %s | %s\n",
			p.ID, p.FirstName, p.LastName, p.DateOfBirth.Format("2006-01-02"))
	}
	return nil
}

func (s *Shell) listStatuses(ctx context.Context) error {
	statuses, err := s.repos.Statuses.List(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "ID | Status")
	for _, st := range statuses {
		fmt.Fprintf(s.out, "%d | %s\n", st.ID, st.Status)
	}
	return nil
}

func (s *Shell) viewDoctor(ctx context.Context) error {
	staffID, err := s.prompter.Int("Doctor staff ID")
	if err != nil {
		return err
	}
	d, err := s.repos.Doctors.Get(ctx, staffID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Doctor %d: specialty=%d license=%s\n",
		d.StaffID, d.SpecialtyID, deref(d.LicenseNo))
	return nil
}

func (s *Shell) viewBillSummary(ctx context.Context) error {
	rows, err := s.repos.Reporting.BillSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Bill | Patient | Name | Appt | Created | Total")
	for _, r := range rows {
		fmt.Fprintf(s.out, "%d | %d | %s %s | %s | %s | %.2f\n",
			r.BillNo, r.PatientID, r.FirstName, r.LastName,
			derefInt(r.AppointmentID), r.CreatedAt.Format(TimestampLayout), r.TotalAmount)
	}
	return nil
}

func (s *Shell) viewPatientBalance(ctx context.Context) error {
	patientID, err := s.prompter.Int("Patient ID")
	if err != nil {
		return err
	}
	balance, err := s.repos.Reporting.PatientBalance(ctx, patientID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Patient %d outstanding balance: %.2f\n", patientID, balance)
	return nil
}

func (s *Shell) viewPatientAppointments(ctx context.Context) error {
	patientID, err := s.prompter.OptionalInt("Filter by Patient ID (blank for all)")
	if err != nil {
		return err
	}
	statusRaw, err := s.prompter.OptionalInt("Filter by Status ID (1=Scheduled, 2=Completed, 3=Cancelled; blank for all)")
	if err != nil {
		return err
	}
	var statusID *model.AppointmentStatusID
	if statusRaw != nil {
		id := model.AppointmentStatusID(*statusRaw)
		statusID = &id
	}
	rows, err := s.repos.Reporting.PatientAppointments(ctx, patientID, statusID)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "PID | Name | ApptID | DoctorID | Scheduled At | Status | Reason")
	for _, r := range rows {
		scheduled := ""
		if r.ScheduledAt != nil {
			scheduled = r.ScheduledAt.Format(TimestampLayout)
		}
		fmt.Fprintf(s.out, "%d | %s %s | %s | %s | %s | %s | %s\n",
			r.PatientID, r.FirstName, r.LastName,
			derefInt(r.AppointmentID), derefInt(r.DoctorID),
			scheduled, deref(r.Status), deref(r.Reason))
	}
	if len(rows) == 0 {
		fmt.Fprintln(s.out, "No rows found for given filters.")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int64) string {
	if i == nil {
		return "NULL"
	}
	return fmt.Sprintf("%d", *i)
}
