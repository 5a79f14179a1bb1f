package schedule

import (
	"context"
	"testing"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

func bookTestAppointment(t *testing.T, repo *fakeRepo, patientUserID uint) uint {
	t.Helper()

	uc := NewBookSlot(repo, testDispatcher())
	ap, err := uc.Execute(context.Background(), patientCaller(patientUserID), BookSlotInput{
		DoctorID: 1,
		Date:     timezone.FormatDate(timezone.Today()),
		Slot:     "morning",
	})
	if err != nil {
		t.Fatalf("setup booking failed: %v", err)
	}
	return ap.ID
}

func TestCancel_OwnerFromBooked(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewCancelAppointment(repo, testDispatcher())

	ap, err := uc.Execute(context.Background(), patientCaller(20), id)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if ap.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q", ap.Status)
	}
	if ap.CancelledAt == nil {
		t.Errorf("cancelled_at not set")
	}
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewCancelAppointment(repo, testDispatcher())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, patientCaller(20), id); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	_, err := uc.Execute(ctx, patientCaller(20), id)
	if !httperr.IsBusiness(err, "already_cancelled") {
		t.Errorf("expected already_cancelled, got %v", err)
	}
	if kind, _ := httperr.KindOf(err); kind != httperr.KindConflict {
		t.Errorf("expected conflict kind, got %v", kind)
	}
}

func TestCancel_CompletedRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	statusUC := NewUpdateAppointmentStatus(repo, testDispatcher())
	ctx := context.Background()

	if _, err := statusUC.Execute(ctx, doctorCaller(10), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Completed",
	}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	uc := NewCancelAppointment(repo, testDispatcher())
	_, err := uc.Execute(ctx, patientCaller(20), id)
	if !httperr.IsBusiness(err, "cannot_cancel_completed") {
		t.Errorf("expected cannot_cancel_completed, got %v", err)
	}
}

func TestCancel_OnlyOwnerMayCancel(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	repo.addPatient(3, 30)
	id := bookTestAppointment(t, repo, 20)

	uc := NewCancelAppointment(repo, testDispatcher())

	// Another patient cannot even see the appointment.
	_, err := uc.Execute(context.Background(), patientCaller(30), id)
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Errorf("expected appointment_not_found, got %v", err)
	}
}
