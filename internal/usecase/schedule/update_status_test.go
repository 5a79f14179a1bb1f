package schedule

import (
	"context"
	"testing"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
)

func TestUpdateStatus_Complete(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewUpdateAppointmentStatus(repo, testDispatcher())

	ap, err := uc.Execute(context.Background(), doctorCaller(10), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Completed",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if ap.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %q", ap.Status)
	}
	if ap.CompletedAt == nil {
		t.Errorf("completed_at not set")
	}
}

func TestUpdateStatus_OverwritesTerminalState(t *testing.T) {
	// Policy: the doctor-side path has no terminal-state guard, so a
	// Completed appointment can still be flipped to Cancelled.
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewUpdateAppointmentStatus(repo, testDispatcher())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, doctorCaller(10), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Completed",
	}); err != nil {
		t.Fatalf("first update failed: %v", err)
	}

	ap, err := uc.Execute(ctx, doctorCaller(10), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Cancelled",
	})
	if err != nil {
		t.Fatalf("second update should succeed, got %v", err)
	}
	if ap.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q", ap.Status)
	}
}

func TestUpdateStatus_InvalidTarget(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewUpdateAppointmentStatus(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), doctorCaller(10), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Booked",
	})
	if !httperr.IsBusiness(err, "invalid_status") {
		t.Errorf("expected invalid_status, got %v", err)
	}
}

func TestUpdateStatus_OwnershipEnforced(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addDoctor(5, 50, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewUpdateAppointmentStatus(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), doctorCaller(50), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Completed",
	})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Errorf("expected appointment_not_found for foreign doctor, got %v", err)
	}
}

func TestUpdateStatus_RequiresDoctorRole(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewUpdateAppointmentStatus(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), patientCaller(20), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Completed",
	})
	if !httperr.IsBusiness(err, "doctor_access_required") {
		t.Errorf("expected doctor_access_required, got %v", err)
	}
}
