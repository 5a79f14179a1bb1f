package schedule

import (
	"context"
	"testing"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
)

func TestAddTreatment_RequiresCompleted(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewAddTreatment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), doctorCaller(10), TreatmentInput{
		AppointmentID: id,
		Diagnosis:     "Flu",
	})
	if !httperr.IsBusiness(err, "treatment_requires_completed") {
		t.Errorf("expected treatment_requires_completed, got %v", err)
	}
}

func TestAddTreatment_AfterCompletion(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)
	ctx := context.Background()

	statusUC := NewUpdateAppointmentStatus(repo, testDispatcher())
	if _, err := statusUC.Execute(ctx, doctorCaller(10), UpdateStatusInput{
		AppointmentID: id,
		Status:        "Completed",
	}); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	uc := NewAddTreatment(repo, testDispatcher())
	rec, err := uc.Execute(ctx, doctorCaller(10), TreatmentInput{
		AppointmentID: id,
		Diagnosis:     "Flu",
		Prescription:  "Paracetamol 500mg",
		Notes:         domain.TreatmentNotes{Notes: "rest and hydration"},
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if rec.ID == 0 {
		t.Errorf("treatment not persisted")
	}
	if rec.Notes.Medicines == nil {
		t.Errorf("medicines must be normalized to an empty list")
	}
}

func TestAddTreatment_DiagnosisRequired(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewAddTreatment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), doctorCaller(10), TreatmentInput{
		AppointmentID: id,
	})
	if !httperr.IsBusiness(err, "diagnosis_required") {
		t.Errorf("expected diagnosis_required, got %v", err)
	}
}

func TestSaveTreatment_UpsertsWithoutStatusGate(t *testing.T) {
	// The save path deliberately skips the Completed gate; only the
	// add path enforces it.
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)
	ctx := context.Background()

	uc := NewSaveTreatment(repo, testDispatcher())

	rec, err := uc.Execute(ctx, doctorCaller(10), TreatmentInput{
		AppointmentID: id,
		Diagnosis:     "Initial impression",
		Notes:         domain.TreatmentNotes{VisitType: "first-visit"},
	})
	if err != nil {
		t.Fatalf("save on Booked should succeed, got %v", err)
	}

	// Second save updates in place.
	rec2, err := uc.Execute(ctx, doctorCaller(10), TreatmentInput{
		AppointmentID: id,
		Diagnosis:     "Revised",
		Notes:         domain.TreatmentNotes{VisitType: "first-visit", Medicines: []string{"ibuprofen"}},
	})
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if rec2.ID != rec.ID {
		t.Errorf("expected upsert onto the same record, got %d vs %d", rec2.ID, rec.ID)
	}
	if rec2.Diagnosis != "Revised" {
		t.Errorf("diagnosis = %q", rec2.Diagnosis)
	}
}

func TestGetTreatment_NilWhenMissing(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewGetTreatment(repo)

	rec, err := uc.Execute(context.Background(), doctorCaller(10), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for missing treatment, got %+v", rec)
	}
}

func TestTreatment_OwnershipEnforced(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addDoctor(5, 50, false)
	repo.addPatient(2, 20)
	id := bookTestAppointment(t, repo, 20)

	uc := NewSaveTreatment(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), doctorCaller(50), TreatmentInput{
		AppointmentID: id,
		Diagnosis:     "x",
	})
	if !httperr.IsBusiness(err, "appointment_not_found") {
		t.Errorf("expected appointment_not_found for foreign doctor, got %v", err)
	}
}
