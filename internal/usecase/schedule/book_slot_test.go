package schedule

import (
	"context"
	"testing"

	"github.com/medisched/hospital-scheduler/internal/audit"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

func testDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(nil)
}

func patientCaller(userID uint) domain.Caller {
	return domain.Caller{UserID: userID, Role: models.RolePatient}
}

func doctorCaller(userID uint) domain.Caller {
	return domain.Caller{UserID: userID, Role: models.RoleDoctor}
}

func TestBookSlot_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)

	uc := NewBookSlot(repo, testDispatcher())
	today := timezone.Today()

	ap, err := uc.Execute(context.Background(), patientCaller(20), BookSlotInput{
		DoctorID: 1,
		Date:     timezone.FormatDate(today),
		Slot:     "morning",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if ap.Status != string(domain.StatusBooked) {
		t.Errorf("status = %q", ap.Status)
	}
	if ap.Time != domain.MorningTime {
		t.Errorf("time = %q, want %q", ap.Time, domain.MorningTime)
	}
	if ap.Reference == "" {
		t.Errorf("reference not assigned")
	}
	if !domain.SameDay(ap.Date, today) {
		t.Errorf("date = %v", ap.Date)
	}
}

func TestBookSlot_DuplicateRejectedOnce(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)

	uc := NewBookSlot(repo, testDispatcher())
	today := timezone.Today()
	in := BookSlotInput{DoctorID: 1, Date: timezone.FormatDate(today), Slot: "evening"}

	if _, err := uc.Execute(context.Background(), patientCaller(20), in); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := uc.Execute(context.Background(), patientCaller(20), in)
	if !httperr.IsBusiness(err, "slot_already_booked") {
		t.Fatalf("expected slot_already_booked, got %v", err)
	}
	if kind, _ := httperr.KindOf(err); kind != httperr.KindConflict {
		t.Errorf("expected conflict kind, got %v", kind)
	}

	if n := repo.bookedCount(1, 2, today, domain.EveningTime); n != 1 {
		t.Errorf("ledger must hold exactly one Booked row, got %d", n)
	}
}

func TestBookSlot_InvalidSlotName(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)

	uc := NewBookSlot(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), patientCaller(20), BookSlotInput{
		DoctorID: 1,
		Date:     timezone.FormatDate(timezone.Today()),
		Slot:     "noon",
	})
	if !httperr.IsBusiness(err, "invalid_time_slot") {
		t.Errorf("expected invalid_time_slot, got %v", err)
	}
}

func TestBookSlot_InvalidDateFormat(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)
	repo.addPatient(2, 20)

	uc := NewBookSlot(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), patientCaller(20), BookSlotInput{
		DoctorID: 1,
		Date:     "2025-11-27",
		Slot:     "morning",
	})
	if !httperr.IsBusiness(err, "invalid_date_format") {
		t.Errorf("expected invalid_date_format, got %v", err)
	}
}

func TestBookSlot_BlacklistedDoctor(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, true)
	repo.addPatient(2, 20)

	uc := NewBookSlot(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), patientCaller(20), BookSlotInput{
		DoctorID: 1,
		Date:     timezone.FormatDate(timezone.Today()),
		Slot:     "morning",
	})
	if !httperr.IsBusiness(err, "doctor_not_available") {
		t.Errorf("expected doctor_not_available, got %v", err)
	}
	if kind, _ := httperr.KindOf(err); kind != httperr.KindUnavailable {
		t.Errorf("expected unavailable kind, got %v", kind)
	}
}

func TestBookSlot_RequiresPatientRole(t *testing.T) {
	repo := newFakeRepo()
	repo.addDoctor(1, 10, false)

	uc := NewBookSlot(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), doctorCaller(10), BookSlotInput{
		DoctorID: 1,
		Date:     timezone.FormatDate(timezone.Today()),
		Slot:     "morning",
	})
	if !httperr.IsBusiness(err, "patient_access_required") {
		t.Errorf("expected patient_access_required, got %v", err)
	}
}

func TestBookSlot_UnknownDoctor(t *testing.T) {
	repo := newFakeRepo()
	repo.addPatient(2, 20)

	uc := NewBookSlot(repo, testDispatcher())

	_, err := uc.Execute(context.Background(), patientCaller(20), BookSlotInput{
		DoctorID: 99,
		Date:     timezone.FormatDate(timezone.Today()),
		Slot:     "morning",
	})
	if !httperr.IsBusiness(err, "doctor_not_found") {
		t.Errorf("expected doctor_not_found, got %v", err)
	}
}
