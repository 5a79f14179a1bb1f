package schedule

import (
	"context"

	"github.com/google/uuid"

	"github.com/medisched/hospital-scheduler/internal/audit"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookSlotInput struct {
	DoctorID uint
	Date     string // DD/MM/YYYY
	Slot     string // "morning" or "evening"
}

// ======================================================
// USE CASE
// ======================================================

type BookSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewBookSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *BookSlot {
	return &BookSlot{
		repo:  repo,
		audit: audit,
	}
}

// Execute turns a slot selection into a Booked appointment. The
// duplicate check and insert run as one transaction in the repository;
// the engine's hard guarantee is the absence of duplicate Booked rows
// for the identical (doctor, patient, date, time) tuple. Clients are
// expected to have just fetched the calendar and to re-fetch after a
// rejection.
func (uc *BookSlot) Execute(
	ctx context.Context,
	caller domain.Caller,
	in BookSlotInput,
) (*models.Appointment, error) {

	if caller.Role != models.RolePatient {
		return nil, httperr.ErrForbidden("patient_access_required")
	}

	patient, err := uc.repo.GetPatientByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	slot, err := domain.ParseSlot(in.Slot)
	if err != nil {
		return nil, err
	}

	doc, err := uc.repo.GetDoctorByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doc.User.IsBlacklisted {
		return nil, httperr.ErrUnavailable("doctor_not_available")
	}

	date, err := timezone.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrInvalid("invalid_date_format")
	}

	ap := &models.Appointment{
		Reference: uuid.NewString(),
		DoctorID:  doc.ID,
		PatientID: patient.ID,
		Date:      date,
		Time:      slot.RepresentativeTime(),
		Status:    string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBookedAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Role:     caller.Role,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
