package schedule

import (
	"context"

	"github.com/medisched/hospital-scheduler/internal/audit"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
)

type TreatmentInput struct {
	AppointmentID uint
	Diagnosis     string
	Prescription  string
	Notes         domain.TreatmentNotes
}

// ======================================================
// SAVE (upsert, no status gate)
// ======================================================

type SaveTreatment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSaveTreatment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SaveTreatment {
	return &SaveTreatment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *SaveTreatment) Execute(
	ctx context.Context,
	caller domain.Caller,
	in TreatmentInput,
) (*domain.TreatmentRecord, error) {

	ap, err := uc.ownedAppointment(ctx, caller, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	rec, err := uc.repo.GetTreatmentByAppointment(ctx, ap.ID)
	if httperr.IsBusiness(err, "treatment_not_found") {
		rec = &domain.TreatmentRecord{AppointmentID: ap.ID}
	} else if err != nil {
		return nil, err
	}

	rec.Diagnosis = in.Diagnosis
	rec.Prescription = in.Prescription
	rec.Notes = in.Notes.Normalized()

	if err := uc.repo.UpsertTreatment(ctx, rec); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Role:     caller.Role,
		Action:   "treatment_saved",
		Entity:   "treatment",
		EntityID: &rec.ID,
	})

	return rec, nil
}

func (uc *SaveTreatment) ownedAppointment(
	ctx context.Context,
	caller domain.Caller,
	appointmentID uint,
) (*models.Appointment, error) {
	return ownedAppointment(ctx, uc.repo, caller, appointmentID)
}

// ======================================================
// ADD (gated on Completed status)
// ======================================================

type AddTreatment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddTreatment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddTreatment {
	return &AddTreatment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *AddTreatment) Execute(
	ctx context.Context,
	caller domain.Caller,
	in TreatmentInput,
) (*domain.TreatmentRecord, error) {

	if in.Diagnosis == "" {
		return nil, httperr.ErrInvalid("diagnosis_required")
	}

	ap, err := ownedAppointment(ctx, uc.repo, caller, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanAttachTreatment(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	rec := &domain.TreatmentRecord{
		AppointmentID: ap.ID,
		Diagnosis:     in.Diagnosis,
		Prescription:  in.Prescription,
		Notes:         in.Notes.Normalized(),
	}

	if err := uc.repo.UpsertTreatment(ctx, rec); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Role:     caller.Role,
		Action:   "treatment_added",
		Entity:   "treatment",
		EntityID: &rec.ID,
	})

	return rec, nil
}

// ======================================================
// GET
// ======================================================

type GetTreatment struct {
	repo domain.Repository
}

func NewGetTreatment(repo domain.Repository) *GetTreatment {
	return &GetTreatment{repo: repo}
}

// Execute returns the treatment attached to an owned appointment, or
// nil when none exists yet.
func (uc *GetTreatment) Execute(
	ctx context.Context,
	caller domain.Caller,
	appointmentID uint,
) (*domain.TreatmentRecord, error) {

	ap, err := ownedAppointment(ctx, uc.repo, caller, appointmentID)
	if err != nil {
		return nil, err
	}

	rec, err := uc.repo.GetTreatmentByAppointment(ctx, ap.ID)
	if httperr.IsBusiness(err, "treatment_not_found") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ownedAppointment resolves the calling doctor and their appointment.
func ownedAppointment(
	ctx context.Context,
	repo domain.Repository,
	caller domain.Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	if caller.Role != models.RoleDoctor {
		return nil, httperr.ErrForbidden("doctor_access_required")
	}

	doc, err := repo.GetDoctorByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	return repo.GetAppointmentForDoctor(ctx, appointmentID, doc.ID)
}
