package schedule

import (
	"context"

	"github.com/medisched/hospital-scheduler/internal/audit"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

type UpdateStatusInput struct {
	AppointmentID uint
	Status        string // "Completed" or "Cancelled"
}

type UpdateAppointmentStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute applies a doctor-side status overwrite on an owned
// appointment. There is no terminal-state guard on this path, in
// contrast to the patient cancel.
func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	caller domain.Caller,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	if caller.Role != models.RoleDoctor {
		return nil, httperr.ErrForbidden("doctor_access_required")
	}

	target, err := domain.ParseTerminalStatus(in.Status)
	if err != nil {
		return nil, err
	}

	doc, err := uc.repo.GetDoctorByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, in.AppointmentID, doc.ID)
	if err != nil {
		return nil, err
	}

	domain.OverwriteStatus(ap, target, timezone.Now())

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Role:     caller.Role,
		Action:   "appointment_status_" + in.Status,
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
