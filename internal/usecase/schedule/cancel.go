package schedule

import (
	"context"

	"github.com/medisched/hospital-scheduler/internal/audit"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
	}
}

// Execute cancels the caller's own appointment. Only the booking
// patient may cancel, and only from Booked.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	caller domain.Caller,
	appointmentID uint,
) (*models.Appointment, error) {

	if caller.Role != models.RolePatient {
		return nil, httperr.ErrForbidden("patient_access_required")
	}

	patient, err := uc.repo.GetPatientByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForPatient(ctx, appointmentID, patient.ID)
	if err != nil {
		return nil, err
	}

	if err := domain.CancelByPatient(ap, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Role:     caller.Role,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
