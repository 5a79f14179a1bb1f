package schedule

import (
	"time"

	"github.com/medisched/hospital-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// CancelByPatient applies the guarded patient-side cancel transition.
func CancelByPatient(ap *models.Appointment, now time.Time) error {
	if err := CanCancelByPatient(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

// OverwriteStatus applies the doctor-side transition. Unlike the
// patient path it carries no terminal-state guard: a Completed or
// Cancelled appointment can be re-overwritten. Ownership is checked by
// the caller.
func OverwriteStatus(ap *models.Appointment, target Status, now time.Time) {
	ap.Status = string(target)

	switch target {
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
}
