package schedule

import "github.com/medisched/hospital-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "Booked"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func InitialStatus() Status {
	return StatusBooked
}

// ParseTerminalStatus validates a doctor-requested target status.
// Only Completed and Cancelled may be set through the status endpoint.
func ParseTerminalStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", httperr.ErrInvalid("invalid_status")
}

// CanCancelByPatient guards the patient-side cancel transition.
// Completed and Cancelled are terminal.
func CanCancelByPatient(current Status) error {
	switch current {
	case StatusCancelled:
		return httperr.ErrConflict("already_cancelled")
	case StatusCompleted:
		return httperr.ErrConflict("cannot_cancel_completed")
	}
	return nil
}

// CanAttachTreatment gates the add-treatment path.
func CanAttachTreatment(current Status) error {
	if current != StatusCompleted {
		return httperr.ErrConflict("treatment_requires_completed")
	}
	return nil
}
