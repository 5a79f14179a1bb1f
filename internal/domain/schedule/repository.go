package schedule

import (
	"context"
	"time"

	"github.com/medisched/hospital-scheduler/internal/models"
)

// Caller is the authenticated identity behind a request, resolved from
// token claims by the web layer and passed explicitly into every use
// case. The core never reads identity from ambient state.
type Caller struct {
	UserID uint
	Role   string
}

type Repository interface {
	// -------- Doctor / Patient lookup --------
	GetDoctorByID(
		ctx context.Context,
		id uint,
	) (*models.Doctor, error)

	GetDoctorByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Doctor, error)

	GetPatientByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Patient, error)

	// -------- Availability --------
	GetAvailability(
		ctx context.Context,
		doctorID uint,
	) ([]AvailabilityEntry, error)

	ReplaceAvailability(
		ctx context.Context,
		doctorID uint,
		entries []AvailabilityEntry,
	) error

	// -------- Booking ledger --------
	ListBookings(
		ctx context.Context,
		doctorID uint,
		from time.Time,
		to time.Time,
	) ([]Booking, error)

	CreateBookedAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForPatient(
		ctx context.Context,
		appointmentID uint,
		patientID uint,
	) (*models.Appointment, error)

	GetAppointmentForDoctor(
		ctx context.Context,
		appointmentID uint,
		doctorID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Treatment --------
	GetTreatmentByAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*TreatmentRecord, error)

	UpsertTreatment(
		ctx context.Context,
		rec *TreatmentRecord,
	) error
}
