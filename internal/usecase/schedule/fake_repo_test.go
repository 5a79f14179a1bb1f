package schedule

import (
	"context"
	"time"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
)

// fakeRepo is an in-memory domain.Repository for use-case tests.
type fakeRepo struct {
	doctors      map[uint]*models.Doctor
	patients     map[uint]*models.Patient // keyed by user ID
	availability map[uint][]domain.AvailabilityEntry
	appointments []*models.Appointment
	treatments   map[uint]*domain.TreatmentRecord
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:      map[uint]*models.Doctor{},
		patients:     map[uint]*models.Patient{},
		availability: map[uint][]domain.AvailabilityEntry{},
		treatments:   map[uint]*domain.TreatmentRecord{},
	}
}

func (r *fakeRepo) addDoctor(id, userID uint, blacklisted bool) *models.Doctor {
	doc := &models.Doctor{
		ID:     id,
		UserID: userID,
		User: models.User{
			ID:            userID,
			Role:          models.RoleDoctor,
			IsBlacklisted: blacklisted,
		},
		Specialization: "Cardiology",
	}
	r.doctors[id] = doc
	return doc
}

func (r *fakeRepo) addPatient(id, userID uint) *models.Patient {
	pat := &models.Patient{
		ID:     id,
		UserID: userID,
		User:   models.User{ID: userID, Role: models.RolePatient},
	}
	r.patients[userID] = pat
	return pat
}

func (r *fakeRepo) GetDoctorByID(_ context.Context, id uint) (*models.Doctor, error) {
	if doc, ok := r.doctors[id]; ok {
		return doc, nil
	}
	return nil, httperr.ErrNotFound("doctor_not_found")
}

func (r *fakeRepo) GetDoctorByUserID(_ context.Context, userID uint) (*models.Doctor, error) {
	for _, doc := range r.doctors {
		if doc.UserID == userID {
			return doc, nil
		}
	}
	return nil, httperr.ErrNotFound("doctor_profile_not_found")
}

func (r *fakeRepo) GetPatientByUserID(_ context.Context, userID uint) (*models.Patient, error) {
	if pat, ok := r.patients[userID]; ok {
		return pat, nil
	}
	return nil, httperr.ErrNotFound("patient_profile_not_found")
}

func (r *fakeRepo) GetAvailability(_ context.Context, doctorID uint) ([]domain.AvailabilityEntry, error) {
	return r.availability[doctorID], nil
}

func (r *fakeRepo) ReplaceAvailability(_ context.Context, doctorID uint, entries []domain.AvailabilityEntry) error {
	r.availability[doctorID] = entries
	return nil
}

func (r *fakeRepo) ListBookings(_ context.Context, doctorID uint, from, to time.Time) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, ap := range r.appointments {
		if ap.DoctorID != doctorID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.Date.Before(from) || ap.Date.After(to) {
			continue
		}
		out = append(out, domain.Booking{Date: ap.Date, Time: ap.Time})
	}
	return out, nil
}

func (r *fakeRepo) CreateBookedAppointment(_ context.Context, ap *models.Appointment) error {
	for _, existing := range r.appointments {
		if existing.DoctorID == ap.DoctorID &&
			existing.PatientID == ap.PatientID &&
			domain.SameDay(existing.Date, ap.Date) &&
			existing.Time == ap.Time &&
			existing.Status == string(domain.StatusBooked) {
			return httperr.ErrConflict("slot_already_booked")
		}
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments = append(r.appointments, &cp)
	return nil
}

func (r *fakeRepo) GetAppointmentForPatient(_ context.Context, appointmentID, patientID uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == appointmentID && ap.PatientID == patientID {
			return ap, nil
		}
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) GetAppointmentForDoctor(_ context.Context, appointmentID, doctorID uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == appointmentID && ap.DoctorID == doctorID {
			return ap, nil
		}
	}
	return nil, httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i, existing := range r.appointments {
		if existing.ID == ap.ID {
			cp := *ap
			r.appointments[i] = &cp
			return nil
		}
	}
	return httperr.ErrNotFound("appointment_not_found")
}

func (r *fakeRepo) GetTreatmentByAppointment(_ context.Context, appointmentID uint) (*domain.TreatmentRecord, error) {
	if rec, ok := r.treatments[appointmentID]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, httperr.ErrNotFound("treatment_not_found")
}

func (r *fakeRepo) UpsertTreatment(_ context.Context, rec *domain.TreatmentRecord) error {
	if rec.ID == 0 {
		r.nextID++
		rec.ID = r.nextID
	}
	cp := *rec
	r.treatments[rec.AppointmentID] = &cp
	return nil
}

// bookedCount counts Booked rows for one exact tuple.
func (r *fakeRepo) bookedCount(doctorID, patientID uint, date time.Time, hhmm string) int {
	n := 0
	for _, ap := range r.appointments {
		if ap.DoctorID == doctorID && ap.PatientID == patientID &&
			domain.SameDay(ap.Date, date) && ap.Time == hhmm &&
			ap.Status == string(domain.StatusBooked) {
			n++
		}
	}
	return n
}

var _ domain.Repository = (*fakeRepo)(nil)
