package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Doctor / Patient lookup
// --------------------------------------------------

func (r *ScheduleGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&doc, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("doctor_not_found")
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ScheduleGormRepository) GetDoctorByUserID(
	ctx context.Context,
	userID uint,
) (*models.Doctor, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&doc).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("doctor_profile_not_found")
		}
		return nil, err
	}
	return &doc, nil
}

func (r *ScheduleGormRepository) GetPatientByUserID(
	ctx context.Context,
	userID uint,
) (*models.Patient, error) {

	var pat models.Patient
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&pat).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("patient_profile_not_found")
		}
		return nil, err
	}
	return &pat, nil
}

// --------------------------------------------------
// Availability (serialized JSON blob on the doctor row)
// --------------------------------------------------

// availabilityRecord is the stored wire form of one declaration.
type availabilityRecord struct {
	Date    string `json:"date"`
	Morning bool   `json:"morning"`
	Evening bool   `json:"evening"`
}

// DecodeAvailability parses the stored blob. A malformed payload is
// treated as "no availability", never as an error; entries whose date
// does not parse are skipped.
func DecodeAvailability(blob string) []domain.AvailabilityEntry {
	if blob == "" {
		return nil
	}

	var records []availabilityRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil
	}

	entries := make([]domain.AvailabilityEntry, 0, len(records))
	for _, rec := range records {
		date, err := timezone.ParseDate(rec.Date)
		if err != nil {
			continue
		}
		entries = append(entries, domain.AvailabilityEntry{
			Date:    date,
			Morning: rec.Morning,
			Evening: rec.Evening,
		})
	}
	return entries
}

func EncodeAvailability(entries []domain.AvailabilityEntry) (string, error) {
	records := make([]availabilityRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, availabilityRecord{
			Date:    timezone.FormatDate(e.Date),
			Morning: e.Morning,
			Evening: e.Evening,
		})
	}

	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *ScheduleGormRepository) GetAvailability(
	ctx context.Context,
	doctorID uint,
) ([]domain.AvailabilityEntry, error) {

	var doc models.Doctor
	if err := r.db.WithContext(ctx).
		Select("availability").
		First(&doc, doctorID).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("doctor_not_found")
		}
		return nil, err
	}

	return DecodeAvailability(doc.Availability), nil
}

func (r *ScheduleGormRepository) ReplaceAvailability(
	ctx context.Context,
	doctorID uint,
	entries []domain.AvailabilityEntry,
) error {

	blob, err := EncodeAvailability(entries)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.Doctor{}).
		Where("id = ?", doctorID).
		Update("availability", blob).Error
}

// --------------------------------------------------
// Booking ledger
// --------------------------------------------------

func (r *ScheduleGormRepository) ListBookings(
	ctx context.Context,
	doctorID uint,
	from time.Time,
	to time.Time,
) ([]domain.Booking, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("date", "time").
		Where(
			"doctor_id = ? AND status <> ? AND date >= ? AND date <= ?",
			doctorID, string(domain.StatusCancelled), from, to,
		).
		Order("date ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(apps))
	for _, ap := range apps {
		bookings = append(bookings, domain.Booking{
			Date: ap.Date,
			Time: ap.Time,
		})
	}
	return bookings, nil
}

// bookedTupleQuery builds the row-locking duplicate check for the
// exact (doctor, patient, date, time) tuple. Postgres rejects FOR
// UPDATE on aggregates, so this selects and locks the matching row
// itself rather than counting.
func bookedTupleQuery(tx *gorm.DB, ap *models.Appointment) *gorm.DB {
	return tx.
		Model(&models.Appointment{}).
		Select("id").
		Where(
			"doctor_id = ? AND patient_id = ? AND date = ? AND time = ? AND status = ?",
			ap.DoctorID, ap.PatientID, ap.Date, ap.Time, string(domain.StatusBooked),
		).
		Limit(1).
		Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateBookedAppointment performs the duplicate check and the insert
// as one transaction. The locked check plus the partial unique index
// on (doctor_id, patient_id, date, time) WHERE status='Booked' make
// two concurrent identical requests serialize: one commits, the other
// sees the conflict.
func (r *ScheduleGormRepository) CreateBookedAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var ids []uint
		if err := bookedTupleQuery(tx, ap).Find(&ids).Error; err != nil {
			return err
		}

		if len(ids) > 0 {
			return httperr.ErrConflict("slot_already_booked")
		}

		if err := tx.Create(ap).Error; err != nil {
			if isUniqueViolation(err) {
				return httperr.ErrConflict("slot_already_booked")
			}
			return err
		}

		return nil
	})
}

// isUniqueViolation matches both the translated gorm sentinel and the
// raw driver error, so the index backstop maps to a conflict even on
// connections opened without error translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *ScheduleGormRepository) GetAppointmentForPatient(
	ctx context.Context,
	appointmentID uint,
	patientID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND patient_id = ?", appointmentID, patientID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) GetAppointmentForDoctor(
	ctx context.Context,
	appointmentID uint,
	doctorID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", appointmentID, doctorID).
		First(&ap).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}

	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Treatment
// --------------------------------------------------

// DecodeTreatmentNotes parses the stored notes payload with explicit
// defaulting: malformed or empty input yields the zero-value shape.
func DecodeTreatmentNotes(blob string) domain.TreatmentNotes {
	notes := domain.TreatmentNotes{}.Normalized()
	if blob == "" {
		return notes
	}

	var parsed domain.TreatmentNotes
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
		return notes
	}
	return parsed.Normalized()
}

func EncodeTreatmentNotes(notes domain.TreatmentNotes) (string, error) {
	b, err := json.Marshal(notes.Normalized())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *ScheduleGormRepository) GetTreatmentByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*domain.TreatmentRecord, error) {

	var t models.Treatment
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&t).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("treatment_not_found")
		}
		return nil, err
	}

	return &domain.TreatmentRecord{
		ID:            t.ID,
		AppointmentID: t.AppointmentID,
		Diagnosis:     t.Diagnosis,
		Prescription:  t.Prescription,
		Notes:         DecodeTreatmentNotes(t.Notes),
	}, nil
}

func (r *ScheduleGormRepository) UpsertTreatment(
	ctx context.Context,
	rec *domain.TreatmentRecord,
) error {

	blob, err := EncodeTreatmentNotes(rec.Notes)
	if err != nil {
		return err
	}

	row := models.Treatment{
		ID:            rec.ID,
		AppointmentID: rec.AppointmentID,
		Diagnosis:     rec.Diagnosis,
		Prescription:  rec.Prescription,
		Notes:         blob,
	}

	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return err
	}

	rec.ID = row.ID
	return nil
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
