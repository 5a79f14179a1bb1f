package dto

import (
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

// DayScheduleDTO is one day of the patient-facing weekly calendar.
// Dates travel as DD/MM/YYYY on every surface.
type DayScheduleDTO struct {
	Date          string `json:"date"`
	Morning       bool   `json:"morning"`
	Evening       bool   `json:"evening"`
	MorningBooked bool   `json:"morning_booked"`
	EveningBooked bool   `json:"evening_booked"`
}

type WeekCalendarDTO struct {
	DoctorID       uint             `json:"doctor_id"`
	DoctorName     string           `json:"doctor_name"`
	Specialization string           `json:"specialization"`
	Days           []DayScheduleDTO `json:"days"`
}

func NewWeekCalendar(doc *models.Doctor, days []domain.DaySchedule) WeekCalendarDTO {
	out := WeekCalendarDTO{
		DoctorID:       doc.ID,
		DoctorName:     doc.User.Username,
		Specialization: doc.Specialization,
		Days:           make([]DayScheduleDTO, 0, len(days)),
	}
	for _, d := range days {
		out.Days = append(out.Days, DayScheduleDTO{
			Date:          timezone.FormatDate(d.Date),
			Morning:       d.MorningAvailable,
			Evening:       d.EveningAvailable,
			MorningBooked: d.MorningBooked,
			EveningBooked: d.EveningBooked,
		})
	}
	return out
}

type AvailabilityEntryDTO struct {
	Date    string `json:"date"`
	Morning bool   `json:"morning"`
	Evening bool   `json:"evening"`
}

func NewAvailabilityList(entries []domain.AvailabilityEntry) []AvailabilityEntryDTO {
	out := make([]AvailabilityEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, AvailabilityEntryDTO{
			Date:    timezone.FormatDate(e.Date),
			Morning: e.Morning,
			Evening: e.Evening,
		})
	}
	return out
}

// AppointmentDTO is the shared list/detail shape. Doctor and patient
// names are filled only when the corresponding relation was preloaded.
type AppointmentDTO struct {
	ID             uint   `json:"id"`
	Reference      string `json:"reference"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Status         string `json:"status"`
	DoctorID       uint   `json:"doctor_id"`
	DoctorName     string `json:"doctor_name,omitempty"`
	Specialization string `json:"specialization,omitempty"`
	PatientID      uint   `json:"patient_id"`
	PatientName    string `json:"patient_name,omitempty"`
}

func NewAppointment(ap *models.Appointment) AppointmentDTO {
	out := AppointmentDTO{
		ID:        ap.ID,
		Reference: ap.Reference,
		Date:      timezone.FormatDate(ap.Date),
		Time:      ap.Time,
		Status:    ap.Status,
		DoctorID:  ap.DoctorID,
		PatientID: ap.PatientID,
	}
	if ap.Doctor.ID != 0 {
		out.DoctorName = ap.Doctor.User.Username
		out.Specialization = ap.Doctor.Specialization
	}
	if ap.Patient.ID != 0 {
		out.PatientName = ap.Patient.User.Username
	}
	return out
}

func NewAppointmentList(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, NewAppointment(&aps[i]))
	}
	return out
}

type DoctorDTO struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	DepartmentID   *uint  `json:"department_id"`
	IsBlacklisted  bool   `json:"is_blacklisted,omitempty"`
}

func NewDoctor(doc *models.Doctor, withFlags bool) DoctorDTO {
	out := DoctorDTO{
		ID:             doc.ID,
		Name:           doc.User.Username,
		Email:          doc.User.Email,
		Specialization: doc.Specialization,
		DepartmentID:   doc.DepartmentID,
	}
	if withFlags {
		out.IsBlacklisted = doc.User.IsBlacklisted
	}
	return out
}

func NewDoctorList(docs []models.Doctor, withFlags bool) []DoctorDTO {
	out := make([]DoctorDTO, 0, len(docs))
	for i := range docs {
		out = append(out, NewDoctor(&docs[i], withFlags))
	}
	return out
}

type PatientDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ContactInfo string `json:"contact_info"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
}

func NewPatient(p *models.Patient) PatientDTO {
	return PatientDTO{
		ID:          p.ID,
		Name:        p.User.Username,
		Email:       p.User.Email,
		ContactInfo: p.ContactInfo,
		Age:         p.Age,
		Gender:      p.Gender,
	}
}

func NewPatientList(ps []models.Patient) []PatientDTO {
	out := make([]PatientDTO, 0, len(ps))
	for i := range ps {
		out = append(out, NewPatient(&ps[i]))
	}
	return out
}

type TreatmentDTO struct {
	ID            uint     `json:"id"`
	AppointmentID uint     `json:"appointment_id"`
	Diagnosis     string   `json:"diagnosis"`
	Prescription  string   `json:"prescription"`
	VisitType     string   `json:"visit_type"`
	TestDone      string   `json:"test_done"`
	Medicines     []string `json:"medicines"`
	Notes         string   `json:"notes"`
}

func NewTreatment(rec *domain.TreatmentRecord) TreatmentDTO {
	notes := rec.Notes.Normalized()
	return TreatmentDTO{
		ID:            rec.ID,
		AppointmentID: rec.AppointmentID,
		Diagnosis:     rec.Diagnosis,
		Prescription:  rec.Prescription,
		VisitType:     notes.VisitType,
		TestDone:      notes.TestDone,
		Medicines:     notes.Medicines,
		Notes:         notes.Notes,
	}
}
