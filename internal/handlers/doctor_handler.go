package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medisched/hospital-scheduler/internal/cache"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/dto"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/httpresp"
	"github.com/medisched/hospital-scheduler/internal/middleware"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
	ucSchedule "github.com/medisched/hospital-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type DoctorHandler struct {
	db *gorm.DB

	getAvailabilityUC *ucSchedule.GetAvailability
	setAvailabilityUC *ucSchedule.SetAvailability
	updateStatusUC    *ucSchedule.UpdateAppointmentStatus
	getTreatmentUC    *ucSchedule.GetTreatment
	saveTreatmentUC   *ucSchedule.SaveTreatment
	addTreatmentUC    *ucSchedule.AddTreatment

	calendarCache *cache.CalendarCache
}

func NewDoctorHandler(
	db *gorm.DB,
	getAvailabilityUC *ucSchedule.GetAvailability,
	setAvailabilityUC *ucSchedule.SetAvailability,
	updateStatusUC *ucSchedule.UpdateAppointmentStatus,
	getTreatmentUC *ucSchedule.GetTreatment,
	saveTreatmentUC *ucSchedule.SaveTreatment,
	addTreatmentUC *ucSchedule.AddTreatment,
	calendarCache *cache.CalendarCache,
) *DoctorHandler {
	return &DoctorHandler{
		db:                db,
		getAvailabilityUC: getAvailabilityUC,
		setAvailabilityUC: setAvailabilityUC,
		updateStatusUC:    updateStatusUC,
		getTreatmentUC:    getTreatmentUC,
		saveTreatmentUC:   saveTreatmentUC,
		addTreatmentUC:    addTreatmentUC,
		calendarCache:     calendarCache,
	}
}

func (h *DoctorHandler) doctorProfile(c *gin.Context) (*models.Doctor, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var doctor models.Doctor
	err := h.db.Preload("User").Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		httperr.NotFound(c, "doctor_profile_not_found", "No doctor profile for this account.")
		return nil, false
	}
	return &doctor, true
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *DoctorHandler) Dashboard(c *gin.Context) {
	doctor, ok := h.doctorProfile(c)
	if !ok {
		return
	}

	today := timezone.Today()

	var todays []models.Appointment
	h.db.Preload("Patient.User").
		Where("doctor_id = ? AND date = ? AND status = ?",
			doctor.ID, today, string(domain.StatusBooked)).
		Order("time ASC").
		Find(&todays)

	var pending int64
	h.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND status = ? AND date >= ?",
			doctor.ID, string(domain.StatusBooked), today).
		Count(&pending)

	httpresp.OK(c, gin.H{
		"doctor":        dto.NewDoctor(doctor, false),
		"today":         dto.NewAppointmentList(todays),
		"pending_total": pending,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *DoctorHandler) GetAvailability(c *gin.Context) {
	entries, err := h.getAvailabilityUC.Execute(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	httpresp.List(c, dto.NewAvailabilityList(entries))
}

// SetAvailability replaces the whole declaration set.
func (h *DoctorHandler) SetAvailability(c *gin.Context) {
	var req []ucSchedule.AvailabilityEntryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	entries, err := h.setAvailabilityUC.Execute(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	if doctor, ok := h.doctorProfile(c); ok {
		h.calendarCache.Invalidate(c.Request.Context(), doctor.ID)
	}

	httpresp.List(c, dto.NewAvailabilityList(entries))
}

// ======================================================
// APPOINTMENTS
// ======================================================

func (h *DoctorHandler) ListAppointments(c *gin.Context) {
	doctor, ok := h.doctorProfile(c)
	if !ok {
		return
	}

	q := h.db.Preload("Patient.User").
		Where("doctor_id = ?", doctor.ID)

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := timezone.ParseDate(dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_format", "Dates use DD/MM/YYYY.")
			return
		}
		q = q.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := q.Order("date ASC, time ASC").Find(&appointments).Error; err != nil {
		httperr.Internal(c, "appointments_list_failed", "Could not list appointments.")
		return
	}

	httpresp.List(c, dto.NewAppointmentList(appointments))
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *DoctorHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.updateStatusUC.Execute(c.Request.Context(), middleware.CallerFrom(c), ucSchedule.UpdateStatusInput{
		AppointmentID: uint(id),
		Status:        req.Status,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	h.calendarCache.Invalidate(c.Request.Context(), ap.DoctorID)

	httpresp.OK(c, dto.NewAppointment(ap))
}

// ======================================================
// TREATMENTS
// ======================================================

type treatmentRequest struct {
	Diagnosis    string   `json:"diagnosis"`
	Prescription string   `json:"prescription"`
	VisitType    string   `json:"visit_type"`
	TestDone     string   `json:"test_done"`
	Medicines    []string `json:"medicines"`
	Notes        string   `json:"notes"`
}

func (r *treatmentRequest) toInput(appointmentID uint) ucSchedule.TreatmentInput {
	return ucSchedule.TreatmentInput{
		AppointmentID: appointmentID,
		Diagnosis:     r.Diagnosis,
		Prescription:  r.Prescription,
		Notes: domain.TreatmentNotes{
			VisitType: r.VisitType,
			TestDone:  r.TestDone,
			Medicines: r.Medicines,
			Notes:     r.Notes,
		},
	}
}

func (h *DoctorHandler) GetTreatment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	rec, err := h.getTreatmentUC.Execute(c.Request.Context(), middleware.CallerFrom(c), uint(id))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}
	if rec == nil {
		httperr.NotFound(c, "treatment_not_found", "No treatment recorded for this appointment.")
		return
	}

	httpresp.OK(c, dto.NewTreatment(rec))
}

// SaveTreatment upserts visit notes regardless of appointment status.
func (h *DoctorHandler) SaveTreatment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	var req treatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rec, err := h.saveTreatmentUC.Execute(c.Request.Context(), middleware.CallerFrom(c), req.toInput(uint(id)))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, dto.NewTreatment(rec))
}

// AddTreatment is the stricter path: only Completed appointments take
// a treatment here, and a diagnosis is mandatory.
func (h *DoctorHandler) AddTreatment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	var req treatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rec, err := h.addTreatmentUC.Execute(c.Request.Context(), middleware.CallerFrom(c), req.toInput(uint(id)))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, dto.NewTreatment(rec))
}

// ======================================================
// PATIENT HISTORY
// ======================================================

// PatientHistory lists the caller's past appointments with one
// patient, newest first, treatments included.
func (h *DoctorHandler) PatientHistory(c *gin.Context) {
	doctor, ok := h.doctorProfile(c)
	if !ok {
		return
	}

	patientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_patient_id", "Patient id must be numeric.")
		return
	}

	var appointments []models.Appointment
	if err := h.db.Preload("Patient.User").
		Preload("Treatment").
		Where("doctor_id = ? AND patient_id = ?", doctor.ID, patientID).
		Order("date DESC, time DESC").
		Find(&appointments).Error; err != nil {
		httperr.Internal(c, "history_failed", "Could not load patient history.")
		return
	}

	httpresp.List(c, dto.NewAppointmentList(appointments))
}
