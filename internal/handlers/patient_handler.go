package handlers

import (
	"encoding/json"
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
	"github.com/medisched/hospital-scheduler/internal/report"
	"github.com/medisched/hospital-scheduler/internal/timezone"
	ucSchedule "github.com/medisched/hospital-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type PatientHandler struct {
	db *gorm.DB

	calendarUC *ucSchedule.GetWeekCalendar
	bookUC     *ucSchedule.BookSlot
	cancelUC   *ucSchedule.CancelAppointment

	calendarCache *cache.CalendarCache
}

func NewPatientHandler(
	db *gorm.DB,
	calendarUC *ucSchedule.GetWeekCalendar,
	bookUC *ucSchedule.BookSlot,
	cancelUC *ucSchedule.CancelAppointment,
	calendarCache *cache.CalendarCache,
) *PatientHandler {
	return &PatientHandler{
		db:            db,
		calendarUC:    calendarUC,
		bookUC:        bookUC,
		cancelUC:      cancelUC,
		calendarCache: calendarCache,
	}
}

func (h *PatientHandler) patientProfile(c *gin.Context) (*models.Patient, bool) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var patient models.Patient
	err := h.db.Preload("User").Where("user_id = ?", userID).First(&patient).Error
	if err != nil {
		httperr.NotFound(c, "patient_profile_not_found", "No patient profile for this account.")
		return nil, false
	}
	return &patient, true
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *PatientHandler) Dashboard(c *gin.Context) {
	patient, ok := h.patientProfile(c)
	if !ok {
		return
	}

	today := timezone.Today()

	var upcoming []models.Appointment
	h.db.Preload("Doctor.User").
		Where("patient_id = ? AND status = ? AND date >= ?",
			patient.ID, string(domain.StatusBooked), today).
		Order("date ASC, time ASC").
		Limit(10).
		Find(&upcoming)

	var total int64
	h.db.Model(&models.Appointment{}).
		Where("patient_id = ?", patient.ID).
		Count(&total)

	httpresp.OK(c, gin.H{
		"profile":            dto.NewPatient(patient),
		"upcoming":           dto.NewAppointmentList(upcoming),
		"total_appointments": total,
	})
}

// ======================================================
// BROWSING
// ======================================================

func (h *PatientHandler) ListDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.db.Order("name ASC").Find(&departments).Error; err != nil {
		httperr.Internal(c, "departments_list_failed", "Could not list departments.")
		return
	}
	httpresp.List(c, departments)
}

// activeDoctors scopes every patient-facing doctor query. Blacklisted
// accounts are invisible here, not flagged.
func (h *PatientHandler) activeDoctors() *gorm.DB {
	return h.db.Model(&models.Doctor{}).
		Preload("User").
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("users.is_blacklisted = ?", false)
}

func (h *PatientHandler) ListDoctorsByDepartment(c *gin.Context) {
	departmentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_department_id", "Department id must be numeric.")
		return
	}

	var doctors []models.Doctor
	if err := h.activeDoctors().
		Where("doctors.department_id = ?", departmentID).
		Find(&doctors).Error; err != nil {
		httperr.Internal(c, "doctors_list_failed", "Could not list doctors.")
		return
	}

	httpresp.List(c, dto.NewDoctorList(doctors, false))
}

func (h *PatientHandler) SearchDoctors(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		httperr.BadRequest(c, "missing_query", "Provide a search term in ?q=.")
		return
	}

	like := "%" + q + "%"

	var doctors []models.Doctor
	if err := h.activeDoctors().
		Where("users.username ILIKE ? OR doctors.specialization ILIKE ?", like, like).
		Limit(50).
		Find(&doctors).Error; err != nil {
		httperr.Internal(c, "doctors_search_failed", "Could not search doctors.")
		return
	}

	httpresp.List(c, dto.NewDoctorList(doctors, false))
}

// ======================================================
// CALENDAR
// ======================================================

// DoctorAvailability serves the 7-day calendar, read-through cached
// per (doctor, request day) for 60 seconds.
func (h *PatientHandler) DoctorAvailability(c *gin.Context) {
	doctorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id must be numeric.")
		return
	}

	day := timezone.FormatDate(timezone.Today())

	if raw := h.calendarCache.Get(c.Request.Context(), uint(doctorID), day); raw != nil {
		c.Data(200, "application/json; charset=utf-8", raw)
		return
	}

	view, err := h.calendarUC.Execute(c.Request.Context(), middleware.CallerFrom(c), uint(doctorID))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	payload := dto.NewWeekCalendar(view.Doctor, view.Days)

	if raw, err := json.Marshal(payload); err == nil {
		h.calendarCache.Set(c.Request.Context(), uint(doctorID), day, raw)
	}

	httpresp.OK(c, payload)
}

// ======================================================
// BOOKING
// ======================================================

type bookRequest struct {
	DoctorID uint   `json:"doctor_id" binding:"required"`
	Date     string `json:"date" binding:"required"`
	Slot     string `json:"slot" binding:"required"`
}

func (h *PatientHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.bookUC.Execute(c.Request.Context(), middleware.CallerFrom(c), ucSchedule.BookSlotInput{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Slot:     req.Slot,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	h.calendarCache.Invalidate(c.Request.Context(), req.DoctorID)

	httpresp.Created(c, dto.NewAppointment(ap))
}

func (h *PatientHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), middleware.CallerFrom(c), uint(id))
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	h.calendarCache.Invalidate(c.Request.Context(), ap.DoctorID)

	httpresp.OK(c, dto.NewAppointment(ap))
}

// ======================================================
// HISTORY
// ======================================================

func (h *PatientHandler) History(c *gin.Context) {
	patient, ok := h.patientProfile(c)
	if !ok {
		return
	}

	q := h.db.Preload("Doctor.User").
		Where("patient_id = ?", patient.ID)

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := q.Order("date DESC, time DESC").Find(&appointments).Error; err != nil {
		httperr.Internal(c, "history_failed", "Could not load appointment history.")
		return
	}

	httpresp.List(c, dto.NewAppointmentList(appointments))
}

// ExportTreatments streams the patient's full visit history as CSV.
func (h *PatientHandler) ExportTreatments(c *gin.Context) {
	patient, ok := h.patientProfile(c)
	if !ok {
		return
	}

	var appointments []models.Appointment
	if err := h.db.Preload("Doctor.User").
		Preload("Treatment").
		Where("patient_id = ?", patient.ID).
		Order("date ASC, time ASC").
		Find(&appointments).Error; err != nil {
		httperr.Internal(c, "export_failed", "Could not build the export.")
		return
	}

	rows := make([]report.TreatmentExportRow, 0, len(appointments))
	for _, ap := range appointments {
		row := report.TreatmentExportRow{
			Date:           timezone.FormatDate(ap.Date),
			Time:           ap.Time,
			DoctorName:     ap.Doctor.User.Username,
			Specialization: ap.Doctor.Specialization,
			Status:         ap.Status,
		}
		if ap.Treatment != nil {
			row.Diagnosis = ap.Treatment.Diagnosis
			row.Prescription = ap.Treatment.Prescription
		}
		rows = append(rows, row)
	}

	csv, err := report.BuildTreatmentHistoryCSV(rows)
	if err != nil {
		httperr.Internal(c, "export_failed", "Could not build the export.")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="treatment-history.csv"`)
	c.Data(200, "text/csv", csv)
}

// ======================================================
// PROFILE
// ======================================================

type patientProfileUpdate struct {
	ContactInfo *string `json:"contact_info"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
}

func (h *PatientHandler) UpdateProfile(c *gin.Context) {
	patient, ok := h.patientProfile(c)
	if !ok {
		return
	}

	var req patientProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.ContactInfo != nil {
		patient.ContactInfo = *req.ContactInfo
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}

	if err := h.db.Save(patient).Error; err != nil {
		httperr.Internal(c, "profile_update_failed", "Could not update the profile.")
		return
	}

	httpresp.OK(c, dto.NewPatient(patient))
}
