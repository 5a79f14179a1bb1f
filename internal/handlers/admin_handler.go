package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/medisched/hospital-scheduler/internal/audit"
	"github.com/medisched/hospital-scheduler/internal/cache"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/dto"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/httpresp"
	"github.com/medisched/hospital-scheduler/internal/middleware"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/notify"
	"github.com/medisched/hospital-scheduler/internal/report"
	"github.com/medisched/hospital-scheduler/internal/timezone"
	"github.com/medisched/hospital-scheduler/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	db            *gorm.DB
	audit         *audit.Dispatcher
	archiver      *report.Archiver
	notifiers     []notify.Notifier
	calendarCache *cache.CalendarCache
}

func NewAdminHandler(
	db *gorm.DB,
	dispatcher *audit.Dispatcher,
	archiver *report.Archiver,
	calendarCache *cache.CalendarCache,
	notifiers ...notify.Notifier,
) *AdminHandler {
	return &AdminHandler{
		db:            db,
		audit:         dispatcher,
		archiver:      archiver,
		notifiers:     notifiers,
		calendarCache: calendarCache,
	}
}

func (h *AdminHandler) dispatch(c *gin.Context, action, entity string, entityID uint) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Role:     models.RoleAdmin,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
	})
}

// ======================================================
// DEPARTMENTS
// ======================================================

type departmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	department := models.Department{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.db.Create(&department).Error; err != nil {
		httperr.Internal(c, "department_create_failed", "Could not create the department.")
		return
	}

	h.dispatch(c, "department_created", "department", department.ID)
	httpresp.Created(c, department)
}

func (h *AdminHandler) ListDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.db.Order("name ASC").Find(&departments).Error; err != nil {
		httperr.Internal(c, "departments_list_failed", "Could not list departments.")
		return
	}
	httpresp.List(c, departments)
}

// ======================================================
// DOCTORS
// ======================================================

type createDoctorRequest struct {
	Username       string `json:"username" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Specialization string `json:"specialization" binding:"required"`
	DepartmentID   *uint  `json:"department_id"`
}

// CreateDoctor provisions the account and the profile in one step;
// doctors never self-register.
func (h *AdminHandler) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to exist.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not hash the password.")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleDoctor,
	}
	doctor := models.Doctor{
		Specialization: req.Specialization,
		DepartmentID:   req.DepartmentID,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor.UserID = user.ID
		return tx.Create(&doctor).Error
	})
	if err != nil {
		httperr.Internal(c, "doctor_create_failed", "Could not create the doctor.")
		return
	}
	doctor.User = user

	h.dispatch(c, "doctor_created", "doctor", doctor.ID)
	httpresp.Created(c, dto.NewDoctor(&doctor, true))
}

func (h *AdminHandler) ListDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.db.Preload("User").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "doctors_list_failed", "Could not list doctors.")
		return
	}
	httpresp.List(c, dto.NewDoctorList(doctors, true))
}

type updateDoctorRequest struct {
	Specialization *string `json:"specialization"`
	DepartmentID   *uint   `json:"department_id"`
}

func (h *AdminHandler) UpdateDoctor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id must be numeric.")
		return
	}

	var doctor models.Doctor
	if err := h.db.Preload("User").First(&doctor, id).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	var req updateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.DepartmentID != nil {
		doctor.DepartmentID = req.DepartmentID
	}

	if err := h.db.Save(&doctor).Error; err != nil {
		httperr.Internal(c, "doctor_update_failed", "Could not update the doctor.")
		return
	}

	h.dispatch(c, "doctor_updated", "doctor", doctor.ID)
	httpresp.OK(c, dto.NewDoctor(&doctor, true))
}

// DeleteDoctor removes the profile and account. Appointment rows
// cascade with the profile.
func (h *AdminHandler) DeleteDoctor(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id must be numeric.")
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, id).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Doctor{}, doctor.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, doctor.UserID).Error
	})
	if err != nil {
		httperr.Internal(c, "doctor_delete_failed", "Could not delete the doctor.")
		return
	}

	h.calendarCache.Invalidate(c.Request.Context(), doctor.ID)
	h.dispatch(c, "doctor_deleted", "doctor", doctor.ID)
	httpresp.Message(c, "doctor deleted")
}

func (h *AdminHandler) SearchDoctors(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		httperr.BadRequest(c, "missing_query", "Provide a search term in ?q=.")
		return
	}
	like := "%" + q + "%"

	var doctors []models.Doctor
	err := h.db.Preload("User").
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("users.username ILIKE ? OR doctors.specialization ILIKE ?", like, like).
		Limit(50).
		Find(&doctors).Error
	if err != nil {
		httperr.Internal(c, "doctors_search_failed", "Could not search doctors.")
		return
	}

	httpresp.List(c, dto.NewDoctorList(doctors, true))
}

// ======================================================
// PATIENTS
// ======================================================

func (h *AdminHandler) ListPatients(c *gin.Context) {
	var patients []models.Patient
	if err := h.db.Preload("User").Find(&patients).Error; err != nil {
		httperr.Internal(c, "patients_list_failed", "Could not list patients.")
		return
	}
	httpresp.List(c, dto.NewPatientList(patients))
}

func (h *AdminHandler) UpdatePatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_patient_id", "Patient id must be numeric.")
		return
	}

	var patient models.Patient
	if err := h.db.Preload("User").First(&patient, id).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Patient not found.")
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

	if err := h.db.Save(&patient).Error; err != nil {
		httperr.Internal(c, "patient_update_failed", "Could not update the patient.")
		return
	}

	h.dispatch(c, "patient_updated", "patient", patient.ID)
	httpresp.OK(c, dto.NewPatient(&patient))
}

func (h *AdminHandler) DeletePatient(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_patient_id", "Patient id must be numeric.")
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, id).Error; err != nil {
		httperr.NotFound(c, "patient_not_found", "Patient not found.")
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Patient{}, patient.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, patient.UserID).Error
	})
	if err != nil {
		httperr.Internal(c, "patient_delete_failed", "Could not delete the patient.")
		return
	}

	h.dispatch(c, "patient_deleted", "patient", patient.ID)
	httpresp.Message(c, "patient deleted")
}

func (h *AdminHandler) SearchPatients(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		httperr.BadRequest(c, "missing_query", "Provide a search term in ?q=.")
		return
	}
	like := "%" + q + "%"

	var patients []models.Patient
	err := h.db.Preload("User").
		Joins("JOIN users ON users.id = patients.user_id").
		Where("users.username ILIKE ? OR users.email ILIKE ?", like, like).
		Limit(50).
		Find(&patients).Error
	if err != nil {
		httperr.Internal(c, "patients_search_failed", "Could not search patients.")
		return
	}

	httpresp.List(c, dto.NewPatientList(patients))
}

// ======================================================
// APPOINTMENTS
// ======================================================

func (h *AdminHandler) ListAppointments(c *gin.Context) {
	q := h.db.Preload("Doctor.User").Preload("Patient.User")

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
	if err := q.Order("date DESC, time DESC").Limit(200).Find(&appointments).Error; err != nil {
		httperr.Internal(c, "appointments_list_failed", "Could not list appointments.")
		return
	}

	httpresp.List(c, dto.NewAppointmentList(appointments))
}

type adminAppointmentUpdate struct {
	Status *string `json:"status"`
}

// UpdateAppointment is the back-office escape hatch. It accepts any
// known status, including resetting to Booked.
func (h *AdminHandler) UpdateAppointment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	var ap models.Appointment
	if err := h.db.Preload("Doctor.User").Preload("Patient.User").First(&ap, id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	var req adminAppointmentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Status != nil {
		switch domain.Status(*req.Status) {
		case domain.StatusBooked:
			ap.Status = *req.Status
			ap.CancelledAt = nil
			ap.CompletedAt = nil
		case domain.StatusCompleted, domain.StatusCancelled:
			domain.OverwriteStatus(&ap, domain.Status(*req.Status), timezone.Now())
		default:
			httperr.BadRequest(c, "invalid_status", "Unknown appointment status.")
			return
		}
	}

	if err := h.db.Save(&ap).Error; err != nil {
		httperr.Internal(c, "appointment_update_failed", "Could not update the appointment.")
		return
	}

	h.calendarCache.Invalidate(c.Request.Context(), ap.DoctorID)
	h.dispatch(c, "appointment_updated", "appointment", ap.ID)
	httpresp.OK(c, dto.NewAppointment(&ap))
}

func (h *AdminHandler) DeleteAppointment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id must be numeric.")
		return
	}

	var ap models.Appointment
	if err := h.db.First(&ap, id).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	if err := h.db.Delete(&ap).Error; err != nil {
		httperr.Internal(c, "appointment_delete_failed", "Could not delete the appointment.")
		return
	}

	h.calendarCache.Invalidate(c.Request.Context(), ap.DoctorID)
	h.dispatch(c, "appointment_deleted", "appointment", ap.ID)
	httpresp.Message(c, "appointment deleted")
}

// ======================================================
// BLACKLIST
// ======================================================

func (h *AdminHandler) setBlacklist(c *gin.Context, value bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_user_id", "User id must be numeric.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}
	if user.Role == models.RoleAdmin {
		httperr.Forbidden(c, "cannot_blacklist_admin", "Admin accounts cannot be blacklisted.")
		return
	}

	user.IsBlacklisted = value
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "blacklist_update_failed", "Could not update the account.")
		return
	}

	// Blacklisted doctors disappear from patient calendars at once.
	if user.Role == models.RoleDoctor {
		var doctor models.Doctor
		if err := h.db.Where("user_id = ?", user.ID).First(&doctor).Error; err == nil {
			h.calendarCache.Invalidate(c.Request.Context(), doctor.ID)
		}
	}

	action := "user_blacklisted"
	if !value {
		action = "user_unblacklisted"
	}
	h.dispatch(c, action, "user", user.ID)

	httpresp.OK(c, gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"role":           user.Role,
		"is_blacklisted": user.IsBlacklisted,
	})
}

func (h *AdminHandler) Blacklist(c *gin.Context)   { h.setBlacklist(c, true) }
func (h *AdminHandler) Unblacklist(c *gin.Context) { h.setBlacklist(c, false) }

// ======================================================
// STATS AND REPORTS
// ======================================================

func (h *AdminHandler) Stats(c *gin.Context) {
	var doctors, patients, appointments, booked, completed, cancelled int64

	h.db.Model(&models.Doctor{}).Count(&doctors)
	h.db.Model(&models.Patient{}).Count(&patients)
	h.db.Model(&models.Appointment{}).Count(&appointments)
	h.db.Model(&models.Appointment{}).Where("status = ?", string(domain.StatusBooked)).Count(&booked)
	h.db.Model(&models.Appointment{}).Where("status = ?", string(domain.StatusCompleted)).Count(&completed)
	h.db.Model(&models.Appointment{}).Where("status = ?", string(domain.StatusCancelled)).Count(&cancelled)

	httpresp.OK(c, gin.H{
		"doctors":            doctors,
		"patients":           patients,
		"appointments_total": appointments,
		"booked":             booked,
		"completed":          completed,
		"cancelled":          cancelled,
	})
}

// MonthlyReport builds the activity CSV for the current month,
// archives it when a bucket is configured, and pings the notifiers.
func (h *AdminHandler) MonthlyReport(c *gin.Context) {
	summary, err := report.GenerateMonthly(c.Request.Context(), h.db, timezone.Now())
	if err != nil {
		httperr.Internal(c, "report_failed", "Could not build the monthly report.")
		return
	}

	csv, err := report.BuildMonthlyCSV(summary)
	if err != nil {
		httperr.Internal(c, "report_failed", "Could not build the monthly report.")
		return
	}

	archiveKey, err := h.archiver.Archive(c.Request.Context(), "monthly", csv)
	if err != nil {
		httperr.Internal(c, "report_archive_failed", "Could not archive the monthly report.")
		return
	}

	msg := fmt.Sprintf(
		"Monthly report %s: %d appointments (%d completed, %d cancelled).",
		summary.Month, summary.Total, summary.Completed, summary.Cancelled,
	)
	for _, n := range h.notifiers {
		// Report delivery is best effort.
		_ = n.Notify(c.Request.Context(), msg)
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID: &userID,
		Role:   models.RoleAdmin,
		Action: "monthly_report_generated",
		Entity: "report",
		Metadata: gin.H{
			"month":       summary.Month,
			"archive_key": archiveKey,
		},
	})

	if c.Query("format") == "csv" {
		c.Header("Content-Disposition", `attachment; filename="monthly-report.csv"`)
		c.Data(200, "text/csv", csv)
		return
	}

	httpresp.OK(c, gin.H{
		"summary":     summary,
		"archive_key": archiveKey,
	})
}
