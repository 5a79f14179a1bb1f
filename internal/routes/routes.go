package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medisched/hospital-scheduler/internal/audit"
	"github.com/medisched/hospital-scheduler/internal/cache"
	"github.com/medisched/hospital-scheduler/internal/config"
	"github.com/medisched/hospital-scheduler/internal/handlers"
	infraRepo "github.com/medisched/hospital-scheduler/internal/infra/repository"
	"github.com/medisched/hospital-scheduler/internal/middleware"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/notify"
	"github.com/medisched/hospital-scheduler/internal/report"
	ucSchedule "github.com/medisched/hospital-scheduler/internal/usecase/schedule"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, calendarCache *cache.CalendarCache) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	archiver := report.NewArchiver(cfg)

	var notifiers []notify.Notifier
	if cfg.ChatWebhookURL != "" {
		notifiers = append(notifiers, notify.NewChatWebhook(cfg.ChatWebhookURL))
	}
	notifiers = append(notifiers, &notify.LogNotifier{Prefix: "mail"})

	// ======================================================
	// USE CASES
	// ======================================================
	calendarUC := ucSchedule.NewGetWeekCalendar(scheduleRepo)
	bookUC := ucSchedule.NewBookSlot(scheduleRepo, auditDispatcher)
	cancelUC := ucSchedule.NewCancelAppointment(scheduleRepo, auditDispatcher)

	getAvailabilityUC := ucSchedule.NewGetAvailability(scheduleRepo)
	setAvailabilityUC := ucSchedule.NewSetAvailability(scheduleRepo, auditDispatcher)
	updateStatusUC := ucSchedule.NewUpdateAppointmentStatus(scheduleRepo, auditDispatcher)

	getTreatmentUC := ucSchedule.NewGetTreatment(scheduleRepo)
	saveTreatmentUC := ucSchedule.NewSaveTreatment(scheduleRepo, auditDispatcher)
	addTreatmentUC := ucSchedule.NewAddTreatment(scheduleRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)

	patientHandler := handlers.NewPatientHandler(
		db,
		calendarUC,
		bookUC,
		cancelUC,
		calendarCache,
	)

	doctorHandler := handlers.NewDoctorHandler(
		db,
		getAvailabilityUC,
		setAvailabilityUC,
		updateStatusUC,
		getTreatmentUC,
		saveTreatmentUC,
		addTreatmentUC,
		calendarCache,
	)

	adminHandler := handlers.NewAdminHandler(
		db,
		auditDispatcher,
		archiver,
		calendarCache,
		notifiers...,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// PATIENT
			// ------------------------------
			patient := secured.Group("/patient")
			patient.Use(middleware.RequireRole(models.RolePatient))
			{
				patient.GET("/dashboard", patientHandler.Dashboard)
				patient.GET("/departments", patientHandler.ListDepartments)
				patient.GET("/departments/:id/doctors", patientHandler.ListDoctorsByDepartment)
				patient.GET("/doctors/search", patientHandler.SearchDoctors)
				patient.GET("/doctors/:id/availability", patientHandler.DoctorAvailability)

				patient.POST("/appointments/book", patientHandler.Book)
				patient.PATCH("/appointments/:id/cancel", patientHandler.Cancel)
				patient.GET("/appointments", patientHandler.History)

				patient.GET("/treatments/export", patientHandler.ExportTreatments)
				patient.PATCH("/profile", patientHandler.UpdateProfile)
			}

			// ------------------------------
			// DOCTOR
			// ------------------------------
			doctor := secured.Group("/doctor")
			doctor.Use(middleware.RequireRole(models.RoleDoctor))
			{
				doctor.GET("/dashboard", doctorHandler.Dashboard)

				doctor.GET("/availability", doctorHandler.GetAvailability)
				doctor.POST("/availability", doctorHandler.SetAvailability)

				doctor.GET("/appointments", doctorHandler.ListAppointments)
				doctor.PATCH("/appointments/:id/status", doctorHandler.UpdateStatus)

				doctor.GET("/appointments/:id/treatment", doctorHandler.GetTreatment)
				doctor.PUT("/appointments/:id/treatment", doctorHandler.SaveTreatment)
				doctor.POST("/appointments/:id/treatment", doctorHandler.AddTreatment)

				doctor.GET("/patients/:id/history", doctorHandler.PatientHistory)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/departments", adminHandler.ListDepartments)
				admin.POST("/departments", adminHandler.CreateDepartment)

				admin.GET("/doctors", adminHandler.ListDoctors)
				admin.POST("/doctors", adminHandler.CreateDoctor)
				admin.PATCH("/doctors/:id", adminHandler.UpdateDoctor)
				admin.DELETE("/doctors/:id", adminHandler.DeleteDoctor)
				admin.GET("/doctors/search", adminHandler.SearchDoctors)

				admin.GET("/patients", adminHandler.ListPatients)
				admin.PATCH("/patients/:id", adminHandler.UpdatePatient)
				admin.DELETE("/patients/:id", adminHandler.DeletePatient)
				admin.GET("/patients/search", adminHandler.SearchPatients)

				admin.GET("/appointments", adminHandler.ListAppointments)
				admin.PATCH("/appointments/:id", adminHandler.UpdateAppointment)
				admin.DELETE("/appointments/:id", adminHandler.DeleteAppointment)

				admin.POST("/users/:id/blacklist", adminHandler.Blacklist)
				admin.DELETE("/users/:id/blacklist", adminHandler.Unblacklist)

				admin.GET("/stats", adminHandler.Stats)
				admin.GET("/reports/monthly", adminHandler.MonthlyReport)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
