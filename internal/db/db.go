package db

import (
	"log"
	"time"

	"github.com/medisched/hospital-scheduler/internal/config"
	"github.com/medisched/hospital-scheduler/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Doctor{},
		&models.Patient{},
		&models.Appointment{},
		&models.Treatment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// Idempotent duplicate guard for the booking ledger: at most one
	// Booked row per (doctor, patient, date, time). Cross-patient
	// collisions on the same session are intentionally not constrained
	// here; the calendar read keeps taken slots out of the UI.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_booked_tuple
        ON appointments (doctor_id, patient_id, date, time)
        WHERE status = 'Booked'
    `)

	return db
}
