package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

// ReminderWorker periodically pushes a reminder for every appointment
// still Booked on the current hospital day.
type ReminderWorker struct {
	db        *gorm.DB
	notifiers []Notifier
	interval  time.Duration
}

func NewReminderWorker(db *gorm.DB, interval time.Duration, notifiers ...Notifier) *ReminderWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReminderWorker{
		db:        db,
		notifiers: notifiers,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled. Start it in its own goroutine.
func (w *ReminderWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.tick(ctx); err != nil {
				log.Println("reminder tick:", err)
			}
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context) error {
	today := timezone.Today()

	var appointments []models.Appointment
	err := w.db.WithContext(ctx).
		Preload("Doctor.User").
		Preload("Patient.User").
		Where("date = ? AND status = ?", today, string(domain.StatusBooked)).
		Find(&appointments).Error
	if err != nil {
		return err
	}

	for _, ap := range appointments {
		msg := fmt.Sprintf(
			"Reminder: %s has an appointment with Dr. %s today at %s (ref %s).",
			ap.Patient.User.Username,
			ap.Doctor.User.Username,
			ap.Time,
			ap.Reference,
		)
		for _, n := range w.notifiers {
			if err := n.Notify(ctx, msg); err != nil {
				log.Println("reminder notify:", err)
			}
		}
	}
	return nil
}
