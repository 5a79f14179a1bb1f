package report

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/models"
)

// GenerateMonthly builds the activity summary for the month containing
// ref, in the hospital timezone.
func GenerateMonthly(ctx context.Context, db *gorm.DB, ref time.Time) (*MonthlySummary, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)

	summary := &MonthlySummary{
		Month: fmt.Sprintf("%02d/%d", start.Month(), start.Year()),
	}

	base := db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("date >= ? AND date < ?", start, end)

	if err := base.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", string(domain.StatusCompleted)).
		Count(&summary.Completed).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status = ?", string(domain.StatusCancelled)).
		Count(&summary.Cancelled).Error; err != nil {
		return nil, err
	}

	rows := []struct {
		Username       string
		Specialization string
		Total          int64
		Completed      int64
		Cancelled      int64
	}{}

	err := db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select(`users.username AS username,
			doctors.specialization AS specialization,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE appointments.status = ?) AS completed,
			COUNT(*) FILTER (WHERE appointments.status = ?) AS cancelled`,
			string(domain.StatusCompleted),
			string(domain.StatusCancelled)).
		Joins("JOIN doctors ON doctors.id = appointments.doctor_id").
		Joins("JOIN users ON users.id = doctors.user_id").
		Where("appointments.date >= ? AND appointments.date < ?", start, end).
		Group("users.username, doctors.specialization").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		summary.Doctors = append(summary.Doctors, DoctorMonthlyRow{
			DoctorName:     r.Username,
			Specialization: r.Specialization,
			Total:          r.Total,
			Completed:      r.Completed,
			Cancelled:      r.Cancelled,
		})
	}

	return summary, nil
}
