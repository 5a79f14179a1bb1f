package schedule

import (
	"context"

	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

// WeekCalendar is the patient-facing view of a doctor's next 7 days.
type WeekCalendar struct {
	Doctor *models.Doctor
	Days   []domain.DaySchedule
}

type GetWeekCalendar struct {
	repo domain.Repository
}

func NewGetWeekCalendar(repo domain.Repository) *GetWeekCalendar {
	return &GetWeekCalendar{repo: repo}
}

// Execute merges the doctor's declared availability with booking
// occupancy for the rolling 7-day horizon. Blacklisted doctors are not
// queryable through this path; to a patient they look like a missing
// doctor.
func (uc *GetWeekCalendar) Execute(
	ctx context.Context,
	caller domain.Caller,
	doctorID uint,
) (*WeekCalendar, error) {

	if caller.Role != models.RolePatient {
		return nil, httperr.ErrForbidden("patient_access_required")
	}

	doc, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doc.User.IsBlacklisted {
		return nil, httperr.ErrNotFound("doctor_not_available")
	}

	entries, err := uc.repo.GetAvailability(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	today := timezone.Today()
	horizonEnd := today.AddDate(0, 0, domain.HorizonDays-1)

	bookings, err := uc.repo.ListBookings(ctx, doctorID, today, horizonEnd)
	if err != nil {
		return nil, err
	}

	return &WeekCalendar{
		Doctor: doc,
		Days:   domain.BuildWeekCalendar(today, entries, bookings),
	}, nil
}
