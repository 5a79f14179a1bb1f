package schedule

import (
	"context"

	"github.com/medisched/hospital-scheduler/internal/audit"
	domain "github.com/medisched/hospital-scheduler/internal/domain/schedule"
	"github.com/medisched/hospital-scheduler/internal/httperr"
	"github.com/medisched/hospital-scheduler/internal/models"
	"github.com/medisched/hospital-scheduler/internal/timezone"
)

type AvailabilityEntryInput struct {
	Date    string `json:"date" binding:"required"` // DD/MM/YYYY
	Morning bool   `json:"morning"`
	Evening bool   `json:"evening"`
}

type SetAvailability struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetAvailability(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SetAvailability {
	return &SetAvailability{
		repo:  repo,
		audit: audit,
	}
}

// Execute replaces the caller's whole availability collection. Entries
// are never patched per day.
func (uc *SetAvailability) Execute(
	ctx context.Context,
	caller domain.Caller,
	inputs []AvailabilityEntryInput,
) ([]domain.AvailabilityEntry, error) {

	if caller.Role != models.RoleDoctor {
		return nil, httperr.ErrForbidden("doctor_access_required")
	}

	doc, err := uc.repo.GetDoctorByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.AvailabilityEntry, 0, len(inputs))
	for _, in := range inputs {
		date, err := timezone.ParseDate(in.Date)
		if err != nil {
			return nil, httperr.ErrInvalid("invalid_date_format")
		}
		entries = append(entries, domain.AvailabilityEntry{
			Date:    date,
			Morning: in.Morning,
			Evening: in.Evening,
		})
	}

	if err := uc.repo.ReplaceAvailability(ctx, doc.ID, entries); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Role:     caller.Role,
		Action:   "availability_updated",
		Entity:   "doctor",
		EntityID: &doc.ID,
	})

	return entries, nil
}

// GetAvailability returns the caller's own stored declarations.
type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	caller domain.Caller,
) ([]domain.AvailabilityEntry, error) {

	if caller.Role != models.RoleDoctor {
		return nil, httperr.ErrForbidden("doctor_access_required")
	}

	doc, err := uc.repo.GetDoctorByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	return uc.repo.GetAvailability(ctx, doc.ID)
}
