package models

import "time"

type Doctor struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialization string `gorm:"size:100;not null" json:"specialization"`
	DepartmentID   *uint  `json:"department_id"`

	// Serialized availability declarations, one JSON array of
	// {date, morning, evening} objects. Owned by the persistence
	// adapter; everything above it works with parsed entries.
	Availability string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
