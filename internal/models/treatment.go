package models

import "time"

type Treatment struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"uniqueIndex;not null" json:"appointment_id"`

	Diagnosis    string `gorm:"type:text" json:"diagnosis"`
	Prescription string `gorm:"type:text" json:"prescription"`

	// Fixed-shape visit notes (visitType, testDone, medicines, notes)
	// serialized by the persistence adapter.
	Notes string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
