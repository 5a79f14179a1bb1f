package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// External reference handed to clients, never reused across rows.
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	DoctorID uint   `gorm:"not null;index" json:"doctor_id"`
	Doctor   Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor"`

	PatientID uint    `gorm:"not null;index" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	// Date is the calendar day at midnight in the hospital timezone.
	// Time is the representative slot time, "HH:MM".
	Date time.Time `gorm:"type:date;not null" json:"date"`
	Time string    `gorm:"size:5;not null" json:"time"`

	Status string `gorm:"size:20;default:'Booked'" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Treatment *Treatment `json:"treatment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
