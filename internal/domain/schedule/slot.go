package schedule

import (
	"github.com/medisched/hospital-scheduler/internal/httperr"
)

// ===============================
// Daily Sessions
// ===============================

// Slot is one of the two fixed daily booking windows.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
)

// Session windows (hour-of-day, end exclusive):
// morning [08:00, 12:00), evening [16:00, 21:00).
const (
	MorningStartHour = 8
	MorningEndHour   = 12
	EveningStartHour = 16
	EveningEndHour   = 21
)

// Representative times used to record which session a booking belongs
// to. Mid-window instants, so window classification always recognizes
// them.
const (
	MorningTime = "10:00"
	EveningTime = "18:00"
)

func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotMorning:
		return SlotMorning, nil
	case SlotEvening:
		return SlotEvening, nil
	}
	return "", httperr.ErrInvalid("invalid_time_slot")
}

// RepresentativeTime maps a slot to the fixed HH:MM it is booked as.
func (s Slot) RepresentativeTime() string {
	if s == SlotMorning {
		return MorningTime
	}
	return EveningTime
}

// ClassifySlot places an HH:MM time into its session window by
// hour-of-day. ok is false for times outside both windows.
func ClassifySlot(hhmm string) (slot Slot, ok bool) {
	hour, valid := parseHour(hhmm)
	if !valid {
		return "", false
	}

	switch {
	case hour >= MorningStartHour && hour < MorningEndHour:
		return SlotMorning, true
	case hour >= EveningStartHour && hour < EveningEndHour:
		return SlotEvening, true
	}
	return "", false
}

func parseHour(hhmm string) (int, bool) {
	if len(hhmm) != 5 || hhmm[2] != ':' {
		return 0, false
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	if hhmm[0] < '0' || hhmm[0] > '9' || hhmm[1] < '0' || hhmm[1] > '9' || h > 23 {
		return 0, false
	}
	return h, true
}
