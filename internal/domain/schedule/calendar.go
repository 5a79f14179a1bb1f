package schedule

import "time"

// HorizonDays is the rolling window the calendar covers, today included.
const HorizonDays = 7

// Booking is the slice of an appointment the calendar builder needs.
// Callers must only pass non-cancelled appointments.
type Booking struct {
	Date time.Time
	Time string
}

// DaySchedule describes the two sessions of one calendar day.
type DaySchedule struct {
	Date time.Time

	MorningAvailable bool
	EveningAvailable bool

	MorningBooked bool
	EveningBooked bool
}

// BuildWeekCalendar merges a doctor's availability declarations with
// booking occupancy into the 7-day slot calendar starting at today.
//
// A session is available only when the doctor declared it for that
// exact date and no non-cancelled booking occupies its window. Days
// without a declaration are fully unavailable regardless of bookings.
// Pure: no side effects, no clock access.
func BuildWeekCalendar(today time.Time, entries []AvailabilityEntry, bookings []Booking) []DaySchedule {
	days := make([]DaySchedule, 0, HorizonDays)

	for offset := 0; offset < HorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)

		morningBooked := false
		eveningBooked := false

		for _, b := range bookings {
			if !SameDay(b.Date, day) {
				continue
			}
			switch slot, ok := ClassifySlot(b.Time); {
			case ok && slot == SlotMorning:
				morningBooked = true
			case ok && slot == SlotEvening:
				eveningBooked = true
			}
		}

		ds := DaySchedule{
			Date:          day,
			MorningBooked: morningBooked,
			EveningBooked: eveningBooked,
		}

		if entry := FindEntry(entries, day); entry != nil {
			ds.MorningAvailable = entry.Morning && !morningBooked
			ds.EveningAvailable = entry.Evening && !eveningBooked
		}

		days = append(days, ds)
	}

	return days
}
