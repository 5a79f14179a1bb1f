package timezone

import "time"

const DefaultTimezone = "Asia/Kolkata"

// DateLayout is the day-month-year form used at the HTTP boundary and
// inside serialized availability entries.
const DateLayout = "02/01/2006"

// TimeLayout is the HH:MM form used for slot times.
const TimeLayout = "15:04"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

// Today is the start of the current calendar day in the hospital
// timezone. The 7-day booking horizon begins here.
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ParseDate parses a DD/MM/YYYY boundary date into midnight of that
// day in the hospital timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, Location(DefaultTimezone))
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
