package schedule

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildWeekCalendar_NoDeclarations(t *testing.T) {
	today := day(2025, time.November, 27)

	days := BuildWeekCalendar(today, nil, []Booking{
		{Date: today, Time: MorningTime},
	})

	if len(days) != HorizonDays {
		t.Fatalf("expected %d days, got %d", HorizonDays, len(days))
	}

	for i, d := range days {
		if d.MorningAvailable || d.EveningAvailable {
			t.Errorf("day %d: expected no availability without declarations", i)
		}
	}

	// Booking occupancy is still reported even without a declaration.
	if !days[0].MorningBooked {
		t.Errorf("expected morning booked on day 0")
	}
}

func TestBuildWeekCalendar_DeclaredAndFree(t *testing.T) {
	today := day(2025, time.November, 27)
	entries := []AvailabilityEntry{
		{Date: today, Morning: true, Evening: false},
	}

	days := BuildWeekCalendar(today, entries, nil)

	if !days[0].MorningAvailable {
		t.Errorf("declared free morning should be available")
	}
	if days[0].EveningAvailable {
		t.Errorf("undeclared evening should not be available")
	}
	if days[0].MorningBooked || days[0].EveningBooked {
		t.Errorf("no bookings expected")
	}
}

func TestBuildWeekCalendar_BookingClosesSlot(t *testing.T) {
	today := day(2025, time.November, 27)
	entries := []AvailabilityEntry{
		{Date: today, Morning: true, Evening: true},
	}

	days := BuildWeekCalendar(today, entries, []Booking{
		{Date: today, Time: MorningTime},
	})

	if days[0].MorningAvailable {
		t.Errorf("booked morning must not be available")
	}
	if !days[0].MorningBooked {
		t.Errorf("morning should be marked booked")
	}
	if !days[0].EveningAvailable {
		t.Errorf("evening should stay available")
	}
}

func TestBuildWeekCalendar_ClassifiesAnyTimeInWindow(t *testing.T) {
	// A booking recorded at any instant inside a window occupies that
	// window, not just the representative time.
	today := day(2025, time.November, 27)
	entries := []AvailabilityEntry{
		{Date: today, Morning: true, Evening: true},
	}

	days := BuildWeekCalendar(today, entries, []Booking{
		{Date: today, Time: "09:30"},
		{Date: today, Time: "20:59"},
	})

	if !days[0].MorningBooked || !days[0].EveningBooked {
		t.Errorf("expected both windows booked, got morning=%v evening=%v",
			days[0].MorningBooked, days[0].EveningBooked)
	}
}

func TestBuildWeekCalendar_HorizonOrderAndDates(t *testing.T) {
	today := day(2025, time.November, 27)

	days := BuildWeekCalendar(today, nil, nil)

	for i, d := range days {
		want := today.AddDate(0, 0, i)
		if !SameDay(d.Date, want) {
			t.Errorf("day %d: expected %v, got %v", i, want, d.Date)
		}
	}
}

func TestBuildWeekCalendar_EntryOutsideHorizonIgnored(t *testing.T) {
	today := day(2025, time.November, 27)
	entries := []AvailabilityEntry{
		{Date: today.AddDate(0, 0, 10), Morning: true, Evening: true},
	}

	days := BuildWeekCalendar(today, entries, nil)

	for i, d := range days {
		if d.MorningAvailable || d.EveningAvailable {
			t.Errorf("day %d: declaration outside horizon must not apply", i)
		}
	}
}

func TestBuildWeekCalendar_BookingOtherDayDoesNotLeak(t *testing.T) {
	today := day(2025, time.November, 27)
	entries := []AvailabilityEntry{
		{Date: today, Morning: true, Evening: true},
		{Date: today.AddDate(0, 0, 1), Morning: true, Evening: true},
	}

	days := BuildWeekCalendar(today, entries, []Booking{
		{Date: today.AddDate(0, 0, 1), Time: MorningTime},
	})

	if days[0].MorningBooked {
		t.Errorf("booking on day 1 must not mark day 0")
	}
	if days[1].MorningAvailable {
		t.Errorf("day 1 morning should be closed by its booking")
	}
}
