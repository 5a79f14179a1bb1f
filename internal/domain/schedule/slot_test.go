package schedule

import (
	"testing"

	"github.com/medisched/hospital-scheduler/internal/httperr"
)

func TestParseSlot(t *testing.T) {
	if s, err := ParseSlot("morning"); err != nil || s != SlotMorning {
		t.Errorf("morning: got %q, err %v", s, err)
	}
	if s, err := ParseSlot("evening"); err != nil || s != SlotEvening {
		t.Errorf("evening: got %q, err %v", s, err)
	}

	_, err := ParseSlot("midnight")
	if !httperr.IsBusiness(err, "invalid_time_slot") {
		t.Errorf("expected invalid_time_slot, got %v", err)
	}
}

func TestRepresentativeTimeRoundTrip(t *testing.T) {
	// The fixed booking times must classify back into their own window.
	for _, slot := range []Slot{SlotMorning, SlotEvening} {
		got, ok := ClassifySlot(slot.RepresentativeTime())
		if !ok || got != slot {
			t.Errorf("%s: representative time %s classified as (%q, %v)",
				slot, slot.RepresentativeTime(), got, ok)
		}
	}
}

func TestClassifySlotBoundaries(t *testing.T) {
	cases := []struct {
		hhmm string
		slot Slot
		ok   bool
	}{
		{"08:00", SlotMorning, true},
		{"11:59", SlotMorning, true},
		{"12:00", "", false},
		{"15:59", "", false},
		{"16:00", SlotEvening, true},
		{"20:59", SlotEvening, true},
		{"21:00", "", false},
		{"07:59", "", false},
		{"", "", false},
		{"banana", "", false},
	}

	for _, tc := range cases {
		slot, ok := ClassifySlot(tc.hhmm)
		if ok != tc.ok || slot != tc.slot {
			t.Errorf("ClassifySlot(%q) = (%q, %v), want (%q, %v)",
				tc.hhmm, slot, ok, tc.slot, tc.ok)
		}
	}
}
