package schedule

import "time"

// AvailabilityEntry is a doctor's declaration of which sessions are
// offered on one calendar day. The collection is sparse: no entry for a
// date means no sessions offered that day. Collections are always
// replaced wholesale, never patched per day.
type AvailabilityEntry struct {
	Date    time.Time
	Morning bool
	Evening bool
}

// FindEntry returns the entry matching the given day, or nil.
func FindEntry(entries []AvailabilityEntry, day time.Time) *AvailabilityEntry {
	for i := range entries {
		if SameDay(entries[i].Date, day) {
			return &entries[i]
		}
	}
	return nil
}

// SameDay compares two instants by calendar day, ignoring clock time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
