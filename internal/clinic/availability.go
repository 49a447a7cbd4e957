package clinic

import (
	"context"
	"errors"
	"time"
)

// SlotDuration is the fixed length of every booking slot.
const SlotDuration = time.Hour

// slotLayout is the canonical label format. Declared working slots and the
// labels derived from appointment instants must both use it, otherwise the
// subtraction in Availability silently misses.
const slotLayout = "15:04"

// ValidSlotLabel reports whether s is a canonical "HH:MM" label. "9:00" and
// AM/PM forms are rejected at declaration time.
func ValidSlotLabel(s string) bool {
	t, err := time.Parse(slotLayout, s)
	return err == nil && t.Format(slotLayout) == s
}

// SlotLabel derives the canonical label for an appointment instant.
func SlotLabel(t time.Time) string {
	return t.UTC().Format(slotLayout)
}

// Availability returns the doctor's free slot labels for the given calendar
// day: declared working slots minus the ones consumed by appointments inside
// [date 00:00, date+1d 00:00) UTC, declaration order preserved. An unknown
// doctor reads as having no free slots rather than as an error.
func (s *Service) Availability(ctx context.Context, doctorID int64, date time.Time) ([]string, error) {
	doc, err := s.accounts.DoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	booked, err := s.appts.ByDoctorBetween(ctx, doctorID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(booked))
	for _, a := range booked {
		taken[SlotLabel(a.Time)] = true
	}

	free := make([]string, 0, len(doc.AvailableTimes))
	for _, slot := range doc.AvailableTimes {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}
