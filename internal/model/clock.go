package model

import (
	"fmt"
	"time"
)

// Wall-clock lesson times are kept as zero-padded "HH:MM" strings, the
// same representation the calendar stores. For such strings
// lexicographic order equals chronological order, so range comparisons
// work directly on the strings.

// ParseClock validates an "HH:MM" string and returns minutes since
// midnight. Every position is checked, a leading space or sign would
// break the lexicographic ordering the calendar relies on.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q, want HH:MM", s)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid clock time %q, want HH:MM", s)
		}
	}

	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return h*60 + m, nil
}

// Overlaps reports whether two half-open intervals [start1,end1) and
// [start2,end2) intersect: start1 < end2 && end1 > start2.
// Back-to-back lessons (end1 == start2) do not overlap.
func Overlaps(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// DateOnly truncates a timestamp to its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two timestamps fall on the same calendar date
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
