package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Layouts used at the API boundary.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate parses YYYY-MM-DD into a DATE column value.
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return datatypes.Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return datatypes.Date(t), nil
}

// NewDate builds a DATE value from a calendar day.
func NewDate(year int, month time.Month, day int) datatypes.Date {
	return datatypes.Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// FormatDate renders a DATE as YYYY-MM-DD.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// DaysUntil whole calendar days from today's date to d. Negative once d has passed.
func DaysUntil(d datatypes.Date, now time.Time) int {
	y, m, day := time.Time(d).Date()
	target := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

// ParseClock parses HH:MM into a TIME column value.
func ParseClock(s string) (datatypes.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
}

// FormatClock renders a TIME as HH:MM.
func FormatClock(t datatypes.Time) string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// At combines a DATE and a TIME into an instant in loc.
func At(d datatypes.Date, t datatypes.Time, loc *time.Location) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc).Add(time.Duration(t))
}
