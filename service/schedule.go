package service

import "time"

// BookingWindowDays is how far ahead of today a venue can be booked.
const BookingWindowDays = 5

func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateAllowed reports whether d falls in [today, today+BookingWindowDays] at
// day precision.
func DateAllowed(d time.Time, today time.Time) bool {
	day := TruncateDate(d)
	start := TruncateDate(today)
	end := start.AddDate(0, 0, BookingWindowDays)
	return !day.Before(start) && !day.After(end)
}

// BookableDates lists every selectable day starting at today.
func BookableDates(today time.Time) []time.Time {
	start := TruncateDate(today)
	dates := make([]time.Time, 0, BookingWindowDays+1)
	for i := 0; i <= BookingWindowDays; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

func IsSameDay(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
