package service

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FormatRupiah renders an amount with Indonesian thousands separators, e.g.
// "Rp 2.500.000".
func FormatRupiah(amount int64) string {
	return "Rp " + rupiahPrinter.Sprintf("%d", amount)
}

// FormatMillions renders dashboard revenue figures, e.g. "Rp 203.7M".
func FormatMillions(amount int64) string {
	return fmt.Sprintf("Rp %.1fM", float64(amount)/1_000_000)
}

// FormatLongDate renders "02 Januari 2006".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%02d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}

// FormatCountdown renders a duration as HH:MM:SS, clamping negatives to zero.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
