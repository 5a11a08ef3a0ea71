package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Upstream scheduling data is heterogeneous: manual entry, spreadsheet
// imports and Excel serial fractions all reach these helpers. Every function
// here is total: bad input yields "" (or ok=false), never an error, because
// downstream filters treat the empty result as "unknown, don't match".

var (
	twelveHourRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)
	twentyFourRe  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	slashedDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeTimeFormat strips a single leading zero from the hour of a
// 12-hour time string ("02:30 PM" -> "2:30 PM"). Empty input stays empty;
// anything else passes through untouched.
func NormalizeTimeFormat(t string) string {
	if t == "" {
		return ""
	}
	m := twelveHourRe.FindStringSubmatch(strings.TrimSpace(t))
	if m == nil {
		return t
	}
	hour := strings.TrimPrefix(m[1], "0")
	if hour == "" {
		hour = "0"
	}
	return fmt.Sprintf("%s:%s %s", hour, m[2], strings.ToUpper(m[3]))
}

// ExcelTimeToReadable renders a cell value as a 12-hour time string. Strings
// are passed through NormalizeTimeFormat; numbers are treated as an Excel
// day fraction (0.5 -> "12:00 PM"), rounded to the nearest minute.
func ExcelTimeToReadable(value interface{}) string {
	switch v := value.(type) {
	case string:
		return NormalizeTimeFormat(v)
	case float64:
		return dayFractionToTime(v)
	case float32:
		return dayFractionToTime(float64(v))
	case int:
		return dayFractionToTime(float64(v))
	default:
		return ""
	}
}

func dayFractionToTime(fraction float64) string {
	if fraction < 0 {
		return ""
	}
	totalHours := fraction * 24
	hours := int(totalHours)
	minutes := int(math.Round((totalHours - float64(hours)) * 60))
	if minutes >= 60 {
		minutes -= 60
		hours++
	}
	hours %= 24
	return Convert24To12Hour(fmt.Sprintf("%02d:%02d", hours, minutes))
}

// ParseAppointmentDate parses the date formats seen in uploads and manual
// entry. Supported shapes:
//   - "2025-11-13" (local midnight)
//   - "13/11/2025" / "11/13/2025" — if the first component is > 12 it is the
//     day, if the second is > 12 the first is the month, otherwise DD/MM/YYYY
//     is assumed (upload sources are AU-formatted)
//   - free text like "Nov 13, 2025"
//
// Returns ok=false on anything unparseable; callers exclude those rows from
// date-filtered views.
func ParseAppointmentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, true
	}

	if m := slashedDateRe.FindStringSubmatch(s); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		day, month := first, second
		if first > 12 {
			day, month = first, second
		} else if second > 12 {
			day, month = second, first
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
		if t.Day() != day || t.Month() != time.Month(month) {
			return time.Time{}, false
		}
		return t, true
	}

	textLayouts := []string{
		"Jan 2, 2006",
		"January 2, 2006",
		"2 Jan 2006",
		"2 January 2006",
	}
	for _, layout := range textLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// GenerateTimeSlots produces the "HH:MM" grid slots at 30-minute
// granularity, from startHour:00 through endHour:00 inclusive. There is no
// trailing :30 slot after endHour.
func GenerateTimeSlots(startHour, endHour int) []string {
	if startHour < 0 || endHour > 23 || startHour > endHour {
		return nil
	}
	slots := make([]string, 0, (endHour-startHour)*2+1)
	for hour := startHour; hour <= endHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		if hour < endHour {
			slots = append(slots, fmt.Sprintf("%02d:30", hour))
		}
	}
	return slots
}

// FormatTimeSlot renders a 24-hour grid slot as its 12-hour display label.
func FormatTimeSlot(slot string) string {
	return Convert24To12Hour(slot)
}

// Convert12To24Hour converts "2:30 PM" to "14:30". Returns "" on input that
// does not look like a 12-hour time.
func Convert12To24Hour(t string) string {
	m := twelveHourRe.FindStringSubmatch(strings.TrimSpace(t))
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return ""
	}
	isPM := strings.EqualFold(m[3], "PM")
	if hour == 12 {
		hour = 0
	}
	if isPM {
		hour += 12
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// Convert24To12Hour converts "14:30" to "2:30 PM". The hour carries no
// leading zero, so the output is already in NormalizeTimeFormat's normal
// form. Returns "" on input outside 00:00-23:59.
func Convert24To12Hour(t string) string {
	m := twentyFourRe.FindStringSubmatch(strings.TrimSpace(t))
	if m == nil {
		return ""
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return ""
	}
	period := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		period = "PM"
	case hour > 12:
		hour -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, period)
}
