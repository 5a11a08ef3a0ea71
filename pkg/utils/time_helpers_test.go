package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimeFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"02:30 PM", "2:30 PM"},
		{"09:05 am", "9:05 AM"},
		{"2:30 PM", "2:30 PM"},
		{"12:00 AM", "12:00 AM"},
		{"", ""},
		{"not a time", "not a time"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeTimeFormat(c.in), "input %q", c.in)
	}
}

func TestNormalizeTimeFormat_Idempotent(t *testing.T) {
	inputs := []string{"02:30 PM", "2:30 PM", "12:15 am", "garbage", ""}
	for _, in := range inputs {
		once := NormalizeTimeFormat(in)
		assert.Equal(t, once, NormalizeTimeFormat(once), "input %q", in)
	}
}

func TestExcelTimeToReadable(t *testing.T) {
	// 0.5 of a day is noon, 0.375 is 09:00.
	assert.Equal(t, "12:00 PM", ExcelTimeToReadable(0.5))
	assert.Equal(t, "9:00 AM", ExcelTimeToReadable(0.375))
	assert.Equal(t, "2:30 PM", ExcelTimeToReadable("02:30 PM"))
	assert.Equal(t, "12:00 AM", ExcelTimeToReadable(0.0))
	assert.Equal(t, "", ExcelTimeToReadable(nil))
}

func TestExcelTimeToReadable_MinuteRollover(t *testing.T) {
	// 0.99999 of a day rounds up past :59 and must roll over cleanly.
	got := ExcelTimeToReadable(0.999999)
	assert.Equal(t, "12:00 AM", got)
}

func TestConvertRoundTrip(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 1, 30, 59} {
			in := fmt.Sprintf("%02d:%02d", hour, minute)
			assert.Equal(t, in, Convert12To24Hour(Convert24To12Hour(in)), "24h %q", in)
		}
	}

	twelveHour := []string{"12:00 AM", "1:15 AM", "11:59 AM", "12:00 PM", "2:30 PM", "11:59 PM"}
	for _, in := range twelveHour {
		assert.Equal(t, in, Convert24To12Hour(Convert12To24Hour(in)), "12h %q", in)
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	assert.Equal(t, "", Convert12To24Hour("25:00 PM"))
	assert.Equal(t, "", Convert12To24Hour("lunchtime"))
	assert.Equal(t, "", Convert24To12Hour("24:00"))
	assert.Equal(t, "", Convert24To12Hour(""))
}

func TestParseAppointmentDate(t *testing.T) {
	iso, ok := ParseAppointmentDate("2025-11-13")
	require.True(t, ok)
	assert.Equal(t, 2025, iso.Year())
	assert.Equal(t, time.November, iso.Month())
	assert.Equal(t, 13, iso.Day())

	// First component > 12 forces DD/MM/YYYY.
	slashed, ok := ParseAppointmentDate("13/11/2025")
	require.True(t, ok)
	assert.True(t, iso.Equal(slashed))

	// Second component > 12 forces MM/DD/YYYY.
	mdy, ok := ParseAppointmentDate("11/13/2025")
	require.True(t, ok)
	assert.True(t, iso.Equal(mdy))

	// Ambiguous dates default to DD/MM/YYYY.
	amb, ok := ParseAppointmentDate("03/11/2025")
	require.True(t, ok)
	assert.Equal(t, time.November, amb.Month())
	assert.Equal(t, 3, amb.Day())

	text, ok := ParseAppointmentDate("Nov 13, 2025")
	require.True(t, ok)
	assert.True(t, iso.Equal(text))

	_, ok = ParseAppointmentDate("not a date")
	assert.False(t, ok)
	_, ok = ParseAppointmentDate("31/02/2025")
	assert.False(t, ok)
	_, ok = ParseAppointmentDate("")
	assert.False(t, ok)
}

func TestGenerateTimeSlots(t *testing.T) {
	slots := GenerateTimeSlots(8, 18)
	require.Len(t, slots, 21)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "18:00", slots[len(slots)-1])

	for i := 1; i < len(slots); i++ {
		assert.True(t, slots[i-1] < slots[i], "slots must be strictly increasing")
	}
	// 30-minute spacing throughout.
	for i := 1; i < len(slots); i++ {
		prev, _ := time.Parse("15:04", slots[i-1])
		cur, _ := time.Parse("15:04", slots[i])
		assert.Equal(t, 30*time.Minute, cur.Sub(prev))
	}
}

func TestFormatTimeSlot(t *testing.T) {
	assert.Equal(t, "8:00 AM", FormatTimeSlot("08:00"))
	assert.Equal(t, "12:30 PM", FormatTimeSlot("12:30"))
	assert.Equal(t, "6:00 PM", FormatTimeSlot("18:00"))
}
