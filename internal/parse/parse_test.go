package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{name: "Dashes and trailing space", raw: "123-456-7890 ", expected: "1234567890"},
		{name: "Formatted with country code", raw: "+1 (555) 010-9999", expected: "15550109999"},
		{name: "Blank is allowed", raw: "   ", expected: ""},
		{name: "Too short", raw: "12345", expectErr: true},
		{name: "Letters only", raw: "call me", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			phone, err := Phone(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrPhoneTooShort)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, phone)
			}
		})
	}
}

func TestWarrantyDuration(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int
		expectErr bool
	}{
		{name: "Bare number", raw: "365", expected: 365},
		{name: "Days suffix", raw: "90 days", expected: 90},
		{name: "Single day", raw: "1 day", expected: 1},
		{name: "Clock form", raw: "730 00:00:00", expected: 730},
		{name: "Clock form with day word", raw: "2 days, 12:30:00", expected: 2},
		{name: "ISO days", raw: "P30D", expected: 30},
		{name: "ISO weeks", raw: "P2W", expected: 14},
		{name: "ISO year", raw: "P1Y", expected: 365},
		{name: "Negative passes through", raw: "-3 days", expected: -3},
		{name: "Negative ISO", raw: "-P5D", expected: -5},
		{name: "Empty", raw: "", expectErr: true},
		{name: "Bare P", raw: "P", expectErr: true},
		{name: "Garbage", raw: "forever", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			days, err := WarrantyDuration(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, days)
			}
		})
	}
}

func TestYearMonth(t *testing.T) {
	year, month, ok := YearMonth("2026", "11")
	assert.True(t, ok)
	assert.Equal(t, 2026, year)
	assert.Equal(t, 11, month)

	// Out-of-range months are passed on for the calendar to reject.
	_, month, ok = YearMonth("2026", "13")
	assert.True(t, ok)
	assert.Equal(t, 13, month)

	for _, tc := range [][2]string{{"", "5"}, {"2026", ""}, {"undefined", "5"}, {"2026", "undefined"}, {"abc", "1"}, {"2026", "0"}} {
		_, _, ok := YearMonth(tc[0], tc[1])
		assert.False(t, ok, "%q/%q", tc[0], tc[1])
	}
}

func TestDate(t *testing.T) {
	d, err := Date(" 2026-10-17 ")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), d)

	_, err = Date("17/10/2026")
	assert.Error(t, err)
}
