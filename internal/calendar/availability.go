// Package calendar builds the month grid used to pick a replacement slot.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonth is returned for a year/month outside the calendar.
var ErrInvalidMonth = errors.New("invalid year/month")

const (
	// GridColumns is the number of weekday columns; column 0 is Sunday.
	GridColumns = 7

	monthLayout = "2006-01"
)

// Hours and minutes offered on every bookable day.
var (
	candidateHours   = []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	candidateMinutes = []int{0, 15, 30, 45}
)

// Cell is one square of the grid. Placeholders have an empty Date.
type Cell struct {
	Date             string
	Day              int
	IsAvailable      bool
	AvailableHours   []int
	AvailableMinutes []int
}

// IsPlaceholder reports whether the cell only pads the grid.
func (c Cell) IsPlaceholder() bool { return c.Date == "" }

// MarshalJSON renders placeholders with an empty "day", matching the calendar widget.
func (c Cell) MarshalJSON() ([]byte, error) {
	var day any = c.Day
	if c.IsPlaceholder() {
		day = ""
	}
	return json.Marshal(struct {
		Date             string `json:"date"`
		Day              any    `json:"day"`
		IsAvailable      bool   `json:"is_available"`
		AvailableHours   []int  `json:"available_hours"`
		AvailableMinutes []int  `json:"available_minutes"`
	}{c.Date, day, c.IsAvailable, c.AvailableHours, c.AvailableMinutes})
}

// Availability is a full month grid plus navigation labels.
type Availability struct {
	Dates        []Cell    `json:"dates"`
	CurrentMonth time.Time `json:"current_month"`
	MonthName    string    `json:"month_name"`
	PrevMonth    string    `json:"prev_month"`
	NextMonth    string    `json:"next_month"`
}

// MarshalJSON writes current_month as a plain date.
func (a Availability) MarshalJSON() ([]byte, error) {
	type plain Availability
	return json.Marshal(struct {
		plain
		CurrentMonth string `json:"current_month"`
	}{plain(a), a.CurrentMonth.Format(time.DateOnly)})
}

// Weeks splits the grid into rows of GridColumns cells.
func (a Availability) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(a.Dates)/GridColumns)
	for i := 0; i < len(a.Dates); i += GridColumns {
		end := min(i+GridColumns, len(a.Dates))
		weeks = append(weeks, a.Dates[i:end])
	}
	return weeks
}

// Current returns the grid for the month containing today.
func Current(today time.Time) Availability {
	a, _ := Month(today.Year(), int(today.Month()), today)
	return a
}

// Month returns the grid for the given year and month. Days strictly after
// today that fall Monday to Friday are bookable.
func Month(year, month int, today time.Time) (Availability, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return Availability{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidMonth, year, month)
	}

	todayDate := dateOnly(today)
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	leading := column(firstDay)
	trailing := GridColumns - 1 - column(lastDay)
	cells := make([]Cell, 0, leading+lastDay.Day()+trailing)

	for i := 0; i < leading; i++ {
		cells = append(cells, placeholder())
	}

	for d := firstDay; !d.After(lastDay); d = d.AddDate(0, 0, 1) {
		col := column(d)
		available := d.After(todayDate) && col != 0 && col != 6
		cell := Cell{
			Date:             d.Format(time.DateOnly),
			Day:              d.Day(),
			IsAvailable:      available,
			AvailableHours:   []int{},
			AvailableMinutes: []int{},
		}
		if available {
			cell.AvailableHours = append(cell.AvailableHours, candidateHours...)
			cell.AvailableMinutes = append(cell.AvailableMinutes, candidateMinutes...)
		}
		cells = append(cells, cell)
	}

	for i := 0; i < trailing; i++ {
		cells = append(cells, placeholder())
	}

	return Availability{
		Dates:        cells,
		CurrentMonth: firstDay,
		MonthName:    firstDay.Format("January 2006"),
		PrevMonth:    firstDay.AddDate(0, 0, -1).Format(monthLayout),
		NextMonth:    lastDay.AddDate(0, 0, 1).Format(monthLayout),
	}, nil
}

// NextAvailable returns up to n bookable cells in grid order.
func NextAvailable(cells []Cell, n int) []Cell {
	n = max(n, 0)
	out := make([]Cell, 0, n)
	for _, c := range cells {
		if len(out) == n {
			break
		}
		if c.IsAvailable {
			out = append(out, c)
		}
	}
	return out
}

// column maps a Monday-first weekday index to a Sunday-first column
// (Sunday=0 … Saturday=6).
func column(d time.Time) int {
	return (isoWeekday(d) + 1) % GridColumns
}

// isoWeekday returns the Monday-first weekday index (Monday=0 … Sunday=6).
func isoWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

func placeholder() Cell {
	return Cell{AvailableHours: []int{}, AvailableMinutes: []int{}}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
