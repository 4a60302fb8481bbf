// Package render holds the HTML templates and the helpers they call.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/datatypes"

	"appliance-manager/internal/calendar"
	"appliance-manager/internal/model"
	"appliance-manager/internal/parse"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page and fragment. Templates are addressed by file
// name, e.g. "property.html".
func Templates() (*template.Template, error) {
	t, err := template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return t, nil
}

// FuncMap returns the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatSnakeCase":    FormatSnakeCase,
		"multiply":           Multiply,
		"nextAvailableDates": NextAvailableDates,
		"parseDate":          ParseDate,
		"usageClass":         UsageClass,
		"pct":                Percent,
		"date":               FormatDate,
		"dict":               Dict,
		"deref":              Deref,
	}
}

var title = cases.Title(language.Und)

// FormatSnakeCase turns "WASHING_MACHINE" into "Washing Machine".
func FormatSnakeCase(v any) string {
	return title.String(strings.ReplaceAll(fmt.Sprint(v), "_", " "))
}

// Multiply returns value*arg, or "" when either is not a number.
func Multiply(value, arg any) any {
	a, okA := toFloat(value)
	b, okB := toFloat(arg)
	if !okA || !okB {
		return ""
	}
	return a * b
}

// NextAvailableDates returns the first count bookable cells; count defaults to 3.
func NextAvailableDates(cells []calendar.Cell, count ...int) []calendar.Cell {
	n := 3
	if len(count) > 0 {
		n = count[0]
	}
	return calendar.NextAvailable(cells, n)
}

// ParseDate parses "YYYY-MM-DD" and returns nil on failure.
func ParseDate(s string) *time.Time {
	t, err := parse.Date(s)
	if err != nil {
		return nil
	}
	return &t
}

// UsageClass is the text colour class for a usage badge.
func UsageClass(u model.Usage) string {
	return u.TextClass()
}

// Percent formats a 0..1 score as a whole percentage.
func Percent(score float64) string {
	return strconv.Itoa(int(score*100+0.5)) + "%"
}

// FormatDate renders dates the way the pages show them, e.g. "Oct 16, 2026".
func FormatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("Jan 2, 2006")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	case datatypes.Date:
		return time.Time(t).Format("Jan 2, 2006")
	}
	return fmt.Sprint(v)
}

// Dict builds a map from alternating keys and values for sub-templates.
func Dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Deref prints an optional string, or "" when nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
