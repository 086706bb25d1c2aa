package pact

import "strings"

// ConvertLayout translates a pact datetime/time/date format string (Java
// SimpleDateFormat-style tokens: yyyy, MM, dd, HH, mm, ss, 'T', XXX) into
// Go's reference-time layout. A format that already looks like a Go layout
// (contains "2006") passes through unchanged, since matching rules and
// generators both accept either convention in practice.
func ConvertLayout(format string) string {
	if strings.Contains(format, "2006") {
		return format
	}
	replacer := strings.NewReplacer(
		"yyyy", "2006", "MM", "01", "dd", "02",
		"HH", "15", "mm", "04", "ss", "05",
		"'T'", "T", "XXX", "Z07:00",
	)
	return replacer.Replace(format)
}
