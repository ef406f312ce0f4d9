// Package normalize converts free-text slot values (clock times, relative
// dates, quantities, city names, ticket codes) into their canonical forms.
// Everything here is a pure function so it can run inside the orchestrator's
// critical section.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	timePattern       = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\d{1,2}h(?:\s*sáng|\s*chiều|\s*tối)?`)
	datePattern       = regexp.MustCompile(`(?i)ngày mai|hôm nay|mai|\d{1,2}/\d{1,2}`)
	isoDatePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	ticketCodePattern = regexp.MustCompile(`[A-Z]{2,3}\d{6,}`)
	cityPattern       = regexp.MustCompile(`(?i)hà nội|sài gòn|đà nẵng|hồ chí minh|huế|cần thơ|hải phòng`)
	numberPattern     = regexp.MustCompile(`\d+`)
	hourHPattern      = regexp.MustCompile(`^(\d{1,2})h`)
)

// Time canonicalizes "9h", "9", "9:5", "14:00" into zero-padded "HH:MM".
// The "sáng" (AM) qualifier is stripped; no PM inference is done beyond the
// literal digits, so "2" always becomes "02:00". Inputs with no recognizable
// time shape are returned trimmed and lowercased.
func Time(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// "9h" / "9h sáng" -> "09:00". The AM qualifier is dropped; qualifiers
	// never shift the hour, callers must use 24-hour digits for PM.
	if m := hourHPattern.FindStringSubmatch(s); m != nil && !strings.Contains(s, ":") {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:00", hour)
	}

	// bare hour "9" -> "9:00"
	if !strings.Contains(s, ":") {
		if hour, err := strconv.Atoi(s); err == nil {
			return fmt.Sprintf("%02d:00", hour)
		}
		return s
	}

	parts := strings.SplitN(s, ":", 2)
	hour, errH := strconv.Atoi(strings.TrimSpace(parts[0]))
	minute, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errH != nil || errM != nil {
		return s
	}
	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// FindTime returns the first time-looking fragment in the text.
func FindTime(s string) (string, bool) {
	m := timePattern.FindString(s)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}

// FindDate returns the first date-looking fragment ("ngày mai", "hôm nay",
// "mai", "5/9") in the text.
func FindDate(s string) (string, bool) {
	m := datePattern.FindString(s)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}

// Date resolves relative and numeric date text against the given clock:
// "ngày mai"/"mai" is tomorrow, "hôm nay" is today, "DD/MM" uses the current
// year. Already-canonical "YYYY-MM-DD" passes through; anything else is
// returned trimmed so the inventory lookup can fail it naturally.
func Date(s string, now time.Time) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(s, "ngày mai"), s == "mai":
		return now.AddDate(0, 0, 1).Format("2006-01-02")
	case strings.Contains(s, "hôm nay"):
		return now.Format("2006-01-02")
	case isoDatePattern.MatchString(s):
		return s
	}
	if strings.Contains(s, "/") {
		parts := strings.SplitN(s, "/", 2)
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errD == nil && errM == nil {
			return fmt.Sprintf("%d-%02d-%02d", now.Year(), month, day)
		}
	}
	return s
}

// Quantity extracts the first integer in the text, defaulting to 1. It
// accepts both raw answers ("2") and the canonical stored form ("2 vé").
func Quantity(s string) int {
	m := numberPattern.FindString(s)
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// CanonicalQuantity renders the stored slot form, e.g. "2 vé".
func CanonicalQuantity(n int) string {
	return fmt.Sprintf("%d vé", n)
}

// MatchCity matches the text against the closed set of known cities,
// case-insensitively, returning the lowercase canonical name.
func MatchCity(s string) (string, bool) {
	m := cityPattern.FindString(strings.ToLower(s))
	if m == "" {
		return "", false
	}
	return m, true
}

// FindTicketCode matches the ticket-code shape: 2-3 uppercase letters
// followed by at least six digits.
func FindTicketCode(s string) (string, bool) {
	m := ticketCodePattern.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}
