package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Leave type codes: 2-16 chars, uppercase letters, digits, underscore.
var leaveTypeCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,15}$`)

// IsValidLeaveTypeCode validates an already-normalized (uppercased) code.
func IsValidLeaveTypeCode(code string) bool {
	return leaveTypeCodeRegex.MatchString(code)
}

// DateLayout is the only date format the service speaks. Dates are calendar
// dates with no time-of-day or timezone component; never convert them.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" string into a timezone-naive date.
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateLayout, dateStr)
}

// IsValidDate reports whether dateStr is a well-formed "YYYY-MM-DD" date.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := ParseDate(dateStr)
	return date, err == nil
}

// FormatDate renders a date back to "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// IsInSlice reports whether value occurs in slice.
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
