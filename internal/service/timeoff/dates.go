package timeoff

import (
	"time"

	"github.com/havenridge/residence-backend-go/internal/pkg/validator"
)

// today returns the current calendar date with no time-of-day component.
// All core dates are timezone-naive; UTC is only the neutral carrier.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(s string) (time.Time, error) {
	return validator.ParseDate(s)
}
