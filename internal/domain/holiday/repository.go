package holiday

import (
	"context"
	"time"
)

// Calendar looks up holiday lists.
type Calendar interface {
	// GetListForEmployee returns the employee's holiday list, falling back to
	// the company default.
	GetListForEmployee(ctx context.Context, employeeID string, companyID string) (string, error)

	// HolidayDatesBetween lists holidays of listID within [from, to] inclusive.
	// Weekly offs are left out unless includeWeeklyOff is set.
	HolidayDatesBetween(ctx context.Context, listID string, from, to time.Time, includeWeeklyOff bool) ([]Date, error)
}
