package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines the attendance queries overtime processing needs.
type AttendanceRepository interface {
	// ListOvertimeAttendance returns submitted, present-status records of the
	// employee dated within [from, to] that carry a non-empty overtime type.
	ListOvertimeAttendance(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// EmployeesWithOvertime filters employeeIDs down to those of the company
	// having at least one record ListOvertimeAttendance would return.
	EmployeesWithOvertime(ctx context.Context, companyID string, employeeIDs []string, from, to time.Time) ([]string, error)
}
