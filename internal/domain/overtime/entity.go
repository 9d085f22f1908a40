package overtime

import (
	"time"

	"github.com/shopspring/decimal"
)

// SlipStatus is the approval state chosen by the reviewer.
type SlipStatus string

const (
	SlipStatusPending  SlipStatus = "Pending"
	SlipStatusApproved SlipStatus = "Approved"
	SlipStatusRejected SlipStatus = "Rejected"
)

func (s SlipStatus) IsValid() bool {
	switch s {
	case SlipStatusPending, SlipStatusApproved, SlipStatusRejected:
		return true
	}
	return false
}

// DocStatus is the document lifecycle state. Ordering matters: overlap checks
// consider every slip whose DocStatus is below DocStatusCancelled.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

func (d DocStatus) String() string {
	switch d {
	case DocStatusDraft:
		return "draft"
	case DocStatusSubmitted:
		return "submitted"
	case DocStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Slip aggregates one employee's overtime over a payroll period.
type Slip struct {
	ID                 string
	CompanyID          string
	EmployeeID         string
	PostingDate        time.Time
	FromDate           *time.Time
	ToDate             *time.Time
	PayrollFrequency   *string
	PayrollEntryID     *string
	Status             SlipStatus
	DocStatus          DocStatus
	Details            []Detail
	TotalOvertimeHours float64
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Joined fields
	EmployeeName *string
}

// HasDateRange reports whether both ends of the period are set.
func (s *Slip) HasDateRange() bool {
	return s.FromDate != nil && s.ToDate != nil
}

// Detail is one dated overtime entry of a slip.
type Detail struct {
	ID                    string
	SlipID                string
	Date                  time.Time
	OvertimeType          string
	OvertimeHours         *float64
	ReferenceAttendanceID *string
	StandardWorkingHours  *float64
}

type CalculationMethod string

const (
	CalculationMethodFixedHourlyRate      CalculationMethod = "Fixed Hourly Rate"
	CalculationMethodSalaryComponentBased CalculationMethod = "Salary Component Based"
)

// Type is the overtime type configuration. It is owned by HR setup and only
// read by slip processing.
type Type struct {
	ID                         string
	CompanyID                  string
	Name                       string
	StandardMultiplier         decimal.Decimal
	WeekendMultiplier          decimal.Decimal
	PublicHolidayMultiplier    decimal.Decimal
	ApplicableForWeekend       bool
	ApplicableForPublicHoliday bool
	CalculationMethod          CalculationMethod
	HourlyRate                 decimal.Decimal
	MaximumHours               float64
	SalaryComponent            string
	ApplicableComponents       []string
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// DayClass flags how a date is treated by the holiday calendar.
type DayClass struct {
	WeeklyOff     bool
	PublicHoliday bool
}

// HolidayDateMap is keyed by "2006-01-02".
type HolidayDateMap map[string]DayClass

func (m HolidayDateMap) Classify(date time.Time) DayClass {
	return m[date.Format(DateLayout)]
}

// DateLayout is the wire and map-key format for calendar dates.
const DateLayout = "2006-01-02"

// ResolvedType is an overtime type with the hourly rate applicable to one slip.
type ResolvedType struct {
	Type
	HourlyRate decimal.Decimal
}

// BatchResult reports the outcome of a best-effort batch operation.
type BatchResult struct {
	SuccessCount int          `json:"success_count"`
	Created      []string     `json:"created,omitempty"`
	Errors       []BatchError `json:"errors,omitempty"`
}

type BatchError struct {
	EmployeeID string `json:"employee_id,omitempty"`
	SlipID     string `json:"slip_id,omitempty"`
	Message    string `json:"message"`
}
