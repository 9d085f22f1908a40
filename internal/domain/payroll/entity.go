package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollFrequency enum
type PayrollFrequency string

const (
	FrequencyMonthly     PayrollFrequency = "Monthly"
	FrequencyFortnightly PayrollFrequency = "Fortnightly"
	FrequencyBimonthly   PayrollFrequency = "Bimonthly"
	FrequencyWeekly      PayrollFrequency = "Weekly"
	FrequencyDaily       PayrollFrequency = "Daily"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "earning"
	ComponentTypeDeduction ComponentType = "deduction"
)

// Period is an inclusive payroll period.
type Period struct {
	Start time.Time
	End   time.Time
}

// Days counts calendar days in the period, both ends included.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// SalaryStructure - Template of earnings and deductions
type SalaryStructure struct {
	ID               string
	CompanyID        string
	Name             string
	PayrollFrequency PayrollFrequency
	Components       []StructureComponent
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StructureComponent is a fixed amount, or a percentage of the assignment
// base when BasePercent is set.
type StructureComponent struct {
	SalaryComponent string
	Type            ComponentType
	Amount          decimal.Decimal
	BasePercent     *decimal.Decimal
}

// StructureAssignment - Structure assigned to an employee from a date
type StructureAssignment struct {
	ID          string
	EmployeeID  string
	StructureID string
	CompanyID   string
	FromDate    time.Time
	Base        decimal.Decimal
}

// SalaryDetail is one earning line of a generated salary slip.
type SalaryDetail struct {
	SalaryComponent    string
	Amount             decimal.Decimal
	AdditionalSalaryID *string
}

// SalarySlip is a computed, unsaved salary slip.
type SalarySlip struct {
	EmployeeID  string
	StructureID string
	Period      Period
	PaymentDays int
	Earnings    []SalaryDetail
	Deductions  []SalaryDetail
}

type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// AdditionalSalary - Payroll adjustment outside the salary structure
type AdditionalSalary struct {
	ID                             string
	CompanyID                      string
	EmployeeID                     string
	SalaryComponent                string
	Amount                         decimal.Decimal
	PayrollDate                    time.Time
	OverwriteSalaryStructureAmount bool
	RefDocType                     string
	RefDocID                       string
	DocStatus                      DocStatus
	CreatedAt                      time.Time
	UpdatedAt                      time.Time
}
