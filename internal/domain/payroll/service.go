package payroll

import (
	"context"
	"time"
)

// PeriodResolver maps a frequency and a date to the payroll period holding it.
type PeriodResolver interface {
	StartEndDates(frequency PayrollFrequency, date time.Time) (Period, error)
}

// SalarySlipGenerator builds an unsaved salary slip from a structure.
type SalarySlipGenerator interface {
	MakeSalarySlip(ctx context.Context, structureID string, employeeID string, postingDate time.Time) (SalarySlip, error)
}
