package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
)

type PeriodResolverImpl struct{}

func NewPeriodResolver() payroll.PeriodResolver {
	return PeriodResolverImpl{}
}

// StartEndDates returns the payroll period of the given frequency that holds
// date. Monthly and bimonthly periods follow the calendar; the others start on
// date itself.
func (PeriodResolverImpl) StartEndDates(frequency payroll.PayrollFrequency, date time.Time) (payroll.Period, error) {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	switch frequency {
	case payroll.FrequencyMonthly:
		return payroll.Period{Start: monthStart, End: monthEnd}, nil
	case payroll.FrequencyBimonthly:
		if date.Day() <= 15 {
			return payroll.Period{Start: monthStart, End: monthStart.AddDate(0, 0, 14)}, nil
		}
		return payroll.Period{Start: monthStart.AddDate(0, 0, 15), End: monthEnd}, nil
	case payroll.FrequencyFortnightly:
		return payroll.Period{Start: date, End: date.AddDate(0, 0, 13)}, nil
	case payroll.FrequencyWeekly:
		return payroll.Period{Start: date, End: date.AddDate(0, 0, 6)}, nil
	case payroll.FrequencyDaily:
		return payroll.Period{Start: date, End: date}, nil
	}
	return payroll.Period{}, fmt.Errorf("%w: %q", payroll.ErrUnsupportedFrequency, frequency)
}
