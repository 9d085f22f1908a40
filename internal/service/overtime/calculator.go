package overtime

import (
	"context"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

// componentAmounts holds accumulated amounts per salary component in the
// order components were first seen.
type componentAmounts struct {
	order   []string
	amounts map[string]decimal.Decimal
}

func (a *componentAmounts) add(component string, amount decimal.Decimal) {
	if a.amounts == nil {
		a.amounts = make(map[string]decimal.Decimal)
	}
	current, ok := a.amounts[component]
	if !ok {
		a.order = append(a.order, component)
	}
	a.amounts[component] = current.Add(amount)
}

func (a *componentAmounts) get(component string) decimal.Decimal {
	return a.amounts[component]
}

// multiplier picks the rate multiplier for a day. A weekly off only counts
// as a weekend when the type applies to weekends; public holidays likewise.
// Anything else, including a weekly off the type does not cover, is a
// standard day.
func multiplier(t overtime.Type, day overtime.DayClass) decimal.Decimal {
	switch {
	case day.WeeklyOff && t.ApplicableForWeekend:
		return t.WeekendMultiplier
	case day.PublicHoliday && !day.WeeklyOff && t.ApplicableForPublicHoliday:
		return t.PublicHolidayMultiplier
	default:
		return t.StandardMultiplier
	}
}

// calculate accumulates hours x rate x multiplier per overtime salary
// component over every detail row with a duration.
func (c *calculation) calculate(ctx context.Context, holidays overtime.HolidayDateMap) (componentAmounts, error) {
	var result componentAmounts
	for _, d := range c.slip.Details {
		if d.OvertimeHours == nil {
			continue
		}

		rt, err := c.resolve(ctx, d)
		if err != nil {
			return componentAmounts{}, err
		}

		m := multiplier(rt.Type, holidays.Classify(d.Date))
		amount := decimal.NewFromFloat(*d.OvertimeHours).Mul(rt.HourlyRate).Mul(m)
		result.add(rt.SalaryComponent, amount)
	}
	return result, nil
}
