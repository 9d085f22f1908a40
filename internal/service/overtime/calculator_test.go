package overtime

import (
	"testing"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func juneSlip(details ...overtime.Detail) overtime.Slip {
	from, to := date("2024-06-01"), date("2024-06-30")
	return overtime.Slip{
		ID:          "slip-1",
		CompanyID:   testCompanyID,
		EmployeeID:  "emp-1",
		PostingDate: to,
		FromDate:    &from,
		ToDate:      &to,
		Status:      overtime.SlipStatusApproved,
		Details:     details,
	}
}

func detail(day, overtimeType string, hours float64, standardHours *float64) overtime.Detail {
	return overtime.Detail{
		Date:                 date(day),
		OvertimeType:         overtimeType,
		OvertimeHours:        floatPtr(hours),
		StandardWorkingHours: standardHours,
	}
}

func TestCalculation_Resolve_FixedHourlyRate(t *testing.T) {
	f := newFixture(t, defaultOptions())
	delete(f.structures.assignments, "emp-1")

	rt, err := f.svc.newCalculation(juneSlip()).resolve(companyCtx(), detail("2024-06-03", "ot-fixed", 1, nil))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(rt.HourlyRate))
	assert.Equal(t, 0, f.slipBuilder.calls)
}

func TestCalculation_Resolve_SalaryComponentBased(t *testing.T) {
	f := newFixture(t, defaultOptions())
	calc := f.svc.newCalculation(juneSlip())

	// Act
	rt, err := calc.resolve(companyCtx(), detail("2024-06-03", "ot-component", 1, floatPtr(8)))

	// Assert: 3000 / 30 / 8, the additional-salary line and Housing are ignored
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(rt.HourlyRate), "got %s", rt.HourlyRate)
}

func TestCalculation_Resolve_MemoizesPerPass(t *testing.T) {
	f := newFixture(t, defaultOptions())
	f.types.types["ot-component-2"] = componentType("ot-component-2", "Basic Salary", "Housing")
	calc := f.svc.newCalculation(juneSlip())

	first, err := calc.resolve(companyCtx(), detail("2024-06-03", "ot-component", 1, floatPtr(8)))
	require.NoError(t, err)
	again, err := calc.resolve(companyCtx(), detail("2024-06-04", "ot-component", 1, floatPtr(4)))
	require.NoError(t, err)
	other, err := calc.resolve(companyCtx(), detail("2024-06-05", "ot-component-2", 1, floatPtr(8)))
	require.NoError(t, err)

	assert.Same(t, first, again, "standard hours of the first row apply to the whole type")
	assert.Equal(t, 1, f.types.calls["ot-component"])
	assert.Equal(t, 1, f.slipBuilder.calls, "salary slip is generated once per pass")
	assert.True(t, decimal.RequireFromString("15.4167").Equal(other.HourlyRate.Round(4)), "got %s", other.HourlyRate)
}

func TestCalculation_Resolve_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		detail  overtime.Detail
		wantErr error
	}{
		{
			name:    "zero payment days",
			setup:   func(f *fixture) { f.slipBuilder.slip.PaymentDays = 0 },
			detail:  detail("2024-06-03", "ot-component", 1, floatPtr(8)),
			wantErr: overtime.ErrConfiguration,
		},
		{
			name:    "missing standard hours",
			setup:   func(f *fixture) {},
			detail:  detail("2024-06-03", "ot-component", 1, nil),
			wantErr: overtime.ErrConfiguration,
		},
		{
			name:    "zero standard hours",
			setup:   func(f *fixture) {},
			detail:  detail("2024-06-03", "ot-component", 1, floatPtr(0)),
			wantErr: overtime.ErrConfiguration,
		},
		{
			name: "fixed rate not configured",
			setup: func(f *fixture) {
				ot := fixedType("ot-fixed", 0)
				ot.HourlyRate = decimal.Zero
				f.types.types["ot-fixed"] = ot
			},
			detail:  detail("2024-06-03", "ot-fixed", 1, nil),
			wantErr: overtime.ErrConfiguration,
		},
		{
			name: "unknown calculation method",
			setup: func(f *fixture) {
				ot := fixedType("ot-fixed", 0)
				ot.CalculationMethod = "Per Shift"
				f.types.types["ot-fixed"] = ot
			},
			detail:  detail("2024-06-03", "ot-fixed", 1, nil),
			wantErr: overtime.ErrConfiguration,
		},
		{
			name:    "no applicable components",
			setup:   func(f *fixture) { f.types.types["ot-component"] = componentType("ot-component") },
			detail:  detail("2024-06-03", "ot-component", 1, floatPtr(8)),
			wantErr: overtime.ErrNoApplicableComponents,
		},
		{
			name:    "no structure assignment",
			setup:   func(f *fixture) { delete(f.structures.assignments, "emp-1") },
			detail:  detail("2024-06-03", "ot-component", 1, floatPtr(8)),
			wantErr: overtime.ErrNoSalaryStructure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultOptions())
			tt.setup(f)

			_, err := f.svc.newCalculation(juneSlip()).resolve(companyCtx(), tt.detail)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMultiplier(t *testing.T) {
	base := fixedType("ot", 0)
	notWeekend := base
	notWeekend.ApplicableForWeekend = false
	notHoliday := base
	notHoliday.ApplicableForPublicHoliday = false

	tests := []struct {
		name string
		typ  overtime.Type
		day  overtime.DayClass
		want string
	}{
		{"working day", base, overtime.DayClass{}, "1.25"},
		{"weekly off", base, overtime.DayClass{WeeklyOff: true}, "1.5"},
		{"weekly off on type without weekend rate", notWeekend, overtime.DayClass{WeeklyOff: true}, "1.25"},
		{"public holiday", base, overtime.DayClass{PublicHoliday: true}, "2"},
		{"public holiday on type without holiday rate", notHoliday, overtime.DayClass{PublicHoliday: true}, "1.25"},
		{"weekly off flagged as holiday too", notWeekend, overtime.DayClass{WeeklyOff: true, PublicHoliday: true}, "1.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := multiplier(tt.typ, tt.day)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestCalculation_Calculate_AccumulatesPerComponent(t *testing.T) {
	f := newFixture(t, defaultOptions())
	night := fixedType("ot-night", 0)
	night.SalaryComponent = "Night Overtime"
	night.HourlyRate = decimal.NewFromInt(20)
	f.types.types["ot-night"] = night

	slip := juneSlip(
		detail("2024-06-03", "ot-fixed", 2, nil),
		detail("2024-06-02", "ot-fixed", 1, nil),
		detail("2024-06-04", "ot-night", 1, nil),
		overtime.Detail{Date: date("2024-06-05"), OvertimeType: "ot-fixed"},
	)
	holidays := classifyHolidays(f.calendar.dates)

	amounts, err := f.svc.newCalculation(slip).calculate(companyCtx(), holidays)

	require.NoError(t, err)
	assert.Equal(t, []string{"Overtime Allowance", "Night Overtime"}, amounts.order)
	assert.True(t, decimal.NewFromInt(40).Equal(amounts.get("Overtime Allowance")), "got %s", amounts.get("Overtime Allowance"))
	assert.True(t, decimal.NewFromInt(25).Equal(amounts.get("Night Overtime")), "got %s", amounts.get("Night Overtime"))
}

func TestEmitAdditionalSalaries_SkipsNonPositive(t *testing.T) {
	f := newFixture(t, defaultOptions())
	var amounts componentAmounts
	amounts.add("Overtime Allowance", decimal.RequireFromString("33.335"))
	amounts.add("Zero", decimal.Zero)
	amounts.add("Negative", decimal.NewFromInt(-5))
	amounts.add("Dust", decimal.RequireFromString("0.001"))

	err := f.svc.emitAdditionalSalaries(companyCtx(), juneSlip(), amounts)

	require.NoError(t, err)
	require.Len(t, f.additional.salaries, 1)
	assert.Equal(t, "Overtime Allowance", f.additional.salaries[0].SalaryComponent)
	assert.True(t, decimal.RequireFromString("33.34").Equal(f.additional.salaries[0].Amount), "got %s", f.additional.salaries[0].Amount)
}

func TestClassifyHolidays(t *testing.T) {
	m := classifyHolidays([]holiday.Date{
		{Date: date("2024-06-01"), WeeklyOff: true},
		{Date: date("2024-06-17"), WeeklyOff: false},
	})

	assert.Equal(t, overtime.DayClass{WeeklyOff: true}, m.Classify(date("2024-06-01")))
	assert.Equal(t, overtime.DayClass{PublicHoliday: true}, m.Classify(date("2024-06-17")))
	assert.Equal(t, overtime.DayClass{}, m.Classify(date("2024-06-18")))
}
