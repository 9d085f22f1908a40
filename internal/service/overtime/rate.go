package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// calculation holds the per-slip state of one processing pass. Resolved
// types and the generated salary slip are computed at most once.
type calculation struct {
	svc        *OvertimeServiceImpl
	slip       overtime.Slip
	types      *typeCache
	resolved   map[string]*overtime.ResolvedType
	salarySlip *payroll.SalarySlip
}

func (s *OvertimeServiceImpl) newCalculation(slip overtime.Slip) *calculation {
	return &calculation{
		svc:      s,
		slip:     slip,
		types:    newTypeCache(s.typeRepo, slip.CompanyID),
		resolved: make(map[string]*overtime.ResolvedType),
	}
}

// resolve returns the type of detail with its hourly rate. For component
// based types the standard working hours of the first row seen for that type
// apply to every row of it.
func (c *calculation) resolve(ctx context.Context, detail overtime.Detail) (*overtime.ResolvedType, error) {
	if rt, ok := c.resolved[detail.OvertimeType]; ok {
		return rt, nil
	}

	t, err := c.types.get(ctx, detail.OvertimeType)
	if err != nil {
		return nil, err
	}

	var rate decimal.Decimal
	switch t.CalculationMethod {
	case overtime.CalculationMethodFixedHourlyRate:
		if !t.HourlyRate.IsPositive() {
			return nil, &overtime.ConfigurationError{OvertimeType: t.Name, Reason: "hourly rate must be greater than zero"}
		}
		rate = t.HourlyRate

	case overtime.CalculationMethodSalaryComponentBased:
		if len(t.ApplicableComponents) == 0 {
			return nil, fmt.Errorf("%w: %s", overtime.ErrNoApplicableComponents, t.Name)
		}
		rate, err = c.componentHourlyRate(ctx, t, detail)
		if err != nil {
			return nil, err
		}

	default:
		return nil, &overtime.ConfigurationError{
			OvertimeType: t.Name,
			Reason:       fmt.Sprintf("unknown calculation method %q", t.CalculationMethod),
		}
	}

	rt := &overtime.ResolvedType{Type: t, HourlyRate: rate}
	c.resolved[detail.OvertimeType] = rt
	return rt, nil
}

func (c *calculation) componentHourlyRate(ctx context.Context, t overtime.Type, detail overtime.Detail) (decimal.Decimal, error) {
	slip, err := c.getSalarySlip(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	applicable := make(map[string]struct{}, len(t.ApplicableComponents))
	for _, name := range t.ApplicableComponents {
		applicable[name] = struct{}{}
	}

	total := decimal.Zero
	for _, e := range slip.Earnings {
		if e.AdditionalSalaryID != nil {
			continue
		}
		if _, ok := applicable[e.SalaryComponent]; ok {
			total = total.Add(e.Amount)
		}
	}

	if slip.PaymentDays <= 0 {
		return decimal.Zero, &overtime.ConfigurationError{OvertimeType: t.Name, Reason: "salary slip has no payment days"}
	}
	if detail.StandardWorkingHours == nil || *detail.StandardWorkingHours <= 0 {
		return decimal.Zero, &overtime.ConfigurationError{
			OvertimeType: t.Name,
			Reason:       "standard working hours are missing for " + detail.Date.Format(overtime.DateLayout),
		}
	}

	daily := total.Div(decimal.NewFromInt(int64(slip.PaymentDays)))
	return daily.Div(decimal.NewFromFloat(*detail.StandardWorkingHours)), nil
}

// getSalarySlip generates the employee's salary slip for the period start
// once per pass.
func (c *calculation) getSalarySlip(ctx context.Context) (*payroll.SalarySlip, error) {
	if c.salarySlip != nil {
		return c.salarySlip, nil
	}

	assignment, err := c.svc.structureRepo.GetAssignedStructure(ctx, c.slip.EmployeeID, *c.slip.FromDate)
	if err != nil {
		if errors.Is(err, payroll.ErrNoStructureAssigned) {
			return nil, fmt.Errorf("%w: %s", overtime.ErrNoSalaryStructure, c.slip.EmployeeID)
		}
		return nil, fmt.Errorf("failed to get salary structure assignment: %w", err)
	}

	slip, err := c.svc.slipGenerator.MakeSalarySlip(ctx, assignment.StructureID, c.slip.EmployeeID, *c.slip.FromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salary slip: %w", err)
	}

	slog.Debug("Salary slip generated for overtime rate", "slip_id", c.slip.ID, "structure_id", assignment.StructureID, "payment_days", slip.PaymentDays)
	c.salarySlip = &slip
	return c.salarySlip, nil
}
