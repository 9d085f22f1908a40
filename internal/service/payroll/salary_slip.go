package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

type SalarySlipGeneratorImpl struct {
	structureRepo        payroll.StructureRepository
	additionalSalaryRepo payroll.AdditionalSalaryRepository
	periodResolver       payroll.PeriodResolver
}

func NewSalarySlipGenerator(
	structureRepo payroll.StructureRepository,
	additionalSalaryRepo payroll.AdditionalSalaryRepository,
	periodResolver payroll.PeriodResolver,
) payroll.SalarySlipGenerator {
	return &SalarySlipGeneratorImpl{
		structureRepo:        structureRepo,
		additionalSalaryRepo: additionalSalaryRepo,
		periodResolver:       periodResolver,
	}
}

var hundred = decimal.NewFromInt(100)

// MakeSalarySlip computes an unsaved salary slip for the period holding
// postingDate. Submitted additional salaries of that period are appended to
// the earnings with AdditionalSalaryID set.
func (g *SalarySlipGeneratorImpl) MakeSalarySlip(ctx context.Context, structureID string, employeeID string, postingDate time.Time) (payroll.SalarySlip, error) {
	structure, err := g.structureRepo.GetByID(ctx, structureID)
	if err != nil {
		return payroll.SalarySlip{}, err
	}

	assignment, err := g.structureRepo.GetAssignedStructure(ctx, employeeID, postingDate)
	if err != nil {
		return payroll.SalarySlip{}, err
	}
	if assignment.StructureID != structureID {
		return payroll.SalarySlip{}, fmt.Errorf("%w: structure %s is not assigned to employee %s on %s",
			payroll.ErrNoStructureAssigned, structureID, employeeID, postingDate.Format("2006-01-02"))
	}

	period, err := g.periodResolver.StartEndDates(structure.PayrollFrequency, postingDate)
	if err != nil {
		return payroll.SalarySlip{}, err
	}

	slip := payroll.SalarySlip{
		EmployeeID:  employeeID,
		StructureID: structureID,
		Period:      period,
		PaymentDays: period.Days(),
	}

	for _, c := range structure.Components {
		amount := c.Amount
		if c.BasePercent != nil {
			amount = assignment.Base.Mul(*c.BasePercent).Div(hundred)
		}
		detail := payroll.SalaryDetail{SalaryComponent: c.SalaryComponent, Amount: amount}
		if c.Type == payroll.ComponentTypeDeduction {
			slip.Deductions = append(slip.Deductions, detail)
		} else {
			slip.Earnings = append(slip.Earnings, detail)
		}
	}

	additional, err := g.additionalSalaryRepo.ListSubmittedForEmployee(ctx, employeeID, period.Start, period.End)
	if err != nil {
		return payroll.SalarySlip{}, fmt.Errorf("failed to list additional salaries: %w", err)
	}
	for _, a := range additional {
		id := a.ID
		slip.Earnings = append(slip.Earnings, payroll.SalaryDetail{
			SalaryComponent:    a.SalaryComponent,
			Amount:             a.Amount,
			AdditionalSalaryID: &id,
		})
	}

	return slip, nil
}
