package overtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	"github.com/google/uuid"
)

// processOvertimeSlip computes the slip amounts and emits one submitted
// additional salary per component. It must run inside the submit
// transaction; any failure leaves nothing behind.
func (s *OvertimeServiceImpl) processOvertimeSlip(ctx context.Context, slip overtime.Slip) error {
	holidays, err := s.holidayDateMap(ctx, slip)
	if err != nil {
		return err
	}

	amounts, err := s.newCalculation(slip).calculate(ctx, holidays)
	if err != nil {
		return err
	}

	return s.emitAdditionalSalaries(ctx, slip, amounts)
}

func (s *OvertimeServiceImpl) emitAdditionalSalaries(ctx context.Context, slip overtime.Slip, amounts componentAmounts) error {
	for _, component := range amounts.order {
		amount := amounts.get(component).Round(s.opts.CurrencyPrecision)
		if !amount.IsPositive() {
			continue
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate additional salary id: %w", err)
		}

		created, err := s.additionalSalaryRepo.Create(ctx, payroll.AdditionalSalary{
			ID:                             id.String(),
			CompanyID:                      slip.CompanyID,
			EmployeeID:                     slip.EmployeeID,
			SalaryComponent:                component,
			Amount:                         amount,
			PayrollDate:                    *slip.FromDate,
			OverwriteSalaryStructureAmount: false,
			RefDocType:                     RefDocType,
			RefDocID:                       slip.ID,
			DocStatus:                      payroll.DocStatusSubmitted,
		})
		if err != nil {
			return fmt.Errorf("failed to create additional salary for %s: %w", component, err)
		}

		slog.Info("Additional salary created",
			"additional_salary_id", created.ID,
			"slip_id", slip.ID,
			"salary_component", component,
			"amount", amount.String())
	}
	return nil
}
