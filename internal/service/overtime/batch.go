package overtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
)

// FilterEmployeesForOvertimeSlipCreation keeps the employees with overtime
// attendance in the range and no non-cancelled slip overlapping it.
func (s *OvertimeServiceImpl) FilterEmployeesForOvertimeSlipCreation(ctx context.Context, req overtime.EligibleEmployeesRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}

	from, _ := time.Parse(overtime.DateLayout, req.FromDate)
	to, _ := time.Parse(overtime.DateLayout, req.ToDate)

	withOvertime, err := s.attendanceRepo.EmployeesWithOvertime(ctx, companyID, req.EmployeeIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to filter employees with overtime: %w", err)
	}

	eligible := make([]string, 0, len(withOvertime))
	for _, employeeID := range withOvertime {
		overlapping, err := s.slipRepo.FindOverlapping(ctx, employeeID, from, to, "")
		if err != nil {
			return nil, fmt.Errorf("failed to check overlapping slips: %w", err)
		}
		if len(overlapping) == 0 {
			eligible = append(eligible, employeeID)
		}
	}
	return eligible, nil
}

// CreateOvertimeSlipsForEmployees creates one slip per employee, each in its
// own transaction. Failures are recorded and do not stop the batch.
func (s *OvertimeServiceImpl) CreateOvertimeSlipsForEmployees(ctx context.Context, req overtime.BatchCreateRequest) (overtime.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return overtime.BatchResult{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.BatchResult{}, err
	}

	postingDate, _ := time.Parse(overtime.DateLayout, req.PostingDate)
	from, _ := time.Parse(overtime.DateLayout, req.FromDate)
	to, _ := time.Parse(overtime.DateLayout, req.ToDate)

	result := overtime.BatchResult{Created: []string{}, Errors: []overtime.BatchError{}}
	for _, employeeID := range req.EmployeeIDs {
		slipFrom, slipTo := from, to
		slip := overtime.Slip{
			CompanyID:        companyID,
			EmployeeID:       employeeID,
			PostingDate:      postingDate,
			FromDate:         &slipFrom,
			ToDate:           &slipTo,
			PayrollFrequency: req.PayrollFrequency,
			PayrollEntryID:   req.PayrollEntryID,
			Status:           overtime.SlipStatusPending,
			DocStatus:        overtime.DocStatusDraft,
		}

		created, err := s.createBatchSlip(ctx, slip)
		if err != nil {
			slog.Error("Failed to create overtime slip", "employee_id", employeeID, "error", err)
			result.Errors = append(result.Errors, overtime.BatchError{EmployeeID: employeeID, Message: err.Error()})
			continue
		}

		result.SuccessCount++
		result.Created = append(result.Created, created.ID)
	}

	slog.Info("Overtime slip batch created", "success_count", result.SuccessCount, "error_count", len(result.Errors))
	return result, nil
}

func (s *OvertimeServiceImpl) createBatchSlip(ctx context.Context, slip overtime.Slip) (overtime.Slip, error) {
	if _, err := s.getEmployee(ctx, slip.EmployeeID, slip.CompanyID); err != nil {
		return overtime.Slip{}, err
	}
	return s.createSlip(ctx, slip)
}

// SubmitOvertimeSlipsForEmployees submits each slip in its own transaction.
// Failures are recorded and do not stop the batch.
func (s *OvertimeServiceImpl) SubmitOvertimeSlipsForEmployees(ctx context.Context, req overtime.BatchSubmitRequest) (overtime.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return overtime.BatchResult{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.BatchResult{}, err
	}

	result := overtime.BatchResult{Errors: []overtime.BatchError{}}
	for _, slipID := range req.SlipIDs {
		submitted, err := s.submitSlip(ctx, slipID, companyID)
		if err != nil {
			slog.Error("Failed to submit overtime slip", "slip_id", slipID, "error", err)
			result.Errors = append(result.Errors, overtime.BatchError{SlipID: slipID, Message: err.Error()})
			continue
		}
		result.SuccessCount++
		slog.Debug("Overtime slip submitted in batch", "slip_id", slipID, "employee_id", submitted.EmployeeID)
	}

	slog.Info("Overtime slip batch submitted", "success_count", result.SuccessCount, "error_count", len(result.Errors))
	return result, nil
}
