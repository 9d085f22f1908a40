package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
)

type OvertimeJobs struct {
	overtimeSvc  overtime.Service
	employeeRepo employee.EmployeeRepository
	interval     time.Duration
	now          func() time.Time
}

func NewOvertimeJobs(overtimeSvc overtime.Service, employeeRepo employee.EmployeeRepository, interval time.Duration) *OvertimeJobs {
	return &OvertimeJobs{
		overtimeSvc:  overtimeSvc,
		employeeRepo: employeeRepo,
		interval:     interval,
		now:          time.Now,
	}
}

func (j *OvertimeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("create_overtime_slips_for_closed_periods", j.interval, j.CreateSlipsForClosedPeriods)
}

// previousMonth returns the last fully closed calendar month before now.
func previousMonth(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return currentStart.AddDate(0, -1, 0), currentStart.AddDate(0, 0, -1)
}

// CreateSlipsForClosedPeriods creates draft slips for the previous month for
// every employee with overtime attendance and no slip covering it yet.
// Running it again is harmless: covered employees are filtered out.
func (j *OvertimeJobs) CreateSlipsForClosedPeriods(ctx context.Context) error {
	from, to := previousMonth(j.now())
	fromStr, toStr := from.Format(overtime.DateLayout), to.Format(overtime.DateLayout)

	slog.Info("Cron: Starting overtime slip creation", "from_date", fromStr, "to_date", toStr)

	companyIDs, err := j.employeeRepo.GetActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get active companies: %w", err)
	}

	totalCreated := 0
	for _, companyID := range companyIDs {
		companyCtx := overtime.ContextWithCompany(ctx, companyID)

		employees, err := j.employeeRepo.GetActiveByCompanyID(companyCtx, companyID)
		if err != nil {
			slog.Error("Cron: Failed to get employees", "company_id", companyID, "error", err)
			continue
		}
		if len(employees) == 0 {
			continue
		}

		employeeIDs := make([]string, 0, len(employees))
		for _, emp := range employees {
			employeeIDs = append(employeeIDs, emp.ID)
		}

		eligible, err := j.overtimeSvc.FilterEmployeesForOvertimeSlipCreation(companyCtx, overtime.EligibleEmployeesRequest{
			FromDate:    fromStr,
			ToDate:      toStr,
			EmployeeIDs: employeeIDs,
		})
		if err != nil {
			slog.Error("Cron: Failed to filter employees for overtime", "company_id", companyID, "error", err)
			continue
		}
		if len(eligible) == 0 {
			continue
		}

		result, err := j.overtimeSvc.CreateOvertimeSlipsForEmployees(companyCtx, overtime.BatchCreateRequest{
			EmployeeIDs: eligible,
			PostingDate: toStr,
			FromDate:    fromStr,
			ToDate:      toStr,
		})
		if err != nil {
			slog.Error("Cron: Failed to create overtime slips", "company_id", companyID, "error", err)
			continue
		}

		for _, e := range result.Errors {
			slog.Warn("Cron: Overtime slip not created", "company_id", companyID, "employee_id", e.EmployeeID, "reason", e.Message)
		}
		totalCreated += result.SuccessCount
	}

	slog.Info("Cron: Created overtime slips", "count", totalCreated)
	return nil
}
