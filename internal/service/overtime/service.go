package overtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/duration"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
)

// RefDocType is stored on every additional salary generated from a slip.
const RefDocType = "Overtime Slip"

type SubmitPolicy string

const (
	// SubmitPolicyApproval rejects Pending slips and only emits for Approved ones.
	SubmitPolicyApproval SubmitPolicy = "approval"
	// SubmitPolicyUnconditional emits for every submitted slip.
	SubmitPolicyUnconditional SubmitPolicy = "unconditional"
)

type Options struct {
	CurrencyPrecision int32
	SubmitPolicy      SubmitPolicy
}

type OvertimeServiceImpl struct {
	tx                   overtime.Transactor
	slipRepo             overtime.SlipRepository
	typeRepo             overtime.TypeRepository
	attendanceRepo       attendance.AttendanceRepository
	employeeRepo         employee.EmployeeRepository
	structureRepo        payroll.StructureRepository
	additionalSalaryRepo payroll.AdditionalSalaryRepository
	calendar             holiday.Calendar
	periodResolver       payroll.PeriodResolver
	slipGenerator        payroll.SalarySlipGenerator
	opts                 Options
}

func NewOvertimeService(
	tx overtime.Transactor,
	slipRepo overtime.SlipRepository,
	typeRepo overtime.TypeRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	structureRepo payroll.StructureRepository,
	additionalSalaryRepo payroll.AdditionalSalaryRepository,
	calendar holiday.Calendar,
	periodResolver payroll.PeriodResolver,
	slipGenerator payroll.SalarySlipGenerator,
	opts Options,
) overtime.Service {
	if opts.SubmitPolicy == "" {
		opts.SubmitPolicy = SubmitPolicyApproval
	}
	return &OvertimeServiceImpl{
		tx:                   tx,
		slipRepo:             slipRepo,
		typeRepo:             typeRepo,
		attendanceRepo:       attendanceRepo,
		employeeRepo:         employeeRepo,
		structureRepo:        structureRepo,
		additionalSalaryRepo: additionalSalaryRepo,
		calendar:             calendar,
		periodResolver:       periodResolver,
		slipGenerator:        slipGenerator,
		opts:                 opts,
	}
}

// getCompanyFromContext prefers an explicit company scope and falls back to the JWT claim.
func getCompanyFromContext(ctx context.Context) (string, error) {
	if companyID, ok := overtime.CompanyFromContext(ctx); ok {
		return companyID, nil
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", overtime.ErrCompanyRequired, err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", overtime.ErrCompanyRequired
	}

	return companyID, nil
}

// ========== SLIPS ==========

func (s *OvertimeServiceImpl) CreateSlip(ctx context.Context, req overtime.CreateSlipRequest) (overtime.SlipResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.SlipResponse{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	if _, err := s.getEmployee(ctx, req.EmployeeID, companyID); err != nil {
		return overtime.SlipResponse{}, err
	}

	postingDate, _ := time.Parse(overtime.DateLayout, req.PostingDate)
	slip := overtime.Slip{
		CompanyID:      companyID,
		EmployeeID:     req.EmployeeID,
		PostingDate:    postingDate,
		PayrollEntryID: req.PayrollEntryID,
		Status:         overtime.SlipStatusPending,
		DocStatus:      overtime.DocStatusDraft,
	}
	if req.Status != nil {
		slip.Status = overtime.SlipStatus(*req.Status)
	}
	if req.FromDate != nil && req.ToDate != nil {
		from, _ := time.Parse(overtime.DateLayout, *req.FromDate)
		to, _ := time.Parse(overtime.DateLayout, *req.ToDate)
		slip.FromDate, slip.ToDate = &from, &to
	}
	slip.Details, err = detailsFromRequest(req.Details)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	created, err := s.createSlip(ctx, slip)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	return mapToSlipResponse(created), nil
}

// createSlip runs the validate stage and inserts the slip under the employee lock.
func (s *OvertimeServiceImpl) createSlip(ctx context.Context, slip overtime.Slip) (overtime.Slip, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return overtime.Slip{}, fmt.Errorf("failed to generate overtime slip id: %w", err)
	}
	slip.ID = id.String()

	var created overtime.Slip
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.slipRepo.LockEmployee(txCtx, slip.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}
		if err := s.validateSlip(txCtx, &slip); err != nil {
			return err
		}

		created, err = s.slipRepo.Create(txCtx, slip)
		if err != nil {
			return fmt.Errorf("failed to create overtime slip: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.Slip{}, err
	}

	slog.Info("Overtime slip created",
		"slip_id", created.ID,
		"employee_id", created.EmployeeID,
		"detail_count", len(created.Details))
	return created, nil
}

func (s *OvertimeServiceImpl) UpdateSlip(ctx context.Context, req overtime.UpdateSlipRequest) (overtime.SlipResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.SlipResponse{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	var updated overtime.Slip
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		slip, err := s.slipRepo.GetByID(txCtx, req.ID, companyID)
		if err != nil {
			return err
		}
		if slip.DocStatus != overtime.DocStatusDraft {
			return overtime.ErrSlipNotDraft
		}
		if err := s.slipRepo.LockEmployee(txCtx, slip.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		if req.FromDate != nil {
			from, _ := time.Parse(overtime.DateLayout, *req.FromDate)
			slip.FromDate = &from
		}
		if req.ToDate != nil {
			to, _ := time.Parse(overtime.DateLayout, *req.ToDate)
			slip.ToDate = &to
		}
		if req.Status != nil {
			slip.Status = overtime.SlipStatus(*req.Status)
		}
		if req.Details != nil {
			slip.Details, err = detailsFromRequest(*req.Details)
			if err != nil {
				return err
			}
		}

		if err := s.validateSlip(txCtx, &slip); err != nil {
			return err
		}
		saved, err := s.slipRepo.Update(txCtx, slip)
		if err != nil {
			return fmt.Errorf("failed to update overtime slip: %w", err)
		}
		updated = saved
		return nil
	})
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	return mapToSlipResponse(updated), nil
}

func (s *OvertimeServiceImpl) GetSlip(ctx context.Context, id string) (overtime.SlipResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	slip, err := s.slipRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	return mapToSlipResponse(slip), nil
}

func (s *OvertimeServiceImpl) ListSlips(ctx context.Context, filter overtime.SlipFilter) (overtime.ListSlipResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.ListSlipResponse{}, err
	}

	slips, totalCount, err := s.slipRepo.List(ctx, companyID, filter)
	if err != nil {
		return overtime.ListSlipResponse{}, err
	}

	data := make([]overtime.SlipResponse, 0, len(slips))
	for _, slip := range slips {
		data = append(data, mapToSlipResponse(slip))
	}

	return overtime.ListSlipResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *OvertimeServiceImpl) DeleteSlip(ctx context.Context, id string) error {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return err
	}

	slip, err := s.slipRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if slip.DocStatus != overtime.DocStatusDraft {
		return overtime.ErrSlipNotDraft
	}

	return s.slipRepo.Delete(ctx, id, companyID)
}

// ========== PIPELINE STAGES ==========

func (s *OvertimeServiceImpl) GetFrequencyAndDates(ctx context.Context, req overtime.FrequencyAndDatesRequest) (overtime.FrequencyAndDatesResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.FrequencyAndDatesResponse{}, err
	}

	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.FrequencyAndDatesResponse{}, err
	}
	if _, err := s.getEmployee(ctx, req.EmployeeID, companyID); err != nil {
		return overtime.FrequencyAndDatesResponse{}, err
	}

	dateStr := req.PostingDate
	if req.FromDate != nil {
		dateStr = *req.FromDate
	}
	date, _ := time.Parse(overtime.DateLayout, dateStr)

	period, frequency, err := s.frequencyAndDates(ctx, req.EmployeeID, date)
	if err != nil {
		return overtime.FrequencyAndDatesResponse{}, err
	}

	return overtime.FrequencyAndDatesResponse{
		FromDate:         period.Start.Format(overtime.DateLayout),
		ToDate:           period.End.Format(overtime.DateLayout),
		PayrollFrequency: string(frequency),
	}, nil
}

// frequencyAndDates resolves the payroll period containing date from the
// salary structure assigned to the employee on that date.
func (s *OvertimeServiceImpl) frequencyAndDates(ctx context.Context, employeeID string, date time.Time) (payroll.Period, payroll.PayrollFrequency, error) {
	assignment, err := s.structureRepo.GetAssignedStructure(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, payroll.ErrNoStructureAssigned) {
			return payroll.Period{}, "", fmt.Errorf("%w: %s", overtime.ErrNoSalaryStructure, employeeID)
		}
		return payroll.Period{}, "", fmt.Errorf("failed to get salary structure assignment: %w", err)
	}

	structure, err := s.structureRepo.GetByID(ctx, assignment.StructureID)
	if err != nil {
		return payroll.Period{}, "", fmt.Errorf("failed to get salary structure: %w", err)
	}

	period, err := s.periodResolver.StartEndDates(structure.PayrollFrequency, date)
	if err != nil {
		if errors.Is(err, payroll.ErrUnsupportedFrequency) {
			return payroll.Period{}, "", fmt.Errorf("%w: salary structure %s has unsupported payroll frequency %q",
				overtime.ErrConfiguration, structure.Name, structure.PayrollFrequency)
		}
		return payroll.Period{}, "", err
	}

	return period, structure.PayrollFrequency, nil
}

func (s *OvertimeServiceImpl) GetEmpAndOvertimeDetails(ctx context.Context, id string) (overtime.SlipResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	var updated overtime.Slip
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		slip, err := s.slipRepo.GetByID(txCtx, id, companyID)
		if err != nil {
			return err
		}
		if slip.DocStatus != overtime.DocStatusDraft {
			return overtime.ErrSlipNotDraft
		}
		if !slip.HasDateRange() {
			return overtime.ErrMissingDateRange
		}

		types := newTypeCache(s.typeRepo, companyID)
		slip.Details, err = s.collectOvertimeDetails(txCtx, slip, types)
		if err != nil {
			return err
		}
		slip.TotalOvertimeHours = totalHours(slip.Details)

		saved, err := s.slipRepo.Update(txCtx, slip)
		if err != nil {
			return fmt.Errorf("failed to update overtime slip: %w", err)
		}
		updated = saved
		return nil
	})
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	return mapToSlipResponse(updated), nil
}

func (s *OvertimeServiceImpl) SubmitSlip(ctx context.Context, id string) (overtime.SlipResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	submitted, err := s.submitSlip(ctx, id, companyID)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	return mapToSlipResponse(submitted), nil
}

// submitSlip validates the slip again, processes it and marks it submitted.
// Emission and the status change commit together or not at all.
func (s *OvertimeServiceImpl) submitSlip(ctx context.Context, id string, companyID string) (overtime.Slip, error) {
	var submitted overtime.Slip
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		slip, err := s.slipRepo.GetByID(txCtx, id, companyID)
		if err != nil {
			return err
		}
		if slip.DocStatus != overtime.DocStatusDraft {
			return overtime.ErrSlipNotDraft
		}
		if err := s.slipRepo.LockEmployee(txCtx, slip.EmployeeID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}
		if err := s.validateSlip(txCtx, &slip); err != nil {
			return err
		}

		process := true
		if s.opts.SubmitPolicy == SubmitPolicyApproval {
			switch slip.Status {
			case overtime.SlipStatusPending:
				return overtime.ErrSlipPendingApproval
			case overtime.SlipStatusRejected:
				process = false
			}
		}

		if process {
			if err := s.processOvertimeSlip(txCtx, slip); err != nil {
				return err
			}
		}

		if err := s.slipRepo.UpdateDocStatus(txCtx, slip.ID, companyID, overtime.DocStatusSubmitted); err != nil {
			return fmt.Errorf("failed to submit overtime slip: %w", err)
		}
		slip.DocStatus = overtime.DocStatusSubmitted
		submitted = slip
		return nil
	})
	if err != nil {
		return overtime.Slip{}, err
	}

	slog.Info("Overtime slip submitted", "slip_id", submitted.ID, "employee_id", submitted.EmployeeID, "status", submitted.Status)
	return submitted, nil
}

func (s *OvertimeServiceImpl) CancelSlip(ctx context.Context, id string) (overtime.SlipResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	var cancelled overtime.Slip
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		slip, err := s.slipRepo.GetByID(txCtx, id, companyID)
		if err != nil {
			return err
		}
		if slip.DocStatus != overtime.DocStatusSubmitted {
			return overtime.ErrSlipNotSubmitted
		}

		count, err := s.additionalSalaryRepo.CancelByReference(txCtx, RefDocType, slip.ID, companyID)
		if err != nil {
			return fmt.Errorf("failed to cancel additional salaries: %w", err)
		}
		if err := s.slipRepo.UpdateDocStatus(txCtx, slip.ID, companyID, overtime.DocStatusCancelled); err != nil {
			return fmt.Errorf("failed to cancel overtime slip: %w", err)
		}

		slog.Info("Overtime slip cancelled", "slip_id", slip.ID, "additional_salaries_cancelled", count)
		slip.DocStatus = overtime.DocStatusCancelled
		cancelled = slip
		return nil
	})
	if err != nil {
		return overtime.SlipResponse{}, err
	}

	return mapToSlipResponse(cancelled), nil
}

func (s *OvertimeServiceImpl) ListAdditionalSalaries(ctx context.Context, slipID string) ([]overtime.AdditionalSalaryResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.slipRepo.GetByID(ctx, slipID, companyID); err != nil {
		return nil, err
	}

	salaries, err := s.additionalSalaryRepo.ListByReference(ctx, RefDocType, slipID, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]overtime.AdditionalSalaryResponse, 0, len(salaries))
	for _, a := range salaries {
		result = append(result, overtime.AdditionalSalaryResponse{
			ID:              a.ID,
			EmployeeID:      a.EmployeeID,
			SalaryComponent: a.SalaryComponent,
			Amount:          a.Amount,
			PayrollDate:     a.PayrollDate.Format(overtime.DateLayout),
			RefDocType:      a.RefDocType,
			RefDocID:        a.RefDocID,
			DocStatus:       overtime.DocStatus(a.DocStatus).String(),
		})
	}
	return result, nil
}

// ========== OVERTIME TYPES ==========

func (s *OvertimeServiceImpl) ListTypes(ctx context.Context) ([]overtime.TypeResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return nil, err
	}

	types, err := s.typeRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	result := make([]overtime.TypeResponse, 0, len(types))
	for _, t := range types {
		result = append(result, mapToTypeResponse(t))
	}
	return result, nil
}

func (s *OvertimeServiceImpl) GetType(ctx context.Context, id string) (overtime.TypeResponse, error) {
	companyID, err := getCompanyFromContext(ctx)
	if err != nil {
		return overtime.TypeResponse{}, err
	}

	t, err := s.typeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		return overtime.TypeResponse{}, err
	}
	return mapToTypeResponse(t), nil
}

// ========== HELPERS ==========

func (s *OvertimeServiceImpl) getEmployee(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id, companyID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, fmt.Errorf("%w: %s", overtime.ErrEmployeeNotFound, id)
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func detailsFromRequest(reqs []overtime.DetailRequest) ([]overtime.Detail, error) {
	details := make([]overtime.Detail, 0, len(reqs))
	for _, r := range reqs {
		date, _ := time.Parse(overtime.DateLayout, r.Date)
		d := overtime.Detail{
			Date:         date,
			OvertimeType: r.OvertimeType,
		}

		hours, ok, err := duration.ParseHours(r.OvertimeDuration)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", overtime.ErrInvalidDuration, err)
		}
		if ok {
			d.OvertimeHours = &hours
		}

		if r.StandardWorkingHours != nil {
			std, ok, err := duration.ParseHours(*r.StandardWorkingHours)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", overtime.ErrInvalidDuration, err)
			}
			if ok {
				d.StandardWorkingHours = &std
			}
		}
		details = append(details, d)
	}
	return details, nil
}

// totalHours sums present durations; absent ones contribute nothing.
func totalHours(details []overtime.Detail) float64 {
	var total float64
	for _, d := range details {
		if d.OvertimeHours != nil {
			total += *d.OvertimeHours
		}
	}
	return total
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	str := t.Format(overtime.DateLayout)
	return &str
}

func formatHours(h *float64) *string {
	if h == nil {
		return nil
	}
	str := duration.FormatHours(*h)
	return &str
}

func mapToSlipResponse(slip overtime.Slip) overtime.SlipResponse {
	details := make([]overtime.DetailResponse, 0, len(slip.Details))
	for _, d := range slip.Details {
		details = append(details, overtime.DetailResponse{
			ID:                    d.ID,
			Date:                  d.Date.Format(overtime.DateLayout),
			OvertimeType:          d.OvertimeType,
			OvertimeDuration:      formatHours(d.OvertimeHours),
			ReferenceAttendanceID: d.ReferenceAttendanceID,
			StandardWorkingHours:  formatHours(d.StandardWorkingHours),
		})
	}

	return overtime.SlipResponse{
		ID:                    slip.ID,
		CompanyID:             slip.CompanyID,
		EmployeeID:            slip.EmployeeID,
		EmployeeName:          slip.EmployeeName,
		PostingDate:           slip.PostingDate.Format(overtime.DateLayout),
		FromDate:              formatDate(slip.FromDate),
		ToDate:                formatDate(slip.ToDate),
		PayrollFrequency:      slip.PayrollFrequency,
		PayrollEntryID:        slip.PayrollEntryID,
		Status:                string(slip.Status),
		DocStatus:             slip.DocStatus.String(),
		TotalOvertimeDuration: duration.FormatHours(slip.TotalOvertimeHours),
		Details:               details,
	}
}

func mapToTypeResponse(t overtime.Type) overtime.TypeResponse {
	return overtime.TypeResponse{
		ID:                         t.ID,
		Name:                       t.Name,
		StandardMultiplier:         t.StandardMultiplier,
		WeekendMultiplier:          t.WeekendMultiplier,
		PublicHolidayMultiplier:    t.PublicHolidayMultiplier,
		ApplicableForWeekend:       t.ApplicableForWeekend,
		ApplicableForPublicHoliday: t.ApplicableForPublicHoliday,
		CalculationMethod:          string(t.CalculationMethod),
		HourlyRate:                 t.HourlyRate,
		MaximumHours:               t.MaximumHours,
		SalaryComponent:            t.SalaryComponent,
		ApplicableComponents:       t.ApplicableComponents,
	}
}
