package overtime

import "context"

// Service exposes the overtime slip pipeline stages.
type Service interface {
	CreateSlip(ctx context.Context, req CreateSlipRequest) (SlipResponse, error)
	UpdateSlip(ctx context.Context, req UpdateSlipRequest) (SlipResponse, error)
	GetSlip(ctx context.Context, id string) (SlipResponse, error)
	ListSlips(ctx context.Context, filter SlipFilter) (ListSlipResponse, error)
	DeleteSlip(ctx context.Context, id string) error

	// GetFrequencyAndDates derives the payroll period from the employee's salary structure
	GetFrequencyAndDates(ctx context.Context, req FrequencyAndDatesRequest) (FrequencyAndDatesResponse, error)

	// GetEmpAndOvertimeDetails refills detail rows from attendance and persists the slip
	GetEmpAndOvertimeDetails(ctx context.Context, id string) (SlipResponse, error)

	// SubmitSlip finalizes the slip and emits additional salaries atomically
	SubmitSlip(ctx context.Context, id string) (SlipResponse, error)

	// CancelSlip cancels a submitted slip together with its additional salaries
	CancelSlip(ctx context.Context, id string) (SlipResponse, error)

	ListAdditionalSalaries(ctx context.Context, slipID string) ([]AdditionalSalaryResponse, error)

	FilterEmployeesForOvertimeSlipCreation(ctx context.Context, req EligibleEmployeesRequest) ([]string, error)
	CreateOvertimeSlipsForEmployees(ctx context.Context, req BatchCreateRequest) (BatchResult, error)
	SubmitOvertimeSlipsForEmployees(ctx context.Context, req BatchSubmitRequest) (BatchResult, error)

	ListTypes(ctx context.Context) ([]TypeResponse, error)
	GetType(ctx context.Context, id string) (TypeResponse, error)
}

type companyCtxKey struct{}

// ContextWithCompany scopes ctx to companyID for callers without a JWT,
// such as scheduled jobs.
func ContextWithCompany(ctx context.Context, companyID string) context.Context {
	return context.WithValue(ctx, companyCtxKey{}, companyID)
}

// CompanyFromContext returns the company set by ContextWithCompany.
func CompanyFromContext(ctx context.Context) (string, bool) {
	companyID, ok := ctx.Value(companyCtxKey{}).(string)
	return companyID, ok && companyID != ""
}
