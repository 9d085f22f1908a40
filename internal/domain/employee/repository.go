package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// GetActiveCompanyIDs lists companies that still have active employees
	GetActiveCompanyIDs(ctx context.Context) ([]string, error)
}
