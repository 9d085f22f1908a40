package payroll

import (
	"context"
	"time"
)

// StructureRepository reads salary structures and their assignments.
type StructureRepository interface {
	// GetAssignedStructure returns the latest assignment effective on date,
	// or ErrNoStructureAssigned.
	GetAssignedStructure(ctx context.Context, employeeID string, date time.Time) (StructureAssignment, error)
	GetByID(ctx context.Context, id string) (SalaryStructure, error)
}

// AdditionalSalaryRepository persists additional salaries. Create stores the
// record already submitted; callers own the surrounding transaction.
type AdditionalSalaryRepository interface {
	Create(ctx context.Context, salary AdditionalSalary) (AdditionalSalary, error)
	ListByReference(ctx context.Context, refDocType, refDocID string, companyID string) ([]AdditionalSalary, error)
	ListSubmittedForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]AdditionalSalary, error)
	CancelByReference(ctx context.Context, refDocType, refDocID string, companyID string) (int64, error)
}
