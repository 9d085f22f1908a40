package payroll

import "errors"

var (
	ErrNoStructureAssigned        = errors.New("no salary structure assigned to employee")
	ErrSalaryStructureNotFound    = errors.New("salary structure not found")
	ErrUnsupportedFrequency       = errors.New("unsupported payroll frequency")
	ErrAdditionalSalaryNotFound   = errors.New("additional salary not found")
	ErrInvalidAdditionalSalary    = errors.New("additional salary amount must be positive")
	ErrAdditionalSalaryRefMissing = errors.New("additional salary reference is required")
)
