package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
	"github.com/google/uuid"
)

type additionalSalaryRepositoryImpl struct {
	db *database.DB
}

func NewAdditionalSalaryRepository(db *database.DB) payroll.AdditionalSalaryRepository {
	return &additionalSalaryRepositoryImpl{db: db}
}

const additionalSalaryColumns = `
	id, company_id, employee_id, salary_component, amount, payroll_date,
	overwrite_salary_structure_amount, ref_doctype, ref_docname, docstatus,
	created_at, updated_at
`

func scanAdditionalSalaries(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]payroll.AdditionalSalary, error) {
	var salaries []payroll.AdditionalSalary
	for rows.Next() {
		var s payroll.AdditionalSalary
		err := rows.Scan(
			&s.ID, &s.CompanyID, &s.EmployeeID, &s.SalaryComponent, &s.Amount, &s.PayrollDate,
			&s.OverwriteSalaryStructureAmount, &s.RefDocType, &s.RefDocID, &s.DocStatus,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		salaries = append(salaries, s)
	}
	return salaries, rows.Err()
}

// Create implements payroll.AdditionalSalaryRepository.
func (r *additionalSalaryRepositoryImpl) Create(ctx context.Context, salary payroll.AdditionalSalary) (payroll.AdditionalSalary, error) {
	if !salary.Amount.IsPositive() {
		return payroll.AdditionalSalary{}, payroll.ErrInvalidAdditionalSalary
	}
	if salary.RefDocType == "" || salary.RefDocID == "" {
		return payroll.AdditionalSalary{}, payroll.ErrAdditionalSalaryRefMissing
	}

	q := GetQuerier(ctx, r.db)

	if salary.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return payroll.AdditionalSalary{}, err
		}
		salary.ID = id.String()
	}

	query := `
		INSERT INTO additional_salaries (
			id, company_id, employee_id, salary_component, amount, payroll_date,
			overwrite_salary_structure_amount, ref_doctype, ref_docname, docstatus
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		salary.ID, salary.CompanyID, salary.EmployeeID, salary.SalaryComponent, salary.Amount,
		salary.PayrollDate, salary.OverwriteSalaryStructureAmount, salary.RefDocType,
		salary.RefDocID, salary.DocStatus,
	).Scan(&salary.CreatedAt, &salary.UpdatedAt)
	if err != nil {
		return payroll.AdditionalSalary{}, err
	}
	return salary, nil
}

// ListByReference implements payroll.AdditionalSalaryRepository.
func (r *additionalSalaryRepositoryImpl) ListByReference(ctx context.Context, refDocType, refDocID string, companyID string) ([]payroll.AdditionalSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + additionalSalaryColumns + `
		FROM additional_salaries
		WHERE ref_doctype = $1 AND ref_docname::text = $2 AND company_id = $3
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, refDocType, refDocID, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAdditionalSalaries(rows)
}

// ListSubmittedForEmployee implements payroll.AdditionalSalaryRepository.
func (r *additionalSalaryRepositoryImpl) ListSubmittedForEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]payroll.AdditionalSalary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + additionalSalaryColumns + `
		FROM additional_salaries
		WHERE employee_id::text = $1 AND docstatus = 1 AND payroll_date BETWEEN $2 AND $3
		ORDER BY payroll_date, id
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAdditionalSalaries(rows)
}

// CancelByReference implements payroll.AdditionalSalaryRepository.
func (r *additionalSalaryRepositoryImpl) CancelByReference(ctx context.Context, refDocType, refDocID string, companyID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE additional_salaries
		SET docstatus = $1, updated_at = NOW()
		WHERE ref_doctype = $2 AND ref_docname::text = $3 AND company_id = $4 AND docstatus = $5
	`, payroll.DocStatusCancelled, refDocType, refDocID, companyID, payroll.DocStatusSubmitted)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
