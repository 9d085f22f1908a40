package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryStructureRepositoryImpl struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) payroll.StructureRepository {
	return &salaryStructureRepositoryImpl{db: db}
}

// GetAssignedStructure implements payroll.StructureRepository.
func (r *salaryStructureRepositoryImpl) GetAssignedStructure(ctx context.Context, employeeID string, date time.Time) (payroll.StructureAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, salary_structure_id, company_id, from_date, base
		FROM salary_structure_assignments
		WHERE employee_id::text = $1 AND docstatus = 1 AND from_date <= $2
		ORDER BY from_date DESC
		LIMIT 1
	`

	var a payroll.StructureAssignment
	err := q.QueryRow(ctx, query, employeeID, date).Scan(
		&a.ID, &a.EmployeeID, &a.StructureID, &a.CompanyID, &a.FromDate, &a.Base,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.StructureAssignment{}, payroll.ErrNoStructureAssigned
		}
		return payroll.StructureAssignment{}, err
	}
	return a, nil
}

// GetByID implements payroll.StructureRepository.
func (r *salaryStructureRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	var s payroll.SalaryStructure
	err := q.QueryRow(ctx, `
		SELECT id, company_id, name, payroll_frequency, created_at, updated_at
		FROM salary_structures
		WHERE id::text = $1
	`, id).Scan(&s.ID, &s.CompanyID, &s.Name, &s.PayrollFrequency, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryStructure{}, payroll.ErrSalaryStructureNotFound
		}
		return payroll.SalaryStructure{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT salary_component, component_type, amount, base_percent
		FROM salary_structure_components
		WHERE salary_structure_id = $1
		ORDER BY idx
	`, s.ID)
	if err != nil {
		return payroll.SalaryStructure{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var c payroll.StructureComponent
		if err := rows.Scan(&c.SalaryComponent, &c.Type, &c.Amount, &c.BasePercent); err != nil {
			return payroll.SalaryStructure{}, err
		}
		s.Components = append(s.Components, c)
	}
	if err := rows.Err(); err != nil {
		return payroll.SalaryStructure{}, err
	}
	return s, nil
}
