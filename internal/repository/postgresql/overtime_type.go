package postgresql

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeTypeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeTypeRepository(db *database.DB) overtime.TypeRepository {
	return &overtimeTypeRepositoryImpl{db: db}
}

const overtimeTypeQuery = `
	SELECT t.id, t.company_id, t.name,
		   t.standard_multiplier, t.weekend_multiplier, t.public_holiday_multiplier,
		   t.applicable_for_weekend, t.applicable_for_public_holiday,
		   t.overtime_calculation_method, t.hourly_rate,
		   t.maximum_overtime_hours_allowed::float8, t.overtime_salary_component,
		   COALESCE(
			   array_agg(c.salary_component ORDER BY c.salary_component) FILTER (WHERE c.salary_component IS NOT NULL),
			   '{}'
		   ) AS applicable_components,
		   t.created_at, t.updated_at
	FROM overtime_types t
	LEFT JOIN overtime_type_components c ON c.overtime_type_id = t.id
`

func scanOvertimeType(row pgx.Row) (overtime.Type, error) {
	var t overtime.Type
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Name,
		&t.StandardMultiplier, &t.WeekendMultiplier, &t.PublicHolidayMultiplier,
		&t.ApplicableForWeekend, &t.ApplicableForPublicHoliday,
		&t.CalculationMethod, &t.HourlyRate,
		&t.MaximumHours, &t.SalaryComponent,
		&t.ApplicableComponents,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// GetByID implements overtime.TypeRepository.
func (r *overtimeTypeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (overtime.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := overtimeTypeQuery + `
		WHERE t.id::text = $1 AND t.company_id = $2
		GROUP BY t.id
	`

	t, err := scanOvertimeType(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Type{}, overtime.ErrOvertimeTypeNotFound
		}
		return overtime.Type{}, err
	}
	return t, nil
}

// List implements overtime.TypeRepository.
func (r *overtimeTypeRepositoryImpl) List(ctx context.Context, companyID string) ([]overtime.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := overtimeTypeQuery + `
		WHERE t.company_id = $1
		GROUP BY t.id
		ORDER BY t.name
	`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []overtime.Type
	for rows.Next() {
		t, err := scanOvertimeType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
