package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.Calendar {
	return &holidayRepositoryImpl{db: db}
}

// GetListForEmployee implements holiday.Calendar.
func (r *holidayRepositoryImpl) GetListForEmployee(ctx context.Context, employeeID string, companyID string) (string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(e.holiday_list_id, hl.id)::text
		FROM employees e
		LEFT JOIN holiday_lists hl ON hl.company_id = e.company_id AND hl.is_company_default
		WHERE e.id::text = $1 AND e.company_id = $2
	`

	var listID *string
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(&listID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	if listID == nil {
		return "", holiday.ErrHolidayListNotFound
	}
	return *listID, nil
}

// HolidayDatesBetween implements holiday.Calendar.
func (r *holidayRepositoryImpl) HolidayDatesBetween(ctx context.Context, listID string, from, to time.Time, includeWeeklyOff bool) ([]holiday.Date, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT holiday_date, weekly_off, description
		FROM holidays
		WHERE holiday_list_id::text = $1
		  AND holiday_date BETWEEN $2 AND $3
		  AND ($4 OR NOT weekly_off)
		ORDER BY holiday_date
	`

	rows, err := q.Query(ctx, query, listID, from, to, includeWeeklyOff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []holiday.Date
	for rows.Next() {
		var d holiday.Date
		if err := rows.Scan(&d.Date, &d.WeeklyOff, &d.Description); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
