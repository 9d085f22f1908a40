package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// exclusion_violation raised by the overtime_slips range constraint
const pgExclusionViolation = "23P01"

type overtimeSlipRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeSlipRepository(db *database.DB) overtime.SlipRepository {
	return &overtimeSlipRepositoryImpl{db: db}
}

const slipColumns = `
	s.id, s.company_id, s.employee_id, s.posting_date, s.from_date, s.to_date,
	s.payroll_frequency, s.payroll_entry_id, s.status, s.docstatus,
	EXTRACT(EPOCH FROM s.total_overtime_duration)::float8 / 3600,
	s.created_at, s.updated_at, e.full_name
`

func scanSlip(row pgx.Row) (overtime.Slip, error) {
	var s overtime.Slip
	var employeeName string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.EmployeeID, &s.PostingDate, &s.FromDate, &s.ToDate,
		&s.PayrollFrequency, &s.PayrollEntryID, &s.Status, &s.DocStatus,
		&s.TotalOvertimeHours,
		&s.CreatedAt, &s.UpdatedAt, &employeeName,
	)
	if err != nil {
		return overtime.Slip{}, err
	}
	s.EmployeeName = &employeeName
	return s, nil
}

// Create implements overtime.SlipRepository.
func (r *overtimeSlipRepositoryImpl) Create(ctx context.Context, slip overtime.Slip) (overtime.Slip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO overtime_slips (
			id, company_id, employee_id, posting_date, from_date, to_date,
			payroll_frequency, payroll_entry_id, status, docstatus,
			total_overtime_duration, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			make_interval(secs => $11::float8 * 3600), NOW(), NOW()
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		slip.ID, slip.CompanyID, slip.EmployeeID, slip.PostingDate, slip.FromDate, slip.ToDate,
		slip.PayrollFrequency, slip.PayrollEntryID, string(slip.Status), int(slip.DocStatus),
		slip.TotalOvertimeHours,
	).Scan(&slip.CreatedAt, &slip.UpdatedAt)
	if err != nil {
		return overtime.Slip{}, mapSlipWriteError(err)
	}

	slip.Details, err = r.insertDetails(ctx, q, slip.ID, slip.Details)
	if err != nil {
		return overtime.Slip{}, err
	}

	return slip, nil
}

// Update implements overtime.SlipRepository. Only draft slips are writable.
func (r *overtimeSlipRepositoryImpl) Update(ctx context.Context, slip overtime.Slip) (overtime.Slip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_slips
		SET from_date = $1, to_date = $2, payroll_frequency = $3, status = $4,
			total_overtime_duration = make_interval(secs => $5::float8 * 3600), updated_at = NOW()
		WHERE id = $6 AND company_id = $7 AND docstatus = 0
	`

	commandTag, err := q.Exec(ctx, query,
		slip.FromDate, slip.ToDate, slip.PayrollFrequency, string(slip.Status),
		slip.TotalOvertimeHours, slip.ID, slip.CompanyID,
	)
	if err != nil {
		return overtime.Slip{}, mapSlipWriteError(err)
	}
	if commandTag.RowsAffected() == 0 {
		return overtime.Slip{}, overtime.ErrSlipNotFound
	}

	if _, err := q.Exec(ctx, `DELETE FROM overtime_details WHERE overtime_slip_id = $1`, slip.ID); err != nil {
		return overtime.Slip{}, fmt.Errorf("failed to clear overtime details: %w", err)
	}

	slip.Details, err = r.insertDetails(ctx, q, slip.ID, slip.Details)
	if err != nil {
		return overtime.Slip{}, err
	}

	return slip, nil
}

func (r *overtimeSlipRepositoryImpl) insertDetails(ctx context.Context, q database.Querier, slipID string, details []overtime.Detail) ([]overtime.Detail, error) {
	query := `
		INSERT INTO overtime_details (
			id, overtime_slip_id, idx, detail_date, overtime_type_id,
			overtime_duration, reference_attendance_id, standard_working_hours
		) VALUES (
			$1, $2, $3, $4, $5,
			make_interval(secs => $6::float8 * 3600), $7, make_interval(secs => $8::float8 * 3600)
		)
	`

	saved := make([]overtime.Detail, 0, len(details))
	for i, d := range details {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate overtime detail id: %w", err)
		}
		d.ID = id.String()
		d.SlipID = slipID

		_, err = q.Exec(ctx, query,
			d.ID, slipID, i+1, d.Date, d.OvertimeType,
			d.OvertimeHours, d.ReferenceAttendanceID, d.StandardWorkingHours,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert overtime detail for %s: %w", d.Date.Format(overtime.DateLayout), err)
		}
		saved = append(saved, d)
	}
	return saved, nil
}

// GetByID implements overtime.SlipRepository.
func (r *overtimeSlipRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (overtime.Slip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + slipColumns + `
		FROM overtime_slips s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.id::text = $1 AND s.company_id = $2
	`

	slip, err := scanSlip(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Slip{}, overtime.ErrSlipNotFound
		}
		return overtime.Slip{}, err
	}

	details, err := r.getDetails(ctx, q, []string{slip.ID})
	if err != nil {
		return overtime.Slip{}, err
	}
	slip.Details = details[slip.ID]

	return slip, nil
}

func (r *overtimeSlipRepositoryImpl) getDetails(ctx context.Context, q database.Querier, slipIDs []string) (map[string][]overtime.Detail, error) {
	query := `
		SELECT id, overtime_slip_id, detail_date, overtime_type_id,
			   EXTRACT(EPOCH FROM overtime_duration)::float8 / 3600,
			   reference_attendance_id,
			   EXTRACT(EPOCH FROM standard_working_hours)::float8 / 3600
		FROM overtime_details
		WHERE overtime_slip_id::text = ANY($1::text[])
		ORDER BY overtime_slip_id, idx
	`

	rows, err := q.Query(ctx, query, slipIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string][]overtime.Detail, len(slipIDs))
	for rows.Next() {
		var d overtime.Detail
		if err := rows.Scan(
			&d.ID, &d.SlipID, &d.Date, &d.OvertimeType,
			&d.OvertimeHours, &d.ReferenceAttendanceID, &d.StandardWorkingHours,
		); err != nil {
			return nil, err
		}
		result[d.SlipID] = append(result[d.SlipID], d)
	}
	return result, rows.Err()
}

// List implements overtime.SlipRepository.
func (r *overtimeSlipRepositoryImpl) List(ctx context.Context, companyID string, filter overtime.SlipFilter) ([]overtime.Slip, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	whereClause := "WHERE s.company_id = $1"
	args := []interface{}{companyID}
	argIndex := 2

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND s.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}

	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND s.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.DocStatus != nil {
		whereClause += fmt.Sprintf(" AND s.docstatus = $%d", argIndex)
		args = append(args, *filter.DocStatus)
		argIndex++
	}

	if filter.FromDate != nil {
		whereClause += fmt.Sprintf(" AND s.to_date >= $%d", argIndex)
		args = append(args, *filter.FromDate)
		argIndex++
	}

	if filter.ToDate != nil {
		whereClause += fmt.Sprintf(" AND s.from_date <= $%d", argIndex)
		args = append(args, *filter.ToDate)
		argIndex++
	}

	// Count total
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM overtime_slips s %s`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Get data with pagination
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}
	offset := (filter.Page - 1) * filter.Limit

	query := fmt.Sprintf(`
		SELECT %s
		FROM overtime_slips s
		JOIN employees e ON e.id = s.employee_id
		%s
		ORDER BY s.posting_date DESC, s.created_at DESC
		LIMIT $%d OFFSET $%d
	`, slipColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var slips []overtime.Slip
	var ids []string
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			return nil, 0, err
		}
		slips = append(slips, slip)
		ids = append(ids, slip.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		details, err := r.getDetails(ctx, q, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range slips {
			slips[i].Details = details[slips[i].ID]
		}
	}

	return slips, total, nil
}

// Delete implements overtime.SlipRepository.
func (r *overtimeSlipRepositoryImpl) Delete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM overtime_slips WHERE id::text = $1 AND company_id = $2 AND docstatus = 0`, id, companyID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return overtime.ErrSlipNotFound
	}
	return nil
}

// UpdateDocStatus implements overtime.SlipRepository.
func (r *overtimeSlipRepositoryImpl) UpdateDocStatus(ctx context.Context, id string, companyID string, status overtime.DocStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_slips
		SET docstatus = $1, updated_at = NOW()
		WHERE id::text = $2 AND company_id = $3
	`
	commandTag, err := q.Exec(ctx, query, int(status), id, companyID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return overtime.ErrSlipNotFound
	}
	return nil
}

// FindOverlapping implements overtime.SlipRepository.
func (r *overtimeSlipRepositoryImpl) FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID string) ([]overtime.Slip, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + slipColumns + `
		FROM overtime_slips s
		JOIN employees e ON e.id = s.employee_id
		WHERE s.employee_id = $1
		  AND s.docstatus < 2
		  AND s.to_date >= $2
		  AND s.from_date <= $3
		  AND s.id::text <> $4::text
		ORDER BY s.from_date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slips []overtime.Slip
	for rows.Next() {
		slip, err := scanSlip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, rows.Err()
}

// LockEmployee implements overtime.SlipRepository. The lock only lives as long
// as the surrounding transaction, so callers must pass a transactional ctx.
func (r *overtimeSlipRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, employeeID)
	return err
}

func mapSlipWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return fmt.Errorf("%w: %s", overtime.ErrSlipOverlap, pgErr.Detail)
	}
	return err
}
