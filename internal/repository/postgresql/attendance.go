package postgresql

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// ListOvertimeAttendance implements attendance.AttendanceRepository.
// Durations are rendered as "HH24:MI:SS" and parsed by the caller.
func (r *attendanceRepositoryImpl) ListOvertimeAttendance(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, company_id, attendance_date, status,
			   overtime_type_id::text,
			   to_char(overtime_duration, 'HH24:MI:SS'),
			   to_char(standard_working_hours, 'HH24:MI:SS'),
			   created_at, updated_at
		FROM attendances
		WHERE employee_id = $1
		  AND status = $2
		  AND docstatus = 1
		  AND overtime_type_id IS NOT NULL
		  AND attendance_date BETWEEN $3 AND $4
		ORDER BY attendance_date
	`

	rows, err := q.Query(ctx, query, employeeID, attendance.StatusPresent, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var a attendance.Attendance
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.CompanyID, &a.Date, &a.Status,
			&a.OvertimeType, &a.OvertimeDuration, &a.StandardWorkingHours,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// EmployeesWithOvertime implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) EmployeesWithOvertime(ctx context.Context, companyID string, employeeIDs []string, from, to time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT employee_id::text
		FROM attendances
		WHERE employee_id::text = ANY($1::text[])
		  AND company_id = $5
		  AND status = $2
		  AND docstatus = 1
		  AND overtime_type_id IS NOT NULL
		  AND attendance_date BETWEEN $3 AND $4
		ORDER BY 1
	`

	rows, err := q.Query(ctx, query, employeeIDs, attendance.StatusPresent, from, to, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
