package overtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/duration"
)

// typeCache memoizes overtime types for a single pass over a slip.
type typeCache struct {
	repo      overtime.TypeRepository
	companyID string
	types     map[string]overtime.Type
}

func newTypeCache(repo overtime.TypeRepository, companyID string) *typeCache {
	return &typeCache{repo: repo, companyID: companyID, types: make(map[string]overtime.Type)}
}

func (c *typeCache) get(ctx context.Context, id string) (overtime.Type, error) {
	if t, ok := c.types[id]; ok {
		return t, nil
	}
	t, err := c.repo.GetByID(ctx, id, c.companyID)
	if err != nil {
		return overtime.Type{}, err
	}
	c.types[id] = t
	return t, nil
}

// collectOvertimeDetails turns the employee's overtime attendance in the slip
// period into detail rows. Durations above the type maximum are capped and
// rows that end up non-positive are dropped.
func (s *OvertimeServiceImpl) collectOvertimeDetails(ctx context.Context, slip overtime.Slip, types *typeCache) ([]overtime.Detail, error) {
	records, err := s.attendanceRepo.ListOvertimeAttendance(ctx, slip.EmployeeID, *slip.FromDate, *slip.ToDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list overtime attendance: %w", err)
	}

	details := make([]overtime.Detail, 0, len(records))
	for _, rec := range records {
		if rec.OvertimeType == nil || *rec.OvertimeType == "" || rec.OvertimeDuration == nil {
			continue
		}

		hours, ok, err := duration.ParseHours(*rec.OvertimeDuration)
		if err != nil {
			return nil, fmt.Errorf("attendance %s: %w: %v", rec.ID, overtime.ErrInvalidDuration, err)
		}
		if !ok {
			continue
		}

		t, err := types.get(ctx, *rec.OvertimeType)
		if err != nil {
			return nil, err
		}
		if t.MaximumHours > 0 && hours > t.MaximumHours {
			slog.Debug("Capping overtime duration", "attendance_id", rec.ID, "hours", hours, "maximum", t.MaximumHours)
			hours = t.MaximumHours
		}
		if hours <= 0 {
			continue
		}

		attendanceID := rec.ID
		d := overtime.Detail{
			Date:                  rec.Date,
			OvertimeType:          *rec.OvertimeType,
			OvertimeHours:         &hours,
			ReferenceAttendanceID: &attendanceID,
		}
		if rec.StandardWorkingHours != nil {
			std, ok, err := duration.ParseHours(*rec.StandardWorkingHours)
			if err != nil {
				return nil, fmt.Errorf("attendance %s: %w: %v", rec.ID, overtime.ErrInvalidDuration, err)
			}
			if ok {
				d.StandardWorkingHours = &std
			}
		}
		details = append(details, d)
	}

	if len(details) == 0 {
		return nil, fmt.Errorf("%w: employee %s between %s and %s", overtime.ErrNoOvertimeAttendance,
			slip.EmployeeID, slip.FromDate.Format(overtime.DateLayout), slip.ToDate.Format(overtime.DateLayout))
	}
	return details, nil
}
