package overtime

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/duration"
)

// validateSlip runs on every save and again on submit. The caller holds the
// employee lock so the overlap check and the following write are serialized.
func (s *OvertimeServiceImpl) validateSlip(ctx context.Context, slip *overtime.Slip) error {
	if !slip.HasDateRange() {
		period, frequency, err := s.frequencyAndDates(ctx, slip.EmployeeID, slip.PostingDate)
		if err != nil {
			return err
		}
		from, to := period.Start, period.End
		freq := string(frequency)
		slip.FromDate, slip.ToDate, slip.PayrollFrequency = &from, &to, &freq
	}

	if err := s.validateOverlap(ctx, *slip); err != nil {
		return err
	}

	if slip.FromDate.After(*slip.ToDate) {
		return overtime.ErrInvalidDateRange
	}

	types := newTypeCache(s.typeRepo, slip.CompanyID)
	if len(slip.Details) == 0 {
		details, err := s.collectOvertimeDetails(ctx, *slip, types)
		if err != nil {
			return err
		}
		slip.Details = details
	}

	if err := validateDetails(ctx, slip.Details, types); err != nil {
		return err
	}

	slip.TotalOvertimeHours = totalHours(slip.Details)
	return nil
}

func (s *OvertimeServiceImpl) validateOverlap(ctx context.Context, slip overtime.Slip) error {
	overlapping, err := s.slipRepo.FindOverlapping(ctx, slip.EmployeeID, *slip.FromDate, *slip.ToDate, slip.ID)
	if err != nil {
		return fmt.Errorf("failed to check overlapping slips: %w", err)
	}
	if len(overlapping) == 0 {
		return nil
	}

	other := overlapping[0]
	oe := &overtime.OverlapError{SlipID: other.ID}
	if other.FromDate != nil {
		oe.FromDate = other.FromDate.Format(overtime.DateLayout)
	}
	if other.ToDate != nil {
		oe.ToDate = other.ToDate.Format(overtime.DateLayout)
	}
	return oe
}

// validateDetails rejects repeated dates and, for rows not sourced from
// attendance, durations above the type maximum. Attendance rows were capped
// when collected.
func validateDetails(ctx context.Context, details []overtime.Detail, types *typeCache) error {
	seen := make(map[string]struct{}, len(details))
	for _, d := range details {
		key := d.Date.Format(overtime.DateLayout)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", overtime.ErrDuplicateDetailDate, key)
		}
		seen[key] = struct{}{}

		t, err := types.get(ctx, d.OvertimeType)
		if err != nil {
			return err
		}

		if d.ReferenceAttendanceID != nil || d.OvertimeHours == nil {
			continue
		}
		if t.MaximumHours > 0 && *d.OvertimeHours > t.MaximumHours {
			return fmt.Errorf("%w: %s on %s exceeds %s",
				overtime.ErrDurationExceedsMaximum, duration.FormatHours(*d.OvertimeHours), key, duration.FormatHours(t.MaximumHours))
		}
	}
	return nil
}
