package overtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-overtime-go/internal/domain/overtime"
)

// holidayDateMap classifies every holiday of the employee's list within the
// slip period. Dates absent from the map are ordinary working days.
func (s *OvertimeServiceImpl) holidayDateMap(ctx context.Context, slip overtime.Slip) (overtime.HolidayDateMap, error) {
	listID, err := s.calendar.GetListForEmployee(ctx, slip.EmployeeID, slip.CompanyID)
	if err != nil {
		if errors.Is(err, holiday.ErrHolidayListNotFound) {
			return nil, fmt.Errorf("%w: employee %s has no holiday list", overtime.ErrConfiguration, slip.EmployeeID)
		}
		return nil, fmt.Errorf("failed to get holiday list: %w", err)
	}

	dates, err := s.calendar.HolidayDatesBetween(ctx, listID, *slip.FromDate, *slip.ToDate, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	return classifyHolidays(dates), nil
}

func classifyHolidays(dates []holiday.Date) overtime.HolidayDateMap {
	m := make(overtime.HolidayDateMap, len(dates))
	for _, d := range dates {
		m[d.Date.Format(overtime.DateLayout)] = overtime.DayClass{
			WeeklyOff:     d.WeeklyOff,
			PublicHoliday: !d.WeeklyOff,
		}
	}
	return m
}
