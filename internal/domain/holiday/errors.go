package holiday

import "errors"

var (
	ErrHolidayListNotFound = errors.New("no holiday list assigned to employee or company")
)
