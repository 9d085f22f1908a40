package holiday

import "time"

// Date is one entry of a holiday list. WeeklyOff marks recurring days off;
// the rest are designated public holidays.
type Date struct {
	Date        time.Time
	WeeklyOff   bool
	Description *string
}
