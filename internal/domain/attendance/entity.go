package attendance

import (
	"time"
)

const StatusPresent = "present"

// Attendance is a submitted daily attendance record as seen by overtime
// processing. Durations keep the "HH:MM:SS" form the attendance store reports.
type Attendance struct {
	ID                   string
	EmployeeID           string
	CompanyID            string
	Date                 time.Time
	Status               string
	OvertimeType         *string
	OvertimeDuration     *string
	StandardWorkingHours *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
