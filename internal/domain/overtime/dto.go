package overtime

import (
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/duration"
	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SLIP DTOs ==========

type DetailRequest struct {
	Date                 string  `json:"date"`
	OvertimeType         string  `json:"overtime_type"`
	OvertimeDuration     string  `json:"overtime_duration"` // "HH:MM[:SS]"
	StandardWorkingHours *string `json:"standard_working_hours,omitempty"`
}

func validateDetails(details []DetailRequest) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for i, d := range details {
		prefix := "overtime_details[" + validator.Itoa(i) + "]."
		if _, ok := validator.IsValidDate(d.Date); !ok {
			errs = append(errs, validator.ValidationError{Field: prefix + "date", Message: "must be in YYYY-MM-DD format"})
		}
		if validator.IsEmpty(d.OvertimeType) {
			errs = append(errs, validator.ValidationError{Field: prefix + "overtime_type", Message: "is required"})
		}
		if _, _, err := duration.ParseHours(d.OvertimeDuration); err != nil {
			errs = append(errs, validator.ValidationError{Field: prefix + "overtime_duration", Message: "must be in HH:MM[:SS] format"})
		}
		if d.StandardWorkingHours != nil {
			if _, _, err := duration.ParseHours(*d.StandardWorkingHours); err != nil {
				errs = append(errs, validator.ValidationError{Field: prefix + "standard_working_hours", Message: "must be in HH:MM[:SS] format"})
			}
		}
	}
	return errs
}

type CreateSlipRequest struct {
	EmployeeID     string          `json:"employee_id"`
	PostingDate    string          `json:"posting_date"`
	FromDate       *string         `json:"from_date,omitempty"`
	ToDate         *string         `json:"to_date,omitempty"`
	Status         *string         `json:"status,omitempty"`
	PayrollEntryID *string         `json:"payroll_entry_id,omitempty"`
	Details        []DetailRequest `json:"overtime_details,omitempty"`
}

func (r *CreateSlipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.PostingDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "posting_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.FromDate != nil {
		if _, ok := validator.IsValidDate(*r.FromDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.ToDate != nil {
		if _, ok := validator.IsValidDate(*r.ToDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if (r.FromDate == nil) != (r.ToDate == nil) {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "from_date and to_date must be given together"})
	}
	if r.Status != nil && !SlipStatus(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Pending', 'Approved' or 'Rejected'"})
	}
	errs = append(errs, validateDetails(r.Details)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSlipRequest struct {
	ID       string
	FromDate *string          `json:"from_date,omitempty"`
	ToDate   *string          `json:"to_date,omitempty"`
	Status   *string          `json:"status,omitempty"`
	Details  *[]DetailRequest `json:"overtime_details,omitempty"`
}

func (r *UpdateSlipRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FromDate != nil {
		if _, ok := validator.IsValidDate(*r.FromDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.ToDate != nil {
		if _, ok := validator.IsValidDate(*r.ToDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.Status != nil && !SlipStatus(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'Pending', 'Approved' or 'Rejected'"})
	}
	if r.Details != nil {
		errs = append(errs, validateDetails(*r.Details)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type FrequencyAndDatesRequest struct {
	EmployeeID  string  `json:"employee_id"`
	PostingDate string  `json:"posting_date"`
	FromDate    *string `json:"from_date,omitempty"`
}

func (r *FrequencyAndDatesRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.PostingDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "posting_date", Message: "must be in YYYY-MM-DD format"})
	}
	if r.FromDate != nil {
		if _, ok := validator.IsValidDate(*r.FromDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type FrequencyAndDatesResponse struct {
	FromDate         string `json:"from_date"`
	ToDate           string `json:"to_date"`
	PayrollFrequency string `json:"payroll_frequency"`
}

type DetailResponse struct {
	ID                    string  `json:"id"`
	Date                  string  `json:"date"`
	OvertimeType          string  `json:"overtime_type"`
	OvertimeDuration      *string `json:"overtime_duration,omitempty"`
	ReferenceAttendanceID *string `json:"reference_attendance_id,omitempty"`
	StandardWorkingHours  *string `json:"standard_working_hours,omitempty"`
}

type SlipResponse struct {
	ID                    string           `json:"id"`
	CompanyID             string           `json:"company_id"`
	EmployeeID            string           `json:"employee_id"`
	EmployeeName          *string          `json:"employee_name,omitempty"`
	PostingDate           string           `json:"posting_date"`
	FromDate              *string          `json:"from_date,omitempty"`
	ToDate                *string          `json:"to_date,omitempty"`
	PayrollFrequency      *string          `json:"payroll_frequency,omitempty"`
	PayrollEntryID        *string          `json:"payroll_entry_id,omitempty"`
	Status                string           `json:"status"`
	DocStatus             string           `json:"docstatus"`
	TotalOvertimeDuration string           `json:"total_overtime_duration"`
	Details               []DetailResponse `json:"overtime_details"`
}

type SlipFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	DocStatus  *int    `json:"docstatus,omitempty"`
	FromDate   *string `json:"from_date,omitempty"`
	ToDate     *string `json:"to_date,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

type ListSlipResponse struct {
	Data       []SlipResponse `json:"data"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

// ========== BATCH DTOs ==========

type EligibleEmployeesRequest struct {
	FromDate    string   `json:"from_date"`
	ToDate      string   `json:"to_date"`
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *EligibleEmployeesRequest) Validate() error {
	var errs validator.ValidationErrors

	from, fromOK := validator.IsValidDate(r.FromDate)
	to, toOK := validator.IsValidDate(r.ToDate)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be in YYYY-MM-DD format"})
	}
	if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be in YYYY-MM-DD format"})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must not be before from_date"})
	}
	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "at least one employee is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchCreateRequest struct {
	EmployeeIDs      []string `json:"employee_ids"`
	PostingDate      string   `json:"posting_date"`
	FromDate         string   `json:"from_date"`
	ToDate           string   `json:"to_date"`
	PayrollFrequency *string  `json:"payroll_frequency,omitempty"`
	PayrollEntryID   *string  `json:"payroll_entry_id,omitempty"`
}

func (r *BatchCreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "at least one employee is required"})
	}
	if _, ok := validator.IsValidDate(r.PostingDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "posting_date", Message: "must be in YYYY-MM-DD format"})
	}
	from, fromOK := validator.IsValidDate(r.FromDate)
	to, toOK := validator.IsValidDate(r.ToDate)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be in YYYY-MM-DD format"})
	}
	if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be in YYYY-MM-DD format"})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must not be before from_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchSubmitRequest struct {
	SlipIDs []string `json:"slip_ids"`
}

func (r *BatchSubmitRequest) Validate() error {
	if len(r.SlipIDs) == 0 {
		return validator.ValidationErrors{{Field: "slip_ids", Message: "at least one slip is required"}}
	}
	return nil
}

// ========== OVERTIME TYPE DTOs ==========

type TypeResponse struct {
	ID                         string          `json:"id"`
	Name                       string          `json:"name"`
	StandardMultiplier         decimal.Decimal `json:"standard_multiplier"`
	WeekendMultiplier          decimal.Decimal `json:"weekend_multiplier"`
	PublicHolidayMultiplier    decimal.Decimal `json:"public_holiday_multiplier"`
	ApplicableForWeekend       bool            `json:"applicable_for_weekend"`
	ApplicableForPublicHoliday bool            `json:"applicable_for_public_holiday"`
	CalculationMethod          string          `json:"overtime_calculation_method"`
	HourlyRate                 decimal.Decimal `json:"hourly_rate"`
	MaximumHours               float64         `json:"maximum_overtime_hours_allowed"`
	SalaryComponent            string          `json:"overtime_salary_component"`
	ApplicableComponents       []string        `json:"applicable_salary_components,omitempty"`
}

// ========== ADDITIONAL SALARY DTOs ==========

type AdditionalSalaryResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	SalaryComponent string          `json:"salary_component"`
	Amount          decimal.Decimal `json:"amount"`
	PayrollDate     string          `json:"payroll_date"`
	RefDocType      string          `json:"ref_doctype"`
	RefDocID        string          `json:"ref_docname"`
	DocStatus       string          `json:"docstatus"`
}
