package overtime

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-overtime-go/internal/pkg/validator"
)

var (
	ErrSlipNotFound           = errors.New("overtime slip not found")
	ErrSlipOverlap            = errors.New("overtime slip overlaps an existing slip")
	ErrInvalidDateRange       = errors.New("from date can not be greater than to date")
	ErrMissingDateRange       = errors.New("overtime slip has no date range")
	ErrDuplicateDetailDate    = errors.New("duplicate date in overtime details")
	ErrDurationExceedsMaximum = errors.New("overtime duration exceeds maximum allowed hours")
	ErrInvalidDuration        = errors.New("invalid overtime duration")
	ErrNoSalaryStructure      = errors.New("no salary structure assignment found for employee")
	ErrNoOvertimeAttendance   = errors.New("no overtime attendance found in date range")
	ErrOvertimeTypeNotFound   = errors.New("overtime type not found")
	ErrNoApplicableComponents = errors.New("select applicable components in overtime type")
	ErrInvalidStatus          = errors.New("invalid overtime slip status")
	ErrSlipNotDraft           = errors.New("overtime slip is not in draft state")
	ErrSlipNotSubmitted       = errors.New("overtime slip is not submitted")
	ErrSlipPendingApproval    = errors.New("overtime slip with status 'Approved' or 'Rejected' are allowed for submission")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrConfiguration          = errors.New("overtime configuration error")
	ErrCompanyRequired        = errors.New("company_id claim is missing or invalid")
)

// OverlapError identifies the slip a candidate range collides with.
type OverlapError struct {
	SlipID   string
	FromDate string
	ToDate   string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overtime slip %s has been created between %s and %s", e.SlipID, e.FromDate, e.ToDate)
}

func (e *OverlapError) Unwrap() error { return ErrSlipOverlap }

// ConfigurationError reports overtime type or payroll setup that cannot yield a rate.
type ConfigurationError struct {
	OvertimeType string
	Reason       string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("overtime type %s: %s", e.OvertimeType, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindConfiguration
)

// KindOf classifies err for callers that need to choose a response.
func KindOf(err error) Kind {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return KindInternal
	case errors.As(err, &validationErrs):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrSlipOverlap):
		return KindConflict
	case errors.Is(err, ErrSlipNotFound),
		errors.Is(err, ErrNoOvertimeAttendance),
		errors.Is(err, ErrOvertimeTypeNotFound),
		errors.Is(err, ErrEmployeeNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrMissingDateRange),
		errors.Is(err, ErrDuplicateDetailDate),
		errors.Is(err, ErrDurationExceedsMaximum),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrNoSalaryStructure),
		errors.Is(err, ErrNoApplicableComponents),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrSlipNotDraft),
		errors.Is(err, ErrSlipNotSubmitted),
		errors.Is(err, ErrSlipPendingApproval):
		return KindValidation
	}
	return KindInternal
}
