package overtime

import (
	"context"
	"time"
)

// SlipRepository defines data access methods for overtime slips.
// All read and write methods include companyID to keep tenants isolated.
type SlipRepository interface {
	// Create inserts the slip header and its detail rows
	Create(ctx context.Context, slip Slip) (Slip, error)

	// Update rewrites the header and replaces every detail row, returning
	// the slip with the stored detail IDs
	Update(ctx context.Context, slip Slip) (Slip, error)

	GetByID(ctx context.Context, id string, companyID string) (Slip, error)
	List(ctx context.Context, companyID string, filter SlipFilter) ([]Slip, int64, error)
	Delete(ctx context.Context, id string, companyID string) error
	UpdateDocStatus(ctx context.Context, id string, companyID string, status DocStatus) error

	// FindOverlapping returns non-cancelled slips of the employee whose range
	// intersects [from, to] inclusive, ignoring excludeID.
	FindOverlapping(ctx context.Context, employeeID string, from, to time.Time, excludeID string) ([]Slip, error)

	// LockEmployee serializes slip writes for one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error
}

// TypeRepository reads overtime type configuration.
type TypeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Type, error)
	List(ctx context.Context, companyID string) ([]Type, error)
}

// Transactor runs fn in one database transaction carried by the context
// passed to fn. Any error returned by fn rolls the whole unit back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
