package validate

import (
	"time"

	"github.com/stratify-labs/stratify/internal/record"
)

// Bounds holds the configurable plausibility windows used by range checks.
type Bounds struct {
	// MinBirthdate is the oldest plausible customer birthdate.
	MinBirthdate time.Time
	// MinDate and MaxDate bound the plausible calendar range for sales dates.
	MinDate time.Time
	MaxDate time.Time
	// Now is the processing time; birthdates after it are implausible.
	Now time.Time
}

// DefaultBounds returns the plausibility windows used when configuration
// does not override them.
func DefaultBounds(now time.Time) Bounds {
	return Bounds{
		MinBirthdate: time.Date(1924, 1, 1, 0, 0, 0, 0, time.UTC),
		MinDate:      time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:      time.Date(2050, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:          now,
	}
}

// Snapshot is a read-only view of the canonical and dimensional layers
// taken after a pipeline run. Checks never mutate it.
type Snapshot struct {
	Customers         []record.Customer
	Products          []record.Product
	SalesLines        []record.SalesLine
	CustomerDemos     []record.CustomerDemo
	CustomerLocations []record.CustomerLocation
	ProductCategories []record.ProductCategory

	CustomerDim []record.CustomerDim
	ProductDim  []record.ProductDim
	SalesFact   []record.SalesFact

	Bounds Bounds
}
