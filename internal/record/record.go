// Package record defines the entity types that flow through the pipeline:
// raw extracts as landed in the raw zone, cleansed canonical entities, and
// the surrogate-keyed dimensional projections.
package record

import (
	"time"

	"github.com/shopspring/decimal"
)

// NA is the canonical label for unrecognized, blank, or missing
// categorical values.
const NA = "n/a"

// Canonical vocabularies. Every categorical field in the canonical and
// dimensional layers must hold one of these labels.
var (
	MaritalStatuses = []string{"Single", "Married", NA}
	Genders         = []string{"Female", "Male", NA}
	ProductLines    = []string{"Mountain", "Road", "Other Sales", "Touring", NA}
)

// --- Raw entities (schema-on-read, everything nullable) ---

// RawCustomer is a CRM customer extract row, landed verbatim.
type RawCustomer struct {
	ID            *int64
	Key           *string
	FirstName     *string
	LastName      *string
	MaritalStatus *string
	Gender        *string
	Created       *time.Time
}

// RawProduct is a CRM product extract row. Key is the composite source key
// that embeds both the category and the product segment.
type RawProduct struct {
	ID        *int64
	Key       *string
	Name      *string
	Cost      decimal.NullDecimal
	Line      *string
	StartDate *time.Time
}

// RawSalesLine is a CRM sales detail row. The three dates arrive encoded as
// 8-digit numerics (yyyymmdd).
type RawSalesLine struct {
	OrderNumber *string
	ProductKey  *string
	CustomerID  *int64
	OrderDate   *int64
	ShipDate    *int64
	DueDate     *int64
	Sales       decimal.NullDecimal
	Quantity    *int64
	Price       decimal.NullDecimal
}

// RawCustomerDemo is an ERP demographics row. ID may carry a junk prefix.
type RawCustomerDemo struct {
	ID        *string
	Birthdate *time.Time
	Gender    *string
}

// RawCustomerLocation is an ERP location row. ID may be hyphenated.
type RawCustomerLocation struct {
	ID      *string
	Country *string
}

// RawProductCategory is ERP reference data; it needs no transformation.
type RawProductCategory struct {
	ID          *string
	Category    *string
	Subcategory *string
	Maintenance *string
}

// --- Canonical entities (typed, normalized vocabulary) ---

// Customer is the cleansed CRM customer. ID is the natural key, unique and
// non-null; raw rows without an ID are dropped during cleansing.
type Customer struct {
	ID            int64
	Key           string
	FirstName     string
	LastName      string
	MaritalStatus string
	Gender        string
	Created       *time.Time
}

// Product is one version of a cleansed product. CategoryID and Key are
// decomposed from the raw composite key. EndDate is always derived from the
// next version's start date, never taken from the source; the current
// version has a nil EndDate.
type Product struct {
	ID         int64
	CategoryID string
	Key        string
	Name       string
	Cost       decimal.Decimal
	Line       string
	StartDate  *time.Time
	EndDate    *time.Time
}

// SalesLine is a cleansed sales detail row. Dates are nil when the raw
// 8-digit code was malformed. Sales and Price may have been repaired to
// restore sales = quantity * |price| consistency.
type SalesLine struct {
	OrderNumber string
	ProductKey  string
	CustomerID  *int64
	OrderDate   *time.Time
	ShipDate    *time.Time
	DueDate     *time.Time
	Sales       decimal.NullDecimal
	Quantity    *int64
	Price       decimal.NullDecimal
}

// CustomerDemo is the cleansed ERP demographics row. ID has had its junk
// prefix stripped and joins against Customer.Key.
type CustomerDemo struct {
	ID        string
	Birthdate *time.Time
	Gender    string
}

// CustomerLocation is the cleansed ERP location row. ID has had all
// separators removed and joins against Customer.Key.
type CustomerLocation struct {
	ID      string
	Country string
}

// ProductCategory is the reference passthrough copy.
type ProductCategory struct {
	ID          string
	Category    *string
	Subcategory *string
	Maintenance *string
}

// --- Dimensional entities (surrogate-keyed, rebuilt each run) ---

// CustomerDim is the denormalized customer dimension row.
type CustomerDim struct {
	SurrogateKey  int64
	CustomerID    int64
	CustomerKey   string
	FirstName     string
	LastName      string
	Country       string
	MaritalStatus string
	Gender        string
	Birthdate     *time.Time
	Created       *time.Time
}

// ProductDim is the denormalized product dimension row. Only current
// product versions (nil derived end date) are projected.
type ProductDim struct {
	SurrogateKey int64
	ProductID    int64
	ProductKey   string
	Name         string
	CategoryID   string
	Category     *string
	Subcategory  *string
	Maintenance  *string
	Cost         decimal.Decimal
	Line         string
	StartDate    *time.Time
}

// SalesFact is one fact row per sales line. Foreign keys are resolved by
// natural-key lookup against the dimensions; unmatched lookups stay nil.
type SalesFact struct {
	OrderNumber string
	ProductSK   *int64
	CustomerSK  *int64
	OrderDate   *time.Time
	ShipDate    *time.Time
	DueDate     *time.Time
	Sales       decimal.NullDecimal
	Quantity    *int64
	Price       decimal.NullDecimal
}
