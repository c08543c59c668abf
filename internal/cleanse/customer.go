package cleanse

import (
	"sort"
	"time"

	"github.com/stratify-labs/stratify/internal/record"
)

// Customers cleanses the raw CRM customer extract. Rows without a natural
// id are dropped silently. When an id appears more than once, the row with
// the latest create date wins; among rows with equal create dates the one
// landed last wins.
func Customers(raws []record.RawCustomer) []record.Customer {
	latest := make(map[int64]record.RawCustomer)
	for _, raw := range raws {
		if raw.ID == nil {
			continue
		}
		id := *raw.ID
		current, seen := latest[id]
		if !seen || !createdBefore(raw.Created, current.Created) {
			latest[id] = raw
		}
	}

	customers := make([]record.Customer, 0, len(latest))
	for id, raw := range latest {
		customers = append(customers, record.Customer{
			ID:            id,
			Key:           trimmed(raw.Key),
			FirstName:     trimmed(raw.FirstName),
			LastName:      trimmed(raw.LastName),
			MaritalStatus: NormalizeMaritalStatus(raw.MaritalStatus),
			Gender:        NormalizeCRMGender(raw.Gender),
			Created:       raw.Created,
		})
	}

	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers
}

// createdBefore reports whether a is strictly older than b. A nil create
// date sorts before any real one.
func createdBefore(a, b *time.Time) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}
