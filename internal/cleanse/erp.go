package cleanse

import (
	"strings"
	"time"

	"github.com/stratify-labs/stratify/internal/record"
)

// customerIDPrefix is the junk prefix some ERP demographic extracts carry in
// front of the customer key.
const customerIDPrefix = "NAS"

// CustomerDemos cleanses the ERP demographics extract. The junk id prefix
// is stripped, birthdates in the future relative to now are nulled, and
// gender codes are normalized. Rows without an id are dropped.
func CustomerDemos(raws []record.RawCustomerDemo, now time.Time) []record.CustomerDemo {
	demos := make([]record.CustomerDemo, 0, len(raws))
	for _, raw := range raws {
		id := trimmed(raw.ID)
		if id == "" {
			continue
		}
		id = strings.TrimPrefix(id, customerIDPrefix)

		birthdate := raw.Birthdate
		if birthdate != nil && birthdate.After(now) {
			birthdate = nil
		}

		demos = append(demos, record.CustomerDemo{
			ID:        id,
			Birthdate: birthdate,
			Gender:    NormalizeERPGender(raw.Gender),
		})
	}
	return demos
}

// CustomerLocations cleanses the ERP location extract. Hyphens are removed
// from the id so it joins against the CRM customer key, and country codes
// are expanded. Rows without an id are dropped.
func CustomerLocations(raws []record.RawCustomerLocation) []record.CustomerLocation {
	locations := make([]record.CustomerLocation, 0, len(raws))
	for _, raw := range raws {
		id := strings.ReplaceAll(trimmed(raw.ID), "-", "")
		if id == "" {
			continue
		}
		locations = append(locations, record.CustomerLocation{
			ID:      id,
			Country: NormalizeCountry(raw.Country),
		})
	}
	return locations
}

// ProductCategories copies the ERP category reference data through
// unchanged apart from dropping rows without an id.
func ProductCategories(raws []record.RawProductCategory) []record.ProductCategory {
	categories := make([]record.ProductCategory, 0, len(raws))
	for _, raw := range raws {
		id := trimmed(raw.ID)
		if id == "" {
			continue
		}
		categories = append(categories, record.ProductCategory{
			ID:          id,
			Category:    raw.Category,
			Subcategory: raw.Subcategory,
			Maintenance: raw.Maintenance,
		})
	}
	return categories
}
