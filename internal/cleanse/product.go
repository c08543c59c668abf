package cleanse

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stratify-labs/stratify/internal/record"
)

// DecomposeProductKey splits the raw composite key into its category id and
// product key segments. The first five characters, with hyphens replaced by
// underscores, form the category id; everything from the seventh character
// onward is the product key.
func DecomposeProductKey(raw string) (categoryID, productKey string) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 5 {
		categoryID = strings.ReplaceAll(raw[:5], "-", "_")
	} else {
		categoryID = strings.ReplaceAll(raw, "-", "_")
	}
	if len(raw) > 6 {
		productKey = raw[6:]
	}
	return categoryID, productKey
}

// Products cleanses the raw CRM product extract: key decomposition, cost
// coercion, product-line normalization, and derivation of per-key validity
// intervals. Within each product key the versions are ordered by start date
// and each version's end date becomes the next version's start date minus
// one day; the newest version keeps a nil end date.
func Products(raws []record.RawProduct) []record.Product {
	products := make([]record.Product, 0, len(raws))
	for _, raw := range raws {
		categoryID, key := DecomposeProductKey(trimmed(raw.Key))

		cost := decimal.Zero
		if raw.Cost.Valid && raw.Cost.Decimal.Sign() > 0 {
			cost = raw.Cost.Decimal
		}

		var id int64
		if raw.ID != nil {
			id = *raw.ID
		}

		products = append(products, record.Product{
			ID:         id,
			CategoryID: categoryID,
			Key:        key,
			Name:       trimmed(raw.Name),
			Cost:       cost,
			Line:       NormalizeProductLine(raw.Line),
			StartDate:  raw.StartDate,
		})
	}

	deriveEndDates(products)

	sort.Slice(products, func(i, j int) bool {
		if products[i].Key != products[j].Key {
			return products[i].Key < products[j].Key
		}
		return startBefore(products[i].StartDate, products[j].StartDate)
	})
	return products
}

// deriveEndDates computes validity intervals per product key. Intervals are
// gap-free and non-overlapping by construction.
func deriveEndDates(products []record.Product) {
	byKey := make(map[string][]int)
	for i := range products {
		byKey[products[i].Key] = append(byKey[products[i].Key], i)
	}

	for _, idxs := range byKey {
		sort.SliceStable(idxs, func(a, b int) bool {
			return startBefore(products[idxs[a]].StartDate, products[idxs[b]].StartDate)
		})
		for n := 0; n < len(idxs)-1; n++ {
			next := products[idxs[n+1]].StartDate
			if next == nil {
				continue
			}
			end := next.AddDate(0, 0, -1)
			products[idxs[n]].EndDate = &end
		}
	}
}

// startBefore orders start dates ascending with nil first.
func startBefore(a, b *time.Time) bool {
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
