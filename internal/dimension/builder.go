// Package dimension implements the dimensional builder: cross-entity
// enrichment joins, surrogate-key assignment, and the fact projection.
// It assumes canonical inputs already satisfy the cleansing guarantees and
// performs no error correction; a join without a match is a valid outcome.
package dimension

import (
	"sort"
	"time"

	"github.com/stratify-labs/stratify/internal/record"
)

// BuildCustomerDim left-joins canonical customers with ERP demographics and
// locations on the customer key. Surrogate keys are assigned by dense rank
// over the natural customer id, recomputed from scratch each run.
//
// Gender resolution takes the CRM value unless it is n/a, in which case the
// ERP value is used, defaulting to n/a when that is absent too.
func BuildCustomerDim(
	customers []record.Customer,
	demos []record.CustomerDemo,
	locations []record.CustomerLocation,
) []record.CustomerDim {
	demoByKey := make(map[string]record.CustomerDemo, len(demos))
	for _, d := range demos {
		demoByKey[d.ID] = d
	}
	locationByKey := make(map[string]record.CustomerLocation, len(locations))
	for _, l := range locations {
		locationByKey[l.ID] = l
	}

	ordered := make([]record.Customer, len(customers))
	copy(ordered, customers)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	dims := make([]record.CustomerDim, 0, len(ordered))
	for i, c := range ordered {
		dim := record.CustomerDim{
			SurrogateKey:  int64(i + 1),
			CustomerID:    c.ID,
			CustomerKey:   c.Key,
			FirstName:     c.FirstName,
			LastName:      c.LastName,
			Country:       record.NA,
			MaritalStatus: c.MaritalStatus,
			Gender:        c.Gender,
			Created:       c.Created,
		}

		if demo, ok := demoByKey[c.Key]; ok {
			dim.Birthdate = demo.Birthdate
			if dim.Gender == record.NA && demo.Gender != "" {
				dim.Gender = demo.Gender
			}
		}
		if location, ok := locationByKey[c.Key]; ok {
			dim.Country = location.Country
		}

		dims = append(dims, dim)
	}
	return dims
}

// BuildProductDim left-joins current product versions with the category
// reference on category id. Historical versions (non-nil derived end date)
// are excluded entirely. Surrogate keys are assigned by dense rank over
// (start date, product key).
func BuildProductDim(
	products []record.Product,
	categories []record.ProductCategory,
) []record.ProductDim {
	categoryByID := make(map[string]record.ProductCategory, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	current := make([]record.Product, 0, len(products))
	for _, p := range products {
		if p.EndDate == nil {
			current = append(current, p)
		}
	}
	sort.SliceStable(current, func(i, j int) bool {
		a, b := current[i], current[j]
		if !equalDates(a.StartDate, b.StartDate) {
			return dateBefore(a.StartDate, b.StartDate)
		}
		return a.Key < b.Key
	})

	dims := make([]record.ProductDim, 0, len(current))
	for i, p := range current {
		dim := record.ProductDim{
			SurrogateKey: int64(i + 1),
			ProductID:    p.ID,
			ProductKey:   p.Key,
			Name:         p.Name,
			CategoryID:   p.CategoryID,
			Cost:         p.Cost,
			Line:         p.Line,
			StartDate:    p.StartDate,
		}
		if ref, ok := categoryByID[p.CategoryID]; ok {
			dim.Category = ref.Category
			dim.Subcategory = ref.Subcategory
			dim.Maintenance = ref.Maintenance
		}
		dims = append(dims, dim)
	}
	return dims
}

// BuildSalesFact projects one fact row per canonical sales line, resolving
// dimension surrogate keys by natural-key lookup. Unmatched lookups yield
// nil foreign keys; the fact is never filtered to only-matched rows.
func BuildSalesFact(
	lines []record.SalesLine,
	customerDim []record.CustomerDim,
	productDim []record.ProductDim,
) []record.SalesFact {
	customerSK := make(map[int64]int64, len(customerDim))
	for _, d := range customerDim {
		customerSK[d.CustomerID] = d.SurrogateKey
	}
	productSK := make(map[string]int64, len(productDim))
	for _, d := range productDim {
		productSK[d.ProductKey] = d.SurrogateKey
	}

	facts := make([]record.SalesFact, 0, len(lines))
	for _, l := range lines {
		fact := record.SalesFact{
			OrderNumber: l.OrderNumber,
			OrderDate:   l.OrderDate,
			ShipDate:    l.ShipDate,
			DueDate:     l.DueDate,
			Sales:       l.Sales,
			Quantity:    l.Quantity,
			Price:       l.Price,
		}
		if sk, ok := productSK[l.ProductKey]; ok {
			fact.ProductSK = &sk
		}
		if l.CustomerID != nil {
			if sk, ok := customerSK[*l.CustomerID]; ok {
				fact.CustomerSK = &sk
			}
		}
		facts = append(facts, fact)
	}
	return facts
}

func dateBefore(a, b *time.Time) bool {
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

func equalDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
