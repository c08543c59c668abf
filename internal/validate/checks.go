package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stratify-labs/stratify/internal/record"
)

func init() {
	Register(&check{
		id:       "PK01",
		name:     "canonical customer natural key is unique",
		severity: SeverityError,
		run:      checkCustomerKeys,
	})
	Register(&check{
		id:       "PK02",
		name:     "product versions are unique per (key, start date)",
		severity: SeverityError,
		run:      checkProductVersionKeys,
	})
	Register(&check{
		id:       "PK03",
		name:     "ERP reference entities have unique natural keys",
		severity: SeverityError,
		run:      checkReferenceKeys,
	})
	Register(&check{
		id:       "SK01",
		name:     "dimension surrogate keys are unique",
		severity: SeverityError,
		run:      checkSurrogateKeys,
	})
	Register(&check{
		id:       "RI01",
		name:     "sales facts resolve to both dimensions",
		severity: SeverityWarning,
		run:      checkFactReferences,
	})
	Register(&check{
		id:       "DM01",
		name:     "categorical fields lie within canonical vocabularies",
		severity: SeverityError,
		run:      checkVocabularies,
	})
	Register(&check{
		id:       "RG01",
		name:     "product end date does not precede start date",
		severity: SeverityError,
		run:      checkProductIntervals,
	})
	Register(&check{
		id:       "RG02",
		name:     "birthdates fall within the plausible window",
		severity: SeverityWarning,
		run:      checkBirthdates,
	})
	Register(&check{
		id:       "RG03",
		name:     "sales dates fall within the plausible calendar range",
		severity: SeverityWarning,
		run:      checkSalesDateRange,
	})
	Register(&check{
		id:       "RG04",
		name:     "order date does not follow ship or due date",
		severity: SeverityInfo,
		run:      checkSalesDateOrder,
	})
	Register(&check{
		id:       "CS01",
		name:     "sales amount equals quantity times price",
		severity: SeverityInfo,
		run:      checkSalesConsistency,
	})
	Register(&check{
		id:       "WS01",
		name:     "textual fields carry no stray whitespace",
		severity: SeverityWarning,
		run:      checkWhitespace,
	})
}

func checkCustomerKeys(s *Snapshot) []Violation {
	var violations []Violation
	seen := make(map[int64]bool, len(s.Customers))
	for _, c := range s.Customers {
		if c.ID == 0 {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("customer key=%s", c.Key),
				Detail: "missing customer id",
			})
			continue
		}
		if seen[c.ID] {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("customer id=%d", c.ID),
				Detail: "duplicate customer id",
			})
		}
		seen[c.ID] = true
	}
	return violations
}

func checkProductVersionKeys(s *Snapshot) []Violation {
	var violations []Violation
	seen := make(map[string]bool, len(s.Products))
	for _, p := range s.Products {
		k := p.Key + "|" + formatDate(p.StartDate)
		if seen[k] {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("product key=%s start=%s", p.Key, formatDate(p.StartDate)),
				Detail: "duplicate product version",
			})
		}
		seen[k] = true
	}
	return violations
}

func checkReferenceKeys(s *Snapshot) []Violation {
	var violations []Violation

	demoSeen := make(map[string]bool, len(s.CustomerDemos))
	for _, d := range s.CustomerDemos {
		if demoSeen[d.ID] {
			violations = append(violations, Violation{
				Record: "customer demo id=" + d.ID,
				Detail: "duplicate demographics row",
			})
		}
		demoSeen[d.ID] = true
	}

	locationSeen := make(map[string]bool, len(s.CustomerLocations))
	for _, l := range s.CustomerLocations {
		if locationSeen[l.ID] {
			violations = append(violations, Violation{
				Record: "customer location id=" + l.ID,
				Detail: "duplicate location row",
			})
		}
		locationSeen[l.ID] = true
	}

	categorySeen := make(map[string]bool, len(s.ProductCategories))
	for _, c := range s.ProductCategories {
		if categorySeen[c.ID] {
			violations = append(violations, Violation{
				Record: "product category id=" + c.ID,
				Detail: "duplicate category row",
			})
		}
		categorySeen[c.ID] = true
	}

	return violations
}

func checkSurrogateKeys(s *Snapshot) []Violation {
	var violations []Violation

	customerSeen := make(map[int64]bool, len(s.CustomerDim))
	for _, d := range s.CustomerDim {
		if customerSeen[d.SurrogateKey] {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("customer dimension sk=%d", d.SurrogateKey),
				Detail: "duplicate surrogate key",
			})
		}
		customerSeen[d.SurrogateKey] = true
	}

	productSeen := make(map[int64]bool, len(s.ProductDim))
	for _, d := range s.ProductDim {
		if productSeen[d.SurrogateKey] {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("product dimension sk=%d", d.SurrogateKey),
				Detail: "duplicate surrogate key",
			})
		}
		productSeen[d.SurrogateKey] = true
	}

	return violations
}

// checkFactReferences returns orphan fact rows in full. A nil surrogate key
// means the natural-key lookup found no dimension row.
func checkFactReferences(s *Snapshot) []Violation {
	var violations []Violation
	for _, f := range s.SalesFact {
		var missing []string
		if f.ProductSK == nil {
			missing = append(missing, "product")
		}
		if f.CustomerSK == nil {
			missing = append(missing, "customer")
		}
		if len(missing) > 0 {
			violations = append(violations, Violation{
				Record: renderFact(f),
				Detail: "no matching " + strings.Join(missing, " and ") + " dimension row",
			})
		}
	}
	return violations
}

func checkVocabularies(s *Snapshot) []Violation {
	var violations []Violation

	for _, c := range s.Customers {
		if !contains(record.MaritalStatuses, c.MaritalStatus) {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("customer id=%d", c.ID),
				Detail: fmt.Sprintf("marital status %q outside vocabulary", c.MaritalStatus),
			})
		}
		if !contains(record.Genders, c.Gender) {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("customer id=%d", c.ID),
				Detail: fmt.Sprintf("gender %q outside vocabulary", c.Gender),
			})
		}
	}
	for _, p := range s.Products {
		if !contains(record.ProductLines, p.Line) {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("product key=%s", p.Key),
				Detail: fmt.Sprintf("product line %q outside vocabulary", p.Line),
			})
		}
	}
	for _, d := range s.CustomerDemos {
		if !contains(record.Genders, d.Gender) {
			violations = append(violations, Violation{
				Record: "customer demo id=" + d.ID,
				Detail: fmt.Sprintf("gender %q outside vocabulary", d.Gender),
			})
		}
	}
	for _, d := range s.CustomerDim {
		if !contains(record.Genders, d.Gender) {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("customer dimension sk=%d", d.SurrogateKey),
				Detail: fmt.Sprintf("gender %q outside vocabulary", d.Gender),
			})
		}
	}

	return violations
}

func checkProductIntervals(s *Snapshot) []Violation {
	var violations []Violation
	for _, p := range s.Products {
		if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("product key=%s start=%s", p.Key, formatDate(p.StartDate)),
				Detail: fmt.Sprintf("end date %s precedes start date", formatDate(p.EndDate)),
			})
		}
	}
	return violations
}

func checkBirthdates(s *Snapshot) []Violation {
	var violations []Violation
	for _, d := range s.CustomerDemos {
		if v := birthdateViolation(d.Birthdate, s.Bounds, "customer demo id="+d.ID); v != nil {
			violations = append(violations, *v)
		}
	}
	for _, d := range s.CustomerDim {
		rec := fmt.Sprintf("customer dimension sk=%d", d.SurrogateKey)
		if v := birthdateViolation(d.Birthdate, s.Bounds, rec); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

func birthdateViolation(birthdate *time.Time, b Bounds, rec string) *Violation {
	if birthdate == nil {
		return nil
	}
	if birthdate.Before(b.MinBirthdate) || birthdate.After(b.Now) {
		return &Violation{
			Record: rec,
			Detail: fmt.Sprintf("birthdate %s outside [%s, %s]",
				birthdate.Format("2006-01-02"),
				b.MinBirthdate.Format("2006-01-02"),
				b.Now.Format("2006-01-02")),
		}
	}
	return nil
}

func checkSalesDateRange(s *Snapshot) []Violation {
	var violations []Violation
	for _, l := range s.SalesLines {
		for _, f := range []struct {
			field string
			date  *time.Time
		}{
			{"order date", l.OrderDate},
			{"ship date", l.ShipDate},
			{"due date", l.DueDate},
		} {
			d := f.date
			if d == nil {
				continue
			}
			if d.Before(s.Bounds.MinDate) || d.After(s.Bounds.MaxDate) {
				violations = append(violations, Violation{
					Record: "sales order=" + l.OrderNumber,
					Detail: fmt.Sprintf("%s %s outside plausible calendar range", f.field, d.Format("2006-01-02")),
				})
			}
		}
	}
	return violations
}

func checkSalesDateOrder(s *Snapshot) []Violation {
	var violations []Violation
	for _, l := range s.SalesLines {
		if l.OrderDate == nil {
			continue
		}
		if l.ShipDate != nil && l.OrderDate.After(*l.ShipDate) {
			violations = append(violations, Violation{
				Record: "sales order=" + l.OrderNumber,
				Detail: "order date after ship date",
			})
		}
		if l.DueDate != nil && l.OrderDate.After(*l.DueDate) {
			violations = append(violations, Violation{
				Record: "sales order=" + l.OrderNumber,
				Detail: "order date after due date",
			})
		}
	}
	return violations
}

// checkSalesConsistency enforces strict sales == quantity * price equality.
// It is deliberately stricter than the cleansing repair rule, which
// tolerates sign differences through the absolute value: a row repaired
// from a negative price still shows up here. Informational only.
func checkSalesConsistency(s *Snapshot) []Violation {
	var violations []Violation
	for _, l := range s.SalesLines {
		if !l.Sales.Valid || !l.Price.Valid || l.Quantity == nil {
			violations = append(violations, Violation{
				Record: "sales order=" + l.OrderNumber,
				Detail: "missing sales amount, quantity, or price",
			})
			continue
		}
		expected := l.Price.Decimal.Mul(decimal.NewFromInt(*l.Quantity))
		if !l.Sales.Decimal.Equal(expected) {
			violations = append(violations, Violation{
				Record: "sales order=" + l.OrderNumber,
				Detail: fmt.Sprintf("sales %s != quantity %d * price %s",
					l.Sales.Decimal, *l.Quantity, l.Price.Decimal),
			})
		}
	}
	return violations
}

func checkWhitespace(s *Snapshot) []Violation {
	var violations []Violation

	for _, c := range s.Customers {
		for _, f := range []struct {
			field string
			value string
		}{
			{"key", c.Key},
			{"first name", c.FirstName},
			{"last name", c.LastName},
		} {
			if f.value != strings.TrimSpace(f.value) {
				violations = append(violations, Violation{
					Record: fmt.Sprintf("customer id=%d", c.ID),
					Detail: f.field + " carries stray whitespace",
				})
			}
		}
	}
	for _, p := range s.Products {
		if p.Name != strings.TrimSpace(p.Name) {
			violations = append(violations, Violation{
				Record: fmt.Sprintf("product key=%s", p.Key),
				Detail: "name carries stray whitespace",
			})
		}
	}
	for _, c := range s.ProductCategories {
		for _, f := range []struct {
			field string
			value *string
		}{
			{"category", c.Category},
			{"subcategory", c.Subcategory},
			{"maintenance", c.Maintenance},
		} {
			if f.value != nil && *f.value != strings.TrimSpace(*f.value) {
				violations = append(violations, Violation{
					Record: "product category id=" + c.ID,
					Detail: f.field + " carries stray whitespace",
				})
			}
		}
	}

	return violations
}

func contains(vocabulary []string, v string) bool {
	for _, entry := range vocabulary {
		if entry == v {
			return true
		}
	}
	return false
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "null"
	}
	return t.Format("2006-01-02")
}

func renderFact(f record.SalesFact) string {
	sales := "null"
	if f.Sales.Valid {
		sales = f.Sales.Decimal.String()
	}
	return fmt.Sprintf("sales order=%s product_sk=%s customer_sk=%s date=%s amount=%s",
		f.OrderNumber, formatSK(f.ProductSK), formatSK(f.CustomerSK), formatDate(f.OrderDate), sales)
}

func formatSK(sk *int64) string {
	if sk == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *sk)
}
