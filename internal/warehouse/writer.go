package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stratify-labs/stratify/internal/record"
	"github.com/stratify-labs/stratify/pkg/adapter"
)

const insertBatchSize = 500

// rebuild replaces a table's contents via staging swap: the rows are written
// to <table>__swap, then the published table is dropped and the staging
// table renamed under its name. Readers see either the old contents or the
// new, never a partial load.
func (w *Warehouse) rebuild(ctx context.Context, t tableDef, rows [][]any) error {
	schema, name := adapter.SplitQualifiedName(t.name)
	if schema != "" {
		if err := w.adp.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+schema); err != nil {
			return fmt.Errorf("failed to create schema %s: %w", schema, err)
		}
	}

	swap := t.name + "__swap"
	if err := w.adp.Exec(ctx, "DROP TABLE IF EXISTS "+swap); err != nil {
		return fmt.Errorf("failed to drop stale staging table: %w", err)
	}
	if err := w.adp.Exec(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", swap, t.ddl)); err != nil {
		return fmt.Errorf("failed to create staging table: %w", err)
	}
	if err := w.insertBatches(ctx, swap, t.columns, rows); err != nil {
		return err
	}

	if err := w.adp.Exec(ctx, "DROP TABLE IF EXISTS "+t.name); err != nil {
		return fmt.Errorf("failed to drop %s: %w", t.name, err)
	}
	if err := w.adp.Exec(ctx, fmt.Sprintf("ALTER TABLE %s RENAME TO %s", swap, name)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", t.name, err)
	}

	w.logger.Debug("rebuilt table", slog.String("table", t.name), slog.Int("rows", len(rows)))
	return nil
}

// insertBatches writes rows with multi-row parameterized inserts, using the
// adapter's placeholder syntax.
func (w *Warehouse) insertBatches(ctx context.Context, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += insertBatchSize {
		batch := rows[start:min(start+insertBatchSize, len(rows))]

		var sb strings.Builder
		sb.WriteString("INSERT INTO ")
		sb.WriteString(table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(columns, ", "))
		sb.WriteString(") VALUES ")

		args := make([]any, 0, len(batch)*len(columns))
		n := 1
		for i, row := range batch {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('(')
			for j, v := range row {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(w.adp.Placeholder(n))
				n++
				args = append(args, v)
			}
			sb.WriteByte(')')
		}

		if err := w.adp.Exec(ctx, sb.String(), args...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

// WriteCustomers rebuilds canonical.customers.
func (w *Warehouse) WriteCustomers(ctx context.Context, customers []record.Customer) error {
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []any{c.ID, c.Key, c.FirstName, c.LastName, c.MaritalStatus, c.Gender, nullTime(c.Created)})
	}
	return w.rebuild(ctx, customersTable, rows)
}

// WriteProducts rebuilds canonical.products.
func (w *Warehouse) WriteProducts(ctx context.Context, products []record.Product) error {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{p.ID, p.CategoryID, p.Key, p.Name, money(p.Cost), p.Line, nullTime(p.StartDate), nullTime(p.EndDate)})
	}
	return w.rebuild(ctx, productsTable, rows)
}

// WriteSalesLines rebuilds canonical.sales.
func (w *Warehouse) WriteSalesLines(ctx context.Context, lines []record.SalesLine) error {
	rows := make([][]any, 0, len(lines))
	for _, s := range lines {
		rows = append(rows, []any{
			s.OrderNumber, s.ProductKey, nullInt(s.CustomerID),
			nullTime(s.OrderDate), nullTime(s.ShipDate), nullTime(s.DueDate),
			nullMoney(s.Sales), nullInt(s.Quantity), nullMoney(s.Price),
		})
	}
	return w.rebuild(ctx, salesTable, rows)
}

// WriteCustomerDemos rebuilds canonical.customer_demo.
func (w *Warehouse) WriteCustomerDemos(ctx context.Context, demos []record.CustomerDemo) error {
	rows := make([][]any, 0, len(demos))
	for _, d := range demos {
		rows = append(rows, []any{d.ID, nullTime(d.Birthdate), d.Gender})
	}
	return w.rebuild(ctx, customerDemoTable, rows)
}

// WriteCustomerLocations rebuilds canonical.customer_locations.
func (w *Warehouse) WriteCustomerLocations(ctx context.Context, locations []record.CustomerLocation) error {
	rows := make([][]any, 0, len(locations))
	for _, l := range locations {
		rows = append(rows, []any{l.ID, l.Country})
	}
	return w.rebuild(ctx, customerLocationsTable, rows)
}

// WriteProductCategories rebuilds canonical.product_categories.
func (w *Warehouse) WriteProductCategories(ctx context.Context, categories []record.ProductCategory) error {
	rows := make([][]any, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []any{c.ID, nullStr(c.Category), nullStr(c.Subcategory), nullStr(c.Maintenance)})
	}
	return w.rebuild(ctx, productCategoriesTable, rows)
}

// WriteCustomerDim rebuilds mart.dim_customers.
func (w *Warehouse) WriteCustomerDim(ctx context.Context, dims []record.CustomerDim) error {
	rows := make([][]any, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, []any{
			d.SurrogateKey, d.CustomerID, d.CustomerKey, d.FirstName, d.LastName,
			d.Country, d.MaritalStatus, d.Gender, nullTime(d.Birthdate), nullTime(d.Created),
		})
	}
	return w.rebuild(ctx, customerDimTable, rows)
}

// WriteProductDim rebuilds mart.dim_products.
func (w *Warehouse) WriteProductDim(ctx context.Context, dims []record.ProductDim) error {
	rows := make([][]any, 0, len(dims))
	for _, d := range dims {
		rows = append(rows, []any{
			d.SurrogateKey, d.ProductID, d.ProductKey, d.Name, d.CategoryID,
			nullStr(d.Category), nullStr(d.Subcategory), nullStr(d.Maintenance),
			money(d.Cost), d.Line, nullTime(d.StartDate),
		})
	}
	return w.rebuild(ctx, productDimTable, rows)
}

// WriteSalesFacts rebuilds mart.fact_sales.
func (w *Warehouse) WriteSalesFacts(ctx context.Context, facts []record.SalesFact) error {
	rows := make([][]any, 0, len(facts))
	for _, f := range facts {
		rows = append(rows, []any{
			f.OrderNumber, nullInt(f.ProductSK), nullInt(f.CustomerSK),
			nullTime(f.OrderDate), nullTime(f.ShipDate), nullTime(f.DueDate),
			nullMoney(f.Sales), nullInt(f.Quantity), nullMoney(f.Price),
		})
	}
	return w.rebuild(ctx, salesFactTable, rows)
}

func nullStr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullInt(i *int64) any {
	if i == nil {
		return nil
	}
	return *i
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func money(d decimal.Decimal) any {
	f, _ := d.Float64()
	return f
}

func nullMoney(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return money(d.Decimal)
}
