package warehouse

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/stratify-labs/stratify/internal/record"
)

// Customers reads canonical.customers back into typed records.
func (w *Warehouse) Customers(ctx context.Context) ([]record.Customer, error) {
	const query = "SELECT id, key, first_name, last_name, marital_status, gender, created FROM canonical.customers ORDER BY id"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.Customer, error) {
		var c record.Customer
		var created sql.NullTime
		if err := rows.Scan(&c.ID, &c.Key, &c.FirstName, &c.LastName, &c.MaritalStatus, &c.Gender, &created); err != nil {
			return record.Customer{}, err
		}
		c.Created = fromNullTime(created)
		return c, nil
	})
}

// Products reads canonical.products back into typed records.
func (w *Warehouse) Products(ctx context.Context) ([]record.Product, error) {
	const query = "SELECT id, category_id, key, name, cost, line, start_date, end_date FROM canonical.products ORDER BY key, start_date"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.Product, error) {
		var p record.Product
		var cost float64
		var start, end sql.NullTime
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Key, &p.Name, &cost, &p.Line, &start, &end); err != nil {
			return record.Product{}, err
		}
		p.Cost = decimal.NewFromFloat(cost)
		p.StartDate = fromNullTime(start)
		p.EndDate = fromNullTime(end)
		return p, nil
	})
}

// SalesLines reads canonical.sales back into typed records.
func (w *Warehouse) SalesLines(ctx context.Context) ([]record.SalesLine, error) {
	const query = "SELECT order_number, product_key, customer_id, order_date, ship_date, due_date, sales, quantity, price FROM canonical.sales"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.SalesLine, error) {
		var s record.SalesLine
		var customer, quantity sql.NullInt64
		var orderDate, shipDate, dueDate sql.NullTime
		var sales, price sql.NullFloat64
		if err := rows.Scan(&s.OrderNumber, &s.ProductKey, &customer, &orderDate, &shipDate, &dueDate, &sales, &quantity, &price); err != nil {
			return record.SalesLine{}, err
		}
		s.CustomerID = fromNullInt(customer)
		s.OrderDate = fromNullTime(orderDate)
		s.ShipDate = fromNullTime(shipDate)
		s.DueDate = fromNullTime(dueDate)
		s.Sales = fromNullFloat(sales)
		s.Quantity = fromNullInt(quantity)
		s.Price = fromNullFloat(price)
		return s, nil
	})
}

// CustomerDemos reads canonical.customer_demo back into typed records.
func (w *Warehouse) CustomerDemos(ctx context.Context) ([]record.CustomerDemo, error) {
	const query = "SELECT id, birthdate, gender FROM canonical.customer_demo"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.CustomerDemo, error) {
		var d record.CustomerDemo
		var birthdate sql.NullTime
		if err := rows.Scan(&d.ID, &birthdate, &d.Gender); err != nil {
			return record.CustomerDemo{}, err
		}
		d.Birthdate = fromNullTime(birthdate)
		return d, nil
	})
}

// CustomerLocations reads canonical.customer_locations back into typed
// records.
func (w *Warehouse) CustomerLocations(ctx context.Context) ([]record.CustomerLocation, error) {
	const query = "SELECT id, country FROM canonical.customer_locations"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.CustomerLocation, error) {
		var l record.CustomerLocation
		if err := rows.Scan(&l.ID, &l.Country); err != nil {
			return record.CustomerLocation{}, err
		}
		return l, nil
	})
}

// ProductCategories reads canonical.product_categories back into typed
// records.
func (w *Warehouse) ProductCategories(ctx context.Context) ([]record.ProductCategory, error) {
	const query = "SELECT id, category, subcategory, maintenance FROM canonical.product_categories"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.ProductCategory, error) {
		var c record.ProductCategory
		var category, subcategory, maintenance sql.NullString
		if err := rows.Scan(&c.ID, &category, &subcategory, &maintenance); err != nil {
			return record.ProductCategory{}, err
		}
		c.Category = fromNullString(category)
		c.Subcategory = fromNullString(subcategory)
		c.Maintenance = fromNullString(maintenance)
		return c, nil
	})
}

// CustomerDim reads mart.dim_customers back into typed records.
func (w *Warehouse) CustomerDim(ctx context.Context) ([]record.CustomerDim, error) {
	const query = "SELECT customer_sk, customer_id, customer_key, first_name, last_name, country, marital_status, gender, birthdate, created FROM mart.dim_customers ORDER BY customer_sk"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.CustomerDim, error) {
		var d record.CustomerDim
		var birthdate, created sql.NullTime
		if err := rows.Scan(&d.SurrogateKey, &d.CustomerID, &d.CustomerKey, &d.FirstName, &d.LastName, &d.Country, &d.MaritalStatus, &d.Gender, &birthdate, &created); err != nil {
			return record.CustomerDim{}, err
		}
		d.Birthdate = fromNullTime(birthdate)
		d.Created = fromNullTime(created)
		return d, nil
	})
}

// ProductDim reads mart.dim_products back into typed records.
func (w *Warehouse) ProductDim(ctx context.Context) ([]record.ProductDim, error) {
	const query = "SELECT product_sk, product_id, product_key, name, category_id, category, subcategory, maintenance, cost, line, start_date FROM mart.dim_products ORDER BY product_sk"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.ProductDim, error) {
		var d record.ProductDim
		var category, subcategory, maintenance sql.NullString
		var cost float64
		var start sql.NullTime
		if err := rows.Scan(&d.SurrogateKey, &d.ProductID, &d.ProductKey, &d.Name, &d.CategoryID, &category, &subcategory, &maintenance, &cost, &d.Line, &start); err != nil {
			return record.ProductDim{}, err
		}
		d.Category = fromNullString(category)
		d.Subcategory = fromNullString(subcategory)
		d.Maintenance = fromNullString(maintenance)
		d.Cost = decimal.NewFromFloat(cost)
		d.StartDate = fromNullTime(start)
		return d, nil
	})
}

// SalesFacts reads mart.fact_sales back into typed records.
func (w *Warehouse) SalesFacts(ctx context.Context) ([]record.SalesFact, error) {
	const query = "SELECT order_number, product_sk, customer_sk, order_date, ship_date, due_date, sales, quantity, price FROM mart.fact_sales"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.SalesFact, error) {
		var f record.SalesFact
		var productSK, customerSK, quantity sql.NullInt64
		var orderDate, shipDate, dueDate sql.NullTime
		var sales, price sql.NullFloat64
		if err := rows.Scan(&f.OrderNumber, &productSK, &customerSK, &orderDate, &shipDate, &dueDate, &sales, &quantity, &price); err != nil {
			return record.SalesFact{}, err
		}
		f.ProductSK = fromNullInt(productSK)
		f.CustomerSK = fromNullInt(customerSK)
		f.OrderDate = fromNullTime(orderDate)
		f.ShipDate = fromNullTime(shipDate)
		f.DueDate = fromNullTime(dueDate)
		f.Sales = fromNullFloat(sales)
		f.Quantity = fromNullInt(quantity)
		f.Price = fromNullFloat(price)
		return f, nil
	})
}
