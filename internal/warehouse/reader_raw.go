package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stratify-labs/stratify/internal/record"
)

// RawCustomers reads the landed CRM customer extract.
func (w *Warehouse) RawCustomers(ctx context.Context) ([]record.RawCustomer, error) {
	const query = "SELECT id, key, first_name, last_name, marital_status, gender, created FROM raw.crm_customers"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.RawCustomer, error) {
		var id, key, first, last, marital, gender, created sql.NullString
		if err := rows.Scan(&id, &key, &first, &last, &marital, &gender, &created); err != nil {
			return record.RawCustomer{}, err
		}
		return record.RawCustomer{
			ID:            asInt64(id),
			Key:           asString(key),
			FirstName:     asString(first),
			LastName:      asString(last),
			MaritalStatus: asString(marital),
			Gender:        asString(gender),
			Created:       asTime(created),
		}, nil
	})
}

// RawProducts reads the landed CRM product extract.
func (w *Warehouse) RawProducts(ctx context.Context) ([]record.RawProduct, error) {
	const query = "SELECT id, key, name, cost, line, start_date FROM raw.crm_products"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.RawProduct, error) {
		var id, key, name, cost, line, start sql.NullString
		if err := rows.Scan(&id, &key, &name, &cost, &line, &start); err != nil {
			return record.RawProduct{}, err
		}
		return record.RawProduct{
			ID:        asInt64(id),
			Key:       asString(key),
			Name:      asString(name),
			Cost:      asDecimal(cost),
			Line:      asString(line),
			StartDate: asTime(start),
		}, nil
	})
}

// RawSalesLines reads the landed CRM sales detail extract.
func (w *Warehouse) RawSalesLines(ctx context.Context) ([]record.RawSalesLine, error) {
	const query = "SELECT order_number, product_key, customer_id, order_date, ship_date, due_date, sales, quantity, price FROM raw.crm_sales"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.RawSalesLine, error) {
		var order, product, customer, orderDate, shipDate, dueDate, sales, quantity, price sql.NullString
		if err := rows.Scan(&order, &product, &customer, &orderDate, &shipDate, &dueDate, &sales, &quantity, &price); err != nil {
			return record.RawSalesLine{}, err
		}
		return record.RawSalesLine{
			OrderNumber: asString(order),
			ProductKey:  asString(product),
			CustomerID:  asInt64(customer),
			OrderDate:   asInt64(orderDate),
			ShipDate:    asInt64(shipDate),
			DueDate:     asInt64(dueDate),
			Sales:       asDecimal(sales),
			Quantity:    asInt64(quantity),
			Price:       asDecimal(price),
		}, nil
	})
}

// RawCustomerDemos reads the landed ERP demographics extract.
func (w *Warehouse) RawCustomerDemos(ctx context.Context) ([]record.RawCustomerDemo, error) {
	const query = "SELECT id, birthdate, gender FROM raw.erp_customer_demo"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.RawCustomerDemo, error) {
		var id, birthdate, gender sql.NullString
		if err := rows.Scan(&id, &birthdate, &gender); err != nil {
			return record.RawCustomerDemo{}, err
		}
		return record.RawCustomerDemo{
			ID:        asString(id),
			Birthdate: asTime(birthdate),
			Gender:    asString(gender),
		}, nil
	})
}

// RawCustomerLocations reads the landed ERP location extract.
func (w *Warehouse) RawCustomerLocations(ctx context.Context) ([]record.RawCustomerLocation, error) {
	const query = "SELECT id, country FROM raw.erp_customer_location"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.RawCustomerLocation, error) {
		var id, country sql.NullString
		if err := rows.Scan(&id, &country); err != nil {
			return record.RawCustomerLocation{}, err
		}
		return record.RawCustomerLocation{
			ID:      asString(id),
			Country: asString(country),
		}, nil
	})
}

// RawProductCategories reads the landed ERP category reference extract.
func (w *Warehouse) RawProductCategories(ctx context.Context) ([]record.RawProductCategory, error) {
	const query = "SELECT id, category, subcategory, maintenance FROM raw.erp_product_category"
	return readAll(ctx, w, query, func(rows *sql.Rows) (record.RawProductCategory, error) {
		var id, category, subcategory, maintenance sql.NullString
		if err := rows.Scan(&id, &category, &subcategory, &maintenance); err != nil {
			return record.RawProductCategory{}, err
		}
		return record.RawProductCategory{
			ID:          asString(id),
			Category:    asString(category),
			Subcategory: asString(subcategory),
			Maintenance: asString(maintenance),
		}, nil
	})
}

// readAll runs a query and scans every row with scan.
func readAll[T any](ctx context.Context, w *Warehouse, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := w.adp.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
