package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stratify-labs/stratify/internal/record"
	"github.com/stratify-labs/stratify/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter is an adapter.Adapter over a sqlmock connection.
type mockAdapter struct {
	adapter.BaseSQLAdapter
}

func (m *mockAdapter) Connect(context.Context, adapter.Config) error { return nil }
func (m *mockAdapter) Placeholder(int) string                        { return "?" }
func (m *mockAdapter) LoadCSV(context.Context, string, string) error { return nil }
func (m *mockAdapter) DialectName() string                           { return "mock" }

func newMockWarehouse(t *testing.T) (*Warehouse, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	adp := &mockAdapter{BaseSQLAdapter: adapter.BaseSQLAdapter{DB: db}}
	return New(adp, nil), mock
}

func TestWriteCustomerLocations_SwapSequence(t *testing.T) {
	w, mock := newMockWarehouse(t)

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS canonical`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS canonical\.customer_locations__swap`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE canonical\.customer_locations__swap`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO canonical\.customer_locations__swap \(id, country\) VALUES \(\?, \?\), \(\?, \?\)`).
		WithArgs("AW00011000", "Australia", "AW00011001", "Germany").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DROP TABLE IF EXISTS canonical\.customer_locations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE canonical\.customer_locations__swap RENAME TO customer_locations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := w.WriteCustomerLocations(context.Background(), []record.CustomerLocation{
		{ID: "AW00011000", Country: "Australia"},
		{ID: "AW00011001", Country: "Germany"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteCustomers_EmptySetStillPublishes(t *testing.T) {
	w, mock := newMockWarehouse(t)

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS canonical`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS canonical\.customers__swap`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE canonical\.customers__swap`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS canonical\.customers`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE canonical\.customers__swap RENAME TO customers`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, w.WriteCustomers(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteSalesFacts_NullColumns(t *testing.T) {
	w, mock := newMockWarehouse(t)

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS mart`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DROP TABLE IF EXISTS mart\.fact_sales__swap`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE mart\.fact_sales__swap`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO mart\.fact_sales__swap`).
		WithArgs("SO43697", nil, nil, nil, nil, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DROP TABLE IF EXISTS mart\.fact_sales`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ALTER TABLE mart\.fact_sales__swap RENAME TO fact_sales`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := w.WriteSalesFacts(context.Background(), []record.SalesFact{
		{OrderNumber: "SO43697"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRawCustomers_CoercesLandedText(t *testing.T) {
	w, mock := newMockWarehouse(t)

	rows := sqlmock.NewRows([]string{"id", "key", "first_name", "last_name", "marital_status", "gender", "created"}).
		AddRow("11000", "AW00011000", " Jon ", "Yang", "M", "M", "2025-10-06").
		AddRow("not-a-number", nil, "Eugene", "Huang", "S", "bad-date", "oops")

	mock.ExpectQuery(`SELECT id, key, first_name, last_name, marital_status, gender, created FROM raw\.crm_customers`).
		WillReturnRows(rows)

	got, err := w.RawCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.NotNil(t, got[0].ID)
	assert.Equal(t, int64(11000), *got[0].ID)
	assert.Equal(t, " Jon ", *got[0].FirstName)
	require.NotNil(t, got[0].Created)
	assert.Equal(t, time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC), *got[0].Created)

	assert.Nil(t, got[1].ID, "unparseable int lands as null")
	assert.Nil(t, got[1].Key)
	assert.Nil(t, got[1].Created, "unparseable date lands as null")
}

func TestRawSalesLines_CoercesMeasures(t *testing.T) {
	w, mock := newMockWarehouse(t)

	rows := sqlmock.NewRows([]string{"order_number", "product_key", "customer_id", "order_date", "ship_date", "due_date", "sales", "quantity", "price"}).
		AddRow("SO43697", "BK-R93R-62", "21768", "20101229", "20110105", "20110110", "3578.27", "1", "3578.27").
		AddRow("SO43698", "BK-M82S-44", nil, "0", nil, nil, "abc", "2", nil)

	mock.ExpectQuery(`FROM raw\.crm_sales`).WillReturnRows(rows)

	got, err := w.RawSalesLines(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.True(t, got[0].Sales.Valid)
	assert.True(t, got[0].Sales.Decimal.Equal(decimal.RequireFromString("3578.27")))
	require.NotNil(t, got[0].OrderDate)
	assert.Equal(t, int64(20101229), *got[0].OrderDate)

	assert.False(t, got[1].Sales.Valid, "non-numeric sales lands as null")
	require.NotNil(t, got[1].OrderDate)
	assert.Equal(t, int64(0), *got[1].OrderDate)
	assert.Nil(t, got[1].CustomerID)
}

func TestCustomers_ReadsTypedRows(t *testing.T) {
	w, mock := newMockWarehouse(t)

	created := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "key", "first_name", "last_name", "marital_status", "gender", "created"}).
		AddRow(int64(11000), "AW00011000", "Jon", "Yang", "Married", "Male", created).
		AddRow(int64(11001), "AW00011001", "Eugene", "Huang", "Single", "Male", nil)

	mock.ExpectQuery(`FROM canonical\.customers`).WillReturnRows(rows)

	got, err := w.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(11000), got[0].ID)
	require.NotNil(t, got[0].Created)
	assert.True(t, created.Equal(*got[0].Created))
	assert.Nil(t, got[1].Created)
}
