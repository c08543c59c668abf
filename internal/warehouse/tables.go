package warehouse

// tableDef describes a rebuilt warehouse table: its qualified name, column
// DDL, and insert column list. Types are limited to what DuckDB and
// PostgreSQL both accept.
type tableDef struct {
	name    string
	ddl     string
	columns []string
}

var (
	customersTable = tableDef{
		name: "canonical.customers",
		ddl: `id BIGINT NOT NULL,
	key VARCHAR NOT NULL,
	first_name VARCHAR NOT NULL,
	last_name VARCHAR NOT NULL,
	marital_status VARCHAR NOT NULL,
	gender VARCHAR NOT NULL,
	created DATE`,
		columns: []string{"id", "key", "first_name", "last_name", "marital_status", "gender", "created"},
	}

	productsTable = tableDef{
		name: "canonical.products",
		ddl: `id BIGINT NOT NULL,
	category_id VARCHAR NOT NULL,
	key VARCHAR NOT NULL,
	name VARCHAR NOT NULL,
	cost DOUBLE PRECISION NOT NULL,
	line VARCHAR NOT NULL,
	start_date DATE,
	end_date DATE`,
		columns: []string{"id", "category_id", "key", "name", "cost", "line", "start_date", "end_date"},
	}

	salesTable = tableDef{
		name: "canonical.sales",
		ddl: `order_number VARCHAR NOT NULL,
	product_key VARCHAR NOT NULL,
	customer_id BIGINT,
	order_date DATE,
	ship_date DATE,
	due_date DATE,
	sales DOUBLE PRECISION,
	quantity BIGINT,
	price DOUBLE PRECISION`,
		columns: []string{"order_number", "product_key", "customer_id", "order_date", "ship_date", "due_date", "sales", "quantity", "price"},
	}

	customerDemoTable = tableDef{
		name: "canonical.customer_demo",
		ddl: `id VARCHAR NOT NULL,
	birthdate DATE,
	gender VARCHAR NOT NULL`,
		columns: []string{"id", "birthdate", "gender"},
	}

	customerLocationsTable = tableDef{
		name: "canonical.customer_locations",
		ddl: `id VARCHAR NOT NULL,
	country VARCHAR NOT NULL`,
		columns: []string{"id", "country"},
	}

	productCategoriesTable = tableDef{
		name: "canonical.product_categories",
		ddl: `id VARCHAR NOT NULL,
	category VARCHAR,
	subcategory VARCHAR,
	maintenance VARCHAR`,
		columns: []string{"id", "category", "subcategory", "maintenance"},
	}

	customerDimTable = tableDef{
		name: "mart.dim_customers",
		ddl: `customer_sk BIGINT NOT NULL,
	customer_id BIGINT NOT NULL,
	customer_key VARCHAR NOT NULL,
	first_name VARCHAR NOT NULL,
	last_name VARCHAR NOT NULL,
	country VARCHAR NOT NULL,
	marital_status VARCHAR NOT NULL,
	gender VARCHAR NOT NULL,
	birthdate DATE,
	created DATE`,
		columns: []string{"customer_sk", "customer_id", "customer_key", "first_name", "last_name", "country", "marital_status", "gender", "birthdate", "created"},
	}

	productDimTable = tableDef{
		name: "mart.dim_products",
		ddl: `product_sk BIGINT NOT NULL,
	product_id BIGINT NOT NULL,
	product_key VARCHAR NOT NULL,
	name VARCHAR NOT NULL,
	category_id VARCHAR NOT NULL,
	category VARCHAR,
	subcategory VARCHAR,
	maintenance VARCHAR,
	cost DOUBLE PRECISION NOT NULL,
	line VARCHAR NOT NULL,
	start_date DATE`,
		columns: []string{"product_sk", "product_id", "product_key", "name", "category_id", "category", "subcategory", "maintenance", "cost", "line", "start_date"},
	}

	salesFactTable = tableDef{
		name: "mart.fact_sales",
		ddl: `order_number VARCHAR NOT NULL,
	product_sk BIGINT,
	customer_sk BIGINT,
	order_date DATE,
	ship_date DATE,
	due_date DATE,
	sales DOUBLE PRECISION,
	quantity BIGINT,
	price DOUBLE PRECISION`,
		columns: []string{"order_number", "product_sk", "customer_sk", "order_date", "ship_date", "due_date", "sales", "quantity", "price"},
	}
)
