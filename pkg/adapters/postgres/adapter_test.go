package postgres

import (
	"testing"

	"github.com/stratify-labs/stratify/pkg/adapter"
	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "warehouse",
				User:     "etl",
				Password: "secret",
			},
			expected: "host=localhost port=5432 dbname=warehouse sslmode=disable user=etl password=secret",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "warehouse",
				User:     "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=warehouse sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "warehouse",
			},
			expected: "host=localhost port=5432 dbname=warehouse sslmode=disable",
		},
		{
			name: "custom port",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				User:     "analyst",
			},
			expected: "host=db.example.com port=5433 dbname=analytics sslmode=disable user=analyst",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildDSN(tt.config))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	adp := New(nil)
	assert.Equal(t, "$1", adp.Placeholder(1))
	assert.Equal(t, "$12", adp.Placeholder(12))
	assert.Equal(t, "postgres", adp.DialectName())
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "cst_id", "cst_id"},
		{"spaces replaced", "first name", "first_name"},
		{"dashes replaced", "prd-key", "prd_key"},
		{"reserved word quoted", "order", `"order"`},
		{"reserved word case insensitive", "SELECT", `"SELECT"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeIdentifier(tt.input))
		})
	}
}
