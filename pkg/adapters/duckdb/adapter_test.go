package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stratify-labs/stratify/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_Connect(t *testing.T) {
	tests := []struct {
		name      string
		setupPath func(t *testing.T) string
		verify    func(t *testing.T, path string)
	}{
		{
			name: "in-memory",
			setupPath: func(_ *testing.T) string {
				return ":memory:"
			},
		},
		{
			name: "empty path defaults to in-memory",
			setupPath: func(_ *testing.T) string {
				return ""
			},
		},
		{
			name: "file-based",
			setupPath: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "test.duckdb")
			},
			verify: func(t *testing.T, path string) {
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "database file was not created")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			dbPath := tt.setupPath(t)
			require.NoError(t, adp.Connect(ctx, adapter.Config{Database: dbPath}))
			defer func() { _ = adp.Close() }()

			if tt.verify != nil {
				tt.verify(t, dbPath)
			}
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "load csv without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.LoadCSV(ctx, "raw.crm_customers", "customers.csv")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			adp := New(nil)

			err := tt.operation(ctx, adp)
			assert.Error(t, err, "expected error when operating without connection")
		})
	}
}

func TestAdapter_LoadCSV(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Database: ":memory:"}))
	defer func() { _ = adp.Close() }()

	csvPath := filepath.Join(t.TempDir(), "crm_customers.csv")
	content := "cst_id,cst_key,cst_firstname\n29466,AW00029466, Jon \n29467,AW00029467,Eugene\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o600))

	require.NoError(t, adp.LoadCSV(ctx, "raw.crm_customers", csvPath))

	rows, err := adp.Query(ctx, "SELECT cst_id, cst_firstname FROM raw.crm_customers ORDER BY cst_id")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var got [][2]string
	for rows.Next() {
		var id, first string
		require.NoError(t, rows.Scan(&id, &first))
		got = append(got, [2]string{id, first})
	}
	require.NoError(t, rows.Err())

	// Landed values stay verbatim, whitespace included.
	assert.Equal(t, [][2]string{{"29466", " Jon "}, {"29467", "Eugene"}}, got)
}

func TestAdapter_LoadCSV_Replaces(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, adapter.Config{Database: ":memory:"}))
	defer func() { _ = adp.Close() }()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	require.NoError(t, os.WriteFile(first, []byte("id\n1\n2\n3\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("id\n9\n"), 0o600))

	require.NoError(t, adp.LoadCSV(ctx, "raw.items", first))
	require.NoError(t, adp.LoadCSV(ctx, "raw.items", second))

	rows, err := adp.Query(ctx, "SELECT COUNT(*) FROM raw.items")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	require.True(t, rows.Next())
	var count int
	require.NoError(t, rows.Scan(&count))
	require.NoError(t, rows.Err())
	assert.Equal(t, 1, count)
}

func TestAdapter_Placeholder(t *testing.T) {
	adp := New(nil)
	assert.Equal(t, "?", adp.Placeholder(1))
	assert.Equal(t, "?", adp.Placeholder(5))
	assert.Equal(t, "duckdb", adp.DialectName())
}
