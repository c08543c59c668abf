package rawzone

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stratify-labs/stratify/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAdapter captures LoadCSV calls.
type recordingAdapter struct {
	adapter.BaseSQLAdapter
	loaded  map[string]string
	failOn  string
	failErr error
}

func (r *recordingAdapter) Connect(context.Context, adapter.Config) error { return nil }
func (r *recordingAdapter) Placeholder(int) string                        { return "?" }
func (r *recordingAdapter) DialectName() string                           { return "recording" }

func (r *recordingAdapter) Query(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, nil
}

func (r *recordingAdapter) LoadCSV(_ context.Context, table, path string) error {
	if table == r.failOn {
		return r.failErr
	}
	if r.loaded == nil {
		r.loaded = make(map[string]string)
	}
	r.loaded[table] = path
	return nil
}

func writeExtracts(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("id\n1\n"), 0o600))
	}
	return dir
}

func allExtractFiles() []string {
	files := make([]string, len(Extracts))
	for i, ex := range Extracts {
		files[i] = ex.File
	}
	return files
}

func TestLoader_Load(t *testing.T) {
	dir := writeExtracts(t, allExtractFiles()...)

	adp := &recordingAdapter{}
	loader := NewLoader(adp, nil)

	require.NoError(t, loader.Load(context.Background(), dir))
	require.Len(t, adp.loaded, len(Extracts))
	assert.Equal(t, filepath.Join(dir, "crm_sales.csv"), adp.loaded["raw.crm_sales"])
	assert.Equal(t, filepath.Join(dir, "erp_product_category.csv"), adp.loaded["raw.erp_product_category"])
}

func TestLoader_MissingExtractAbortsBeforeLanding(t *testing.T) {
	// Everything except the sales extract.
	var files []string
	for _, f := range allExtractFiles() {
		if f != "crm_sales.csv" {
			files = append(files, f)
		}
	}
	dir := writeExtracts(t, files...)

	adp := &recordingAdapter{}
	loader := NewLoader(adp, nil)

	err := loader.Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm_sales.csv")
	assert.Empty(t, adp.loaded, "nothing should land when the manifest is incomplete")
}

func TestLoader_EmptyDir(t *testing.T) {
	loader := NewLoader(&recordingAdapter{}, nil)
	assert.Error(t, loader.Load(context.Background(), ""))
}

func TestLoader_LandingFailure(t *testing.T) {
	dir := writeExtracts(t, allExtractFiles()...)

	adp := &recordingAdapter{failOn: "raw.crm_products", failErr: assert.AnError}
	loader := NewLoader(adp, nil)

	err := loader.Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crm_products.csv")
}
