// Package rawzone lands source extracts into the raw schema. Each known
// extract is a CSV file in the raw data directory; landing preserves the
// file contents verbatim, with every column kept as text.
package rawzone

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/stratify-labs/stratify/pkg/adapter"
)

// Extract maps one source CSV file to its raw zone table.
type Extract struct {
	File  string
	Table string
}

// Extracts is the fixed manifest of source files the pipeline consumes.
var Extracts = []Extract{
	{File: "crm_customers.csv", Table: "raw.crm_customers"},
	{File: "crm_products.csv", Table: "raw.crm_products"},
	{File: "crm_sales.csv", Table: "raw.crm_sales"},
	{File: "erp_customer_demo.csv", Table: "raw.erp_customer_demo"},
	{File: "erp_customer_location.csv", Table: "raw.erp_customer_location"},
	{File: "erp_product_category.csv", Table: "raw.erp_product_category"},
}

// Loader lands the extract manifest through an adapter.
type Loader struct {
	adp    adapter.Adapter
	logger *slog.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(adp adapter.Adapter, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{adp: adp, logger: logger}
}

// Load lands every extract found in dir. All six files must be present;
// a missing extract aborts the load before anything is landed.
func (l *Loader) Load(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("raw data directory not configured")
	}

	paths := make([]string, len(Extracts))
	for i, ex := range Extracts {
		path := filepath.Join(dir, ex.File)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("missing extract %s in %s", ex.File, dir)
			}
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		paths[i] = path
	}

	for i, ex := range Extracts {
		l.logger.Debug("landing extract", slog.String("file", ex.File), slog.String("table", ex.Table))
		if err := l.adp.LoadCSV(ctx, ex.Table, paths[i]); err != nil {
			return fmt.Errorf("failed to land %s: %w", ex.File, err)
		}
	}

	l.logger.Info("raw zone loaded", slog.Int("extracts", len(Extracts)), slog.String("dir", dir))
	return nil
}
