// Package warehouse reads and writes the raw, canonical, and mart layers of
// the target database through a pkg/adapter connection. Layer tables are
// never updated in place: writers rebuild into a staging table and swap it
// under the published name.
package warehouse

import (
	"log/slog"

	"github.com/stratify-labs/stratify/pkg/adapter"
)

// Warehouse provides typed access to one warehouse target.
type Warehouse struct {
	adp    adapter.Adapter
	logger *slog.Logger
}

// New creates a Warehouse over a connected adapter. A nil logger discards
// output.
func New(adp adapter.Adapter, logger *slog.Logger) *Warehouse {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Warehouse{adp: adp, logger: logger}
}
