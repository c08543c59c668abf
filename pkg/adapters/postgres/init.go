package postgres

import (
	"log/slog"

	"github.com/stratify-labs/stratify/pkg/adapter"
)

func init() {
	adapter.Register("postgres", func(logger *slog.Logger) adapter.Adapter {
		return New(logger)
	})
}
