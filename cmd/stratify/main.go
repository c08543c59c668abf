// Command stratify runs the CRM/ERP warehouse pipeline.
package main

import (
	"os"

	"github.com/stratify-labs/stratify/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
