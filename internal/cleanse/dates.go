package cleanse

import (
	"fmt"
	"time"
)

// ParseDateCode parses an 8-digit yyyymmdd numeric into a date. Zero values,
// codes with more or fewer than 8 digits, and codes that do not form a real
// calendar date all degrade to nil; a malformed date is a data-quality
// finding, not an error.
func ParseDateCode(code *int64) *time.Time {
	if code == nil {
		return nil
	}
	v := *code
	if v < 10000000 || v > 99999999 {
		return nil
	}
	t, err := time.ParseInLocation("20060102", fmt.Sprintf("%d", v), time.UTC)
	if err != nil {
		return nil
	}
	return &t
}
