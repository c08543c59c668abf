package warehouse

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Raw zone tables are landed with every column as text, so reading them is
// schema-on-read: each helper coerces one landed value into its working
// type and yields nil (or an invalid NullDecimal) when the text does not
// parse. Verbatim text is preserved for string fields; cleansing trims
// later.

func asString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func asInt64(ns sql.NullString) *int64 {
	if !ns.Valid {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(ns.String), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func asDecimal(ns sql.NullString) decimal.NullDecimal {
	if !ns.Valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(ns.String))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func asTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	s := strings.TrimSpace(ns.String)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// Typed-column helpers for reading the canonical and mart layers back.

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func fromNullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func fromNullFloat(nf sql.NullFloat64) decimal.NullDecimal {
	if !nf.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(nf.Float64), Valid: true}
}
