package cleanse

import (
	"github.com/shopspring/decimal"

	"github.com/stratify-labs/stratify/internal/record"
)

// SalesLines cleanses the raw CRM sales extract: date-code parsing and the
// amount/price consistency repair. Inconsistent rows are corrected in
// place; nothing is dropped.
func SalesLines(raws []record.RawSalesLine) []record.SalesLine {
	lines := make([]record.SalesLine, 0, len(raws))
	for _, raw := range raws {
		sales, price := repairMeasures(raw.Sales, raw.Price, raw.Quantity)
		lines = append(lines, record.SalesLine{
			OrderNumber: trimmed(raw.OrderNumber),
			ProductKey:  trimmed(raw.ProductKey),
			CustomerID:  raw.CustomerID,
			OrderDate:   ParseDateCode(raw.OrderDate),
			ShipDate:    ParseDateCode(raw.ShipDate),
			DueDate:     ParseDateCode(raw.DueDate),
			Sales:       sales,
			Quantity:    raw.Quantity,
			Price:       price,
		})
	}
	return lines
}

// repairMeasures restores sales = quantity * |price| consistency.
//
// The sales amount is recomputed from quantity and the raw price whenever it
// is absent, non-positive, or disagrees with that product; otherwise the raw
// amount is kept. The price is derived from the (possibly repaired) sales
// amount only when the raw price is absent or non-positive.
func repairMeasures(sales, price decimal.NullDecimal, quantity *int64) (decimal.NullDecimal, decimal.NullDecimal) {
	if quantity != nil && price.Valid {
		expected := price.Decimal.Abs().Mul(decimal.NewFromInt(*quantity))
		if !sales.Valid || sales.Decimal.Sign() <= 0 || !sales.Decimal.Equal(expected) {
			sales = decimal.NullDecimal{Decimal: expected, Valid: true}
		}
	}

	if (!price.Valid || price.Decimal.Sign() <= 0) && sales.Valid && quantity != nil && *quantity != 0 {
		price = decimal.NullDecimal{
			Decimal: sales.Decimal.Div(decimal.NewFromInt(*quantity)),
			Valid:   true,
		}
	}

	return sales, price
}
