package view

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/five82/stockpile/internal/inventory"
)

// Placeholder is shown where a value does not apply.
const Placeholder = "-"

// FormatDecimal rounds to 2 places and drops a trailing ".00".
func FormatDecimal(d decimal.Decimal) string {
	return strings.TrimSuffix(d.StringFixed(2), ".00")
}

// FormatQuantity renders an item's primary stock with its unit.
func FormatQuantity(item inventory.Item) string {
	if item.Unit == "" {
		return item.Quantity.String()
	}
	return item.Quantity.String() + " " + string(item.Unit)
}

// FormatAltQuantity renders an item's stock in its alternate unit. Without an
// alternate unit the placeholder is shown. A missing server value falls back
// to converting the primary quantity when a factor is known.
func FormatAltQuantity(item inventory.Item) string {
	if !item.HasAltUnit() {
		return Placeholder
	}
	switch {
	case item.AltQuantity.Valid:
		return FormatDecimal(item.AltQuantity.Decimal) + " " + string(item.AltUnit)
	case item.HasFactor():
		return FormatDecimal(ConvertToAlt(item.Quantity, item.Factor.Decimal)) + " " + string(item.AltUnit)
	}
	return Placeholder
}

// FormatConversion describes the unit relationship, for example "1 kg = 1000 g".
func FormatConversion(item inventory.Item) string {
	if !item.HasAltUnit() {
		return Placeholder
	}
	if !item.HasFactor() {
		return "Manual"
	}
	return "1 " + string(item.Unit) + " = " + item.Factor.Decimal.String() + " " + string(item.AltUnit)
}

// FormatTxnAltQty renders a transaction's alternate quantity or the placeholder.
func FormatTxnAltQty(txn inventory.Transaction) string {
	if !txn.AltQty.Valid {
		return Placeholder
	}
	return FormatDecimal(txn.AltQty.Decimal)
}

// FormatRate renders a transaction's rate or the placeholder.
func FormatRate(txn inventory.Transaction) string {
	if !txn.Rate.Valid {
		return Placeholder
	}
	return FormatDecimal(txn.Rate.Decimal)
}

// ConvertToAlt converts a primary quantity to the alternate unit.
func ConvertToAlt(qty, factor decimal.Decimal) decimal.Decimal {
	return qty.Mul(factor)
}

// ConvertToPrimary converts an alternate quantity back. It reports false
// for a zero factor.
func ConvertToPrimary(alt, factor decimal.Decimal) (decimal.Decimal, bool) {
	if factor.IsZero() {
		return decimal.Zero, false
	}
	return alt.Div(factor), true
}

// AutoAltQty is the alternate quantity a transaction form fills in: qty times
// the item's factor rounded to 2 places. It is absent when the item converts
// manually.
func AutoAltQty(qty decimal.Decimal, item inventory.Item) decimal.NullDecimal {
	if !item.HasFactor() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(ConvertToAlt(qty, item.Factor.Decimal).Round(2))
}
