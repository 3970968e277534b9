package dispatch

import (
	"strconv"
	"strings"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/view"
)

// ItemDraft is the raw input of the item form.
type ItemDraft struct {
	Name     string
	Unit     string
	AltUnit  string
	Factor   string
	AlertQty string
}

// DraftFromItem pre-fills the form for editing.
func DraftFromItem(item inventory.Item) ItemDraft {
	d := ItemDraft{
		Name:     item.Name,
		Unit:     string(item.Unit),
		AltUnit:  string(item.AltUnit),
		AlertQty: strconv.Itoa(item.AlertQty),
	}
	if item.HasFactor() {
		d.Factor = item.Factor.Decimal.String()
	}
	return d
}

// Item validates the draft and converts it. The alert quantity is coerced
// leniently; a factor without an alternate unit is dropped.
func (d ItemDraft) Item() (inventory.Item, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return inventory.Item{}, invalid("name", "name is required")
	}
	unit, ok := inventory.ParseUnit(d.Unit)
	if !ok {
		return inventory.Item{}, invalid("unit", "unknown unit %q", strings.TrimSpace(d.Unit))
	}

	item := inventory.Item{
		Name:     name,
		Unit:     unit,
		AlertQty: inventory.CoerceAlertQty(d.AlertQty),
	}

	alt := strings.TrimSpace(d.AltUnit)
	if alt == "" || alt == view.Placeholder {
		return item, nil
	}
	altUnit, ok := inventory.ParseUnit(alt)
	if !ok {
		return inventory.Item{}, invalid("altUnit", "unknown unit %q", alt)
	}
	item.AltUnit = altUnit

	factor, err := inventory.ParseOptional(d.Factor)
	if err != nil {
		return inventory.Item{}, invalid("factor", "%v", err)
	}
	if factor.Valid && !factor.Decimal.IsPositive() {
		return inventory.Item{}, invalid("factor", "factor must be greater than zero")
	}
	item.Factor = factor
	return item, nil
}

// TransactionDraft is the raw input of the transaction form.
type TransactionDraft struct {
	Date     string // YYYY-MM-DD; blank means today
	ItemName string
	Type     string
	Quantity string
	AltQty   string // used only when the item has no factor
	Rate     string
	Remarks  string
}

// DraftFromTransaction pre-fills the form for editing.
func DraftFromTransaction(txn inventory.Transaction, name string) TransactionDraft {
	d := TransactionDraft{
		Date:     txn.Date.String(),
		ItemName: name,
		Type:     string(txn.Type),
		Quantity: txn.Quantity.String(),
		Remarks:  txn.Remarks,
	}
	if txn.AltQty.Valid {
		d.AltQty = txn.AltQty.Decimal.String()
	}
	if txn.Rate.Valid {
		d.Rate = txn.Rate.Decimal.String()
	}
	return d
}

// Transaction validates the draft against the catalog and converts it.
// The item reference, units and automatic alternate quantity come from the
// matched item. Rate is dropped for OUT movements.
func (d TransactionDraft) Transaction(catalog view.Catalog) (inventory.Transaction, error) {
	name := strings.TrimSpace(d.ItemName)
	if name == "" {
		return inventory.Transaction{}, invalid("itemName", "item is required")
	}
	item, ok := catalog.ByName(name)
	if !ok {
		return inventory.Transaction{}, invalid("itemName", "no item named %q", name)
	}

	dir, ok := inventory.ParseDirection(d.Type)
	if !ok {
		return inventory.Transaction{}, invalid("type", "type must be IN or OUT")
	}

	qty, err := inventory.ParseQuantity(d.Quantity)
	if err != nil {
		return inventory.Transaction{}, invalid("quantity", "%v", err)
	}
	if !qty.IsPositive() {
		return inventory.Transaction{}, invalid("quantity", "quantity must be greater than zero")
	}

	date := inventory.Today()
	if strings.TrimSpace(d.Date) != "" {
		date, err = inventory.ParseDate(d.Date)
		if err != nil {
			return inventory.Transaction{}, invalid("date", "%v", err)
		}
	}

	txn := inventory.Transaction{
		Date:     date,
		ItemID:   item.ID,
		ItemName: item.Name,
		Type:     dir,
		Quantity: qty,
		Remarks:  strings.TrimSpace(d.Remarks),
		Unit:     item.Unit,
		AltUnit:  item.AltUnit,
	}

	switch {
	case item.HasFactor():
		txn.AltQty = view.AutoAltQty(qty, item)
	case item.HasAltUnit():
		alt, err := inventory.ParseOptional(d.AltQty)
		if err != nil {
			return inventory.Transaction{}, invalid("altQty", "%v", err)
		}
		txn.AltQty = alt
	}

	if dir == inventory.In {
		rate, err := inventory.ParseOptional(d.Rate)
		if err != nil {
			return inventory.Transaction{}, invalid("rate", "%v", err)
		}
		if rate.Valid && rate.Decimal.IsNegative() {
			return inventory.Transaction{}, invalid("rate", "rate cannot be negative")
		}
		txn.Rate = rate
	}
	return txn, nil
}
