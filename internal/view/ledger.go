package view

import (
	"sort"
	"strings"

	"github.com/five82/stockpile/internal/inventory"
)

// Catalog indexes items for lookups by id and exact name.
type Catalog struct {
	byID   map[inventory.ID]inventory.Item
	byName map[string]inventory.Item
}

// NewCatalog indexes items. When names collide the first item wins.
func NewCatalog(items []inventory.Item) Catalog {
	c := Catalog{
		byID:   make(map[inventory.ID]inventory.Item, len(items)),
		byName: make(map[string]inventory.Item, len(items)),
	}
	for _, item := range items {
		if item.ID != "" {
			c.byID[item.ID] = item
		}
		if _, ok := c.byName[item.Name]; !ok {
			c.byName[item.Name] = item
		}
	}
	return c
}

// ByName returns the item whose name matches exactly.
func (c Catalog) ByName(name string) (inventory.Item, bool) {
	item, ok := c.byName[name]
	return item, ok
}

// ByID returns the item with the given id.
func (c Catalog) ByID(id inventory.ID) (inventory.Item, bool) {
	if id == "" {
		return inventory.Item{}, false
	}
	item, ok := c.byID[id]
	return item, ok
}

// ResolveItemName returns the current name of the transaction's item: by id
// when the item still exists, otherwise the name recorded on the row.
func (c Catalog) ResolveItemName(txn inventory.Transaction) string {
	if item, ok := c.ByID(txn.ItemID); ok {
		return item.Name
	}
	return txn.ItemName
}

// DateRange bounds a ledger query by whole days. A zero bound is open.
type DateRange struct {
	From inventory.Date
	To   inventory.Date
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains reports whether d falls within the range, both ends inclusive.
func (r DateRange) Contains(d inventory.Date) bool {
	if r.IsZero() {
		return true
	}
	if d.IsZero() {
		return false
	}
	t := d.StartOfDay()
	if !r.From.IsZero() && t.Before(r.From.StartOfDay()) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To.EndOfDay()) {
		return false
	}
	return true
}

// LedgerRow is a transaction paired with its resolved item name.
type LedgerRow struct {
	inventory.Transaction
	Name string
}

// FilterTransactions keeps rows whose resolved item name or remarks contain
// term (ignoring case) and whose date is within r. Order is preserved.
func FilterTransactions(txns []inventory.Transaction, term string, r DateRange, catalog Catalog) []LedgerRow {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]LedgerRow, 0, len(txns))
	for _, txn := range txns {
		name := catalog.ResolveItemName(txn)
		if needle != "" &&
			!strings.Contains(strings.ToLower(name), needle) &&
			!strings.Contains(strings.ToLower(txn.Remarks), needle) {
			continue
		}
		if !r.Contains(txn.Date) {
			continue
		}
		out = append(out, LedgerRow{Transaction: txn, Name: name})
	}
	return out
}

// Ledger returns the transactions view: newest date first, ties in server
// order, then filtered.
func Ledger(txns []inventory.Transaction, term string, r DateRange, catalog Catalog) []LedgerRow {
	sorted := make([]inventory.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	return FilterTransactions(sorted, term, r, catalog)
}
