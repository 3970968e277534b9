package view

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/five82/stockpile/internal/inventory"
)

// Status labels used by the dashboard and its export.
const (
	StatusLow = "LOW"
	StatusOK  = "OK"
)

// IsLow reports whether stock is at or below the alert threshold.
func IsLow(item inventory.Item) bool {
	return item.Quantity.LessThanOrEqual(decimal.NewFromInt(int64(item.AlertQty)))
}

// SafetyGap is quantity minus alert threshold; negative means short.
func SafetyGap(item inventory.Item) decimal.Decimal {
	return item.Quantity.Sub(decimal.NewFromInt(int64(item.AlertQty)))
}

// Status returns StatusLow or StatusOK.
func Status(item inventory.Item) string {
	if IsLow(item) {
		return StatusLow
	}
	return StatusOK
}

// SortByName returns a copy ordered case-insensitively by name.
func SortByName(items []inventory.Item) []inventory.Item {
	out := cloneItems(items)
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// SortByPriority returns a copy ordered by ascending safety gap, deepest
// shortage first. Items with equal gaps stay in name order.
func SortByPriority(items []inventory.Item) []inventory.Item {
	out := SortByName(items)
	sort.SliceStable(out, func(i, j int) bool {
		return SafetyGap(out[i]).LessThan(SafetyGap(out[j]))
	})
	return out
}

// FilterItems keeps items whose name contains term, ignoring case. Order is
// preserved.
func FilterItems(items []inventory.Item, term string) []inventory.Item {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return cloneItems(items)
	}
	out := make([]inventory.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			out = append(out, item)
		}
	}
	return out
}

// Dashboard returns the rows the dashboard displays: filtered by term and
// ordered by priority when requested, by name otherwise.
func Dashboard(items []inventory.Item, term string, priority bool) []inventory.Item {
	if priority {
		return FilterItems(SortByPriority(items), term)
	}
	return FilterItems(SortByName(items), term)
}

// KPIs are the dashboard summary counts over the whole catalog.
type KPIs struct {
	Total int
	Low   int
}

// ComputeKPIs counts all items and the low ones.
func ComputeKPIs(items []inventory.Item) KPIs {
	k := KPIs{Total: len(items)}
	for _, item := range items {
		if IsLow(item) {
			k.Low++
		}
	}
	return k
}

func cloneItems(items []inventory.Item) []inventory.Item {
	out := make([]inventory.Item, len(items))
	copy(out, items)
	return out
}
