package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CoerceAlertQty parses the leading integer of value the way a lenient form
// field would: "12" and "12.7" give 12, anything unparseable gives 0.
func CoerceAlertQty(value string) int {
	value = strings.TrimSpace(value)
	end := 0
	for end < len(value) {
		c := value[end]
		if c >= '0' && c <= '9' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

// ParseQuantity parses a decimal quantity typed by the user.
func ParseQuantity(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("quantity is required")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("quantity %q is not a number", value)
	}
	return d, nil
}

// ParseOptional parses an optional decimal field; blank and the wire
// sentinels yield an invalid NullDecimal.
func ParseOptional(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == sentinelNone || strings.EqualFold(value, sentinelManual) {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%q is not a number", value)
	}
	return decimal.NewNullDecimal(d), nil
}
