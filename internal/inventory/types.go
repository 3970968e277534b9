package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Wire sentinels used by the Remote Store for "no value".
const (
	sentinelNone   = "-"
	sentinelManual = "Manual"
)

// ID is a server-assigned identifier. The API has served both numeric and
// string ids, so decoding accepts either.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Unit is a unit of measure from the fixed catalog.
type Unit string

// Units lists the accepted units in display order.
var Units = []Unit{"pcs", "nos", "set", "kg", "g", "can", "mtr", "feet", "roll", "pkt", "ltr", "box"}

// ParseUnit reports whether value names a known unit.
func ParseUnit(value string) (Unit, bool) {
	value = strings.TrimSpace(value)
	for _, u := range Units {
		if string(u) == value {
			return u, true
		}
	}
	return "", false
}

// normalizeUnit maps the wire sentinels for "no unit" to the empty Unit.
func normalizeUnit(value string) Unit {
	value = strings.TrimSpace(value)
	if value == "" || value == sentinelNone {
		return ""
	}
	return Unit(value)
}

// Direction is the stock movement type of a transaction.
type Direction string

const (
	In  Direction = "IN"
	Out Direction = "OUT"
)

// ParseDirection accepts IN/OUT in any case.
func ParseDirection(value string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(In):
		return In, true
	case string(Out):
		return Out, true
	}
	return "", false
}

// Date is a calendar date without time-of-day semantics. The zero value
// means "unset".
type Date struct {
	t time.Time
}

// NewDate builds a Date in the local time zone.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// DateOf truncates t to its local calendar date.
func DateOf(t time.Time) Date {
	t = t.In(time.Local)
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current local date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses YYYY-MM-DD. RFC3339 timestamps are accepted and reduced
// to their date part as written, without zone conversion.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Date{}, nil
	}
	day := value
	if len(value) != len(dateLayout) {
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
		}
		day = value[:len(dateLayout)]
	}
	if t, err := time.ParseInLocation(dateLayout, day, time.Local); err == nil {
		return Date{t: t}, nil
	}
	return Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns local midnight of the date.
func (d Date) Time() time.Time { return d.t }

// StartOfDay returns 00:00:00.000 local time of the date.
func (d Date) StartOfDay() time.Time { return d.t }

// EndOfDay returns 23:59:59.999 local time of the date.
func (d Date) EndOfDay() time.Time {
	return d.t.Add(24*time.Hour - time.Millisecond)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dateLayout)
}

// MarshalJSON writes YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads YYYY-MM-DD or an RFC3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Item is a stock-keeping unit in the catalog.
type Item struct {
	ID       ID
	Name     string
	Unit     Unit
	AltUnit  Unit                // empty when the item has no secondary unit
	Factor   decimal.NullDecimal // 1 Unit = Factor AltUnit; invalid means manual conversion
	AlertQty int
	// Quantity is the server-maintained running balance. The client never
	// writes it.
	Quantity    decimal.Decimal
	AltQuantity decimal.NullDecimal
}

// HasAltUnit reports whether a secondary unit is configured.
func (i Item) HasAltUnit() bool { return i.AltUnit != "" }

// HasFactor reports whether quantities convert automatically to AltUnit.
func (i Item) HasFactor() bool { return i.HasAltUnit() && i.Factor.Valid }

type itemWire struct {
	ID          ID              `json:"id,omitempty"`
	Name        string          `json:"name"`
	Unit        string          `json:"unit"`
	AltUnit     string          `json:"altUnit"`
	Factor      json.RawMessage `json:"factor,omitempty"`
	AlertQty    json.RawMessage `json:"alertQty,omitempty"`
	Quantity    json.RawMessage `json:"quantity,omitempty"`
	AltQuantity json.RawMessage `json:"altQuantity,omitempty"`
}

// MarshalJSON encodes the editable fields using the Remote Store's sentinel
// conventions. Quantity and AltQuantity are server-owned and never sent.
func (i Item) MarshalJSON() ([]byte, error) {
	wire := itemWire{
		ID:      i.ID,
		Name:    i.Name,
		Unit:    string(i.Unit),
		AltUnit: sentinelNone,
	}
	factor := sentinelNone
	var factorRaw json.RawMessage
	if i.HasAltUnit() {
		wire.AltUnit = string(i.AltUnit)
		factor = sentinelManual
		if i.Factor.Valid {
			factorRaw = json.RawMessage(i.Factor.Decimal.String())
		}
	}
	if factorRaw == nil {
		factorRaw, _ = json.Marshal(factor)
	}
	wire.Factor = factorRaw
	wire.AlertQty = json.RawMessage(strconv.Itoa(i.AlertQty))
	return json.Marshal(wire)
}

// UnmarshalJSON decodes an item, mapping sentinels to absent values.
func (i *Item) UnmarshalJSON(data []byte) error {
	var wire itemWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	qty, err := decodeNumber(wire.Quantity)
	if err != nil {
		return fmt.Errorf("item %q quantity: %w", wire.Name, err)
	}
	alert, err := decodeNumber(wire.AlertQty)
	if err != nil {
		return fmt.Errorf("item %q alertQty: %w", wire.Name, err)
	}
	factor, err := decodeNumber(wire.Factor)
	if err != nil {
		return fmt.Errorf("item %q factor: %w", wire.Name, err)
	}
	altQty, err := decodeNumber(wire.AltQuantity)
	if err != nil {
		return fmt.Errorf("item %q altQuantity: %w", wire.Name, err)
	}

	*i = Item{
		ID:          wire.ID,
		Name:        wire.Name,
		Unit:        normalizeUnit(wire.Unit),
		AltUnit:     normalizeUnit(wire.AltUnit),
		Factor:      factor,
		AlertQty:    int(alert.Decimal.IntPart()),
		Quantity:    qty.Decimal,
		AltQuantity: altQty,
	}
	if i.AltUnit == "" {
		i.Factor = decimal.NullDecimal{}
	}
	return nil
}

// Transaction is a single stock movement.
type Transaction struct {
	ID   ID
	Date Date
	// ItemID links to the catalog item when the server records it. Older
	// rows only carry ItemName.
	ItemID   ID
	ItemName string
	Type     Direction
	Quantity decimal.Decimal
	AltQty   decimal.NullDecimal
	Rate     decimal.NullDecimal
	Remarks  string
	Unit     Unit
	AltUnit  Unit
}

type transactionWire struct {
	ID       ID              `json:"id,omitempty"`
	Date     Date            `json:"date"`
	ItemID   ID              `json:"itemId,omitempty"`
	ItemName string          `json:"itemName"`
	Type     string          `json:"type"`
	Quantity json.RawMessage `json:"quantity"`
	AltQty   json.RawMessage `json:"altQty,omitempty"`
	Rate     json.RawMessage `json:"rate,omitempty"`
	Remarks  string          `json:"remarks"`
	Unit     string          `json:"unit,omitempty"`
	AltUnit  string          `json:"altUnit,omitempty"`
}

// MarshalJSON encodes the transaction with numeric quantities.
func (t Transaction) MarshalJSON() ([]byte, error) {
	wire := transactionWire{
		ID:       t.ID,
		Date:     t.Date,
		ItemID:   t.ItemID,
		ItemName: t.ItemName,
		Type:     string(t.Type),
		Quantity: json.RawMessage(t.Quantity.String()),
		Remarks:  t.Remarks,
		Unit:     string(t.Unit),
		AltUnit:  string(t.AltUnit),
	}
	if t.AltQty.Valid {
		wire.AltQty = json.RawMessage(t.AltQty.Decimal.String())
	}
	if t.Rate.Valid {
		wire.Rate = json.RawMessage(t.Rate.Decimal.String())
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a transaction leniently: empty strings and
// sentinels become absent values.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var wire transactionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	qty, err := decodeNumber(wire.Quantity)
	if err != nil {
		return fmt.Errorf("transaction %s quantity: %w", wire.ID, err)
	}
	altQty, err := decodeNumber(wire.AltQty)
	if err != nil {
		return fmt.Errorf("transaction %s altQty: %w", wire.ID, err)
	}
	rate, err := decodeNumber(wire.Rate)
	if err != nil {
		return fmt.Errorf("transaction %s rate: %w", wire.ID, err)
	}
	dir, _ := ParseDirection(wire.Type)

	*t = Transaction{
		ID:       wire.ID,
		Date:     wire.Date,
		ItemID:   wire.ItemID,
		ItemName: wire.ItemName,
		Type:     dir,
		Quantity: qty.Decimal,
		AltQty:   altQty,
		Rate:     rate,
		Remarks:  wire.Remarks,
		Unit:     normalizeUnit(wire.Unit),
		AltUnit:  normalizeUnit(wire.AltUnit),
	}
	return nil
}

// Credentials is the /login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Account is the /login success payload.
type Account struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

// decodeNumber reads a JSON number, numeric string, null or sentinel.
// Sentinels and empty strings decode as an invalid NullDecimal.
func decodeNumber(raw json.RawMessage) (decimal.NullDecimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.NullDecimal{}, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.NullDecimal{}, err
		}
		s = strings.TrimSpace(s)
		if s == "" || s == sentinelNone || strings.EqualFold(s, sentinelManual) {
			return decimal.NullDecimal{}, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.NullDecimal{}, fmt.Errorf("not a number: %q", s)
		}
		return decimal.NewNullDecimal(d), nil
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("not a number: %s", raw)
	}
	return decimal.NewNullDecimal(d), nil
}
