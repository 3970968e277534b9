package inventory

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestItem_UnmarshalMapsSentinelsToAbsent(t *testing.T) {
	var item Item
	payload := `{"id":7,"name":"Bolt","unit":"pcs","altUnit":"-","factor":"-","alertQty":"10","quantity":12}`
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if item.ID != "7" {
		t.Fatalf("ID = %q, want 7", item.ID)
	}
	if item.HasAltUnit() || item.Factor.Valid {
		t.Fatalf("AltUnit=%q Factor=%v, want both absent", item.AltUnit, item.Factor)
	}
	if item.AlertQty != 10 {
		t.Fatalf("AlertQty = %d, want 10", item.AlertQty)
	}
	if !item.Quantity.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("Quantity = %s, want 12", item.Quantity)
	}
}

func TestItem_UnmarshalManualFactor(t *testing.T) {
	var item Item
	payload := `{"id":"a1","name":"Wire","unit":"roll","altUnit":"mtr","factor":"Manual","alertQty":2,"quantity":"3.5","altQuantity":40}`
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if item.AltUnit != "mtr" {
		t.Fatalf("AltUnit = %q, want mtr", item.AltUnit)
	}
	if item.HasFactor() {
		t.Fatalf("HasFactor = true, want false for Manual")
	}
	if !item.AltQuantity.Valid || !item.AltQuantity.Decimal.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("AltQuantity = %v, want 40", item.AltQuantity)
	}
	if !item.Quantity.Equal(decimal.RequireFromString("3.5")) {
		t.Fatalf("Quantity = %s, want 3.5", item.Quantity)
	}
}

func TestItem_UnmarshalDropsFactorWithoutAltUnit(t *testing.T) {
	var item Item
	if err := json.Unmarshal([]byte(`{"name":"x","unit":"kg","altUnit":"","factor":1000}`), &item); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if item.Factor.Valid {
		t.Fatalf("Factor = %v, want absent when altUnit is empty", item.Factor)
	}
}

func TestItem_UnmarshalRejectsGarbageNumbers(t *testing.T) {
	var item Item
	err := json.Unmarshal([]byte(`{"name":"x","unit":"kg","quantity":"lots"}`), &item)
	if err == nil || !strings.Contains(err.Error(), "quantity") {
		t.Fatalf("Unmarshal error = %v, want quantity error", err)
	}
}

func TestItem_MarshalWritesSentinelsAndSkipsQuantity(t *testing.T) {
	tests := []struct {
		name       string
		item       Item
		wantAlt    string
		wantFactor any
	}{
		{
			name:       "no alt unit",
			item:       Item{Name: "Bolt", Unit: "pcs", AlertQty: 10, Quantity: decimal.NewFromInt(5)},
			wantAlt:    "-",
			wantFactor: "-",
		},
		{
			name:       "alt unit without factor",
			item:       Item{Name: "Wire", Unit: "roll", AltUnit: "mtr"},
			wantAlt:    "mtr",
			wantFactor: "Manual",
		},
		{
			name:       "alt unit with factor",
			item:       Item{Name: "Sugar", Unit: "kg", AltUnit: "g", Factor: decimal.NewNullDecimal(decimal.NewFromInt(1000))},
			wantAlt:    "g",
			wantFactor: float64(1000),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.item)
			if err != nil {
				t.Fatalf("Marshal returned error: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal map: %v", err)
			}
			if got["altUnit"] != tt.wantAlt {
				t.Fatalf("altUnit = %v, want %v", got["altUnit"], tt.wantAlt)
			}
			if got["factor"] != tt.wantFactor {
				t.Fatalf("factor = %v, want %v", got["factor"], tt.wantFactor)
			}
			if _, ok := got["quantity"]; ok {
				t.Fatalf("quantity should never be sent, got %s", data)
			}
			if _, ok := got["id"]; ok {
				t.Fatalf("empty id should be omitted, got %s", data)
			}
		})
	}
}

func TestTransaction_MarshalNumbersAndDate(t *testing.T) {
	txn := Transaction{
		Date:     NewDate(2024, time.March, 9),
		ItemID:   "3",
		ItemName: "Bolt",
		Type:     Out,
		Quantity: decimal.NewFromInt(5),
		AltQty:   decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
	}
	data, err := json.Marshal(txn)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"date":"2024-03-09"`, `"quantity":5`, `"altQty":2.5`, `"type":"OUT"`, `"itemId":"3"`} {
		if !strings.Contains(s, want) {
			t.Fatalf("Marshal = %s, want it to contain %s", s, want)
		}
	}
	if strings.Contains(s, `"rate"`) {
		t.Fatalf("Marshal = %s, absent rate should be omitted", s)
	}
}

func TestTransaction_UnmarshalLenient(t *testing.T) {
	var txn Transaction
	payload := `{"id":11,"date":"2024-03-09T00:00:00.000Z","itemName":"Bolt","type":"in","quantity":"4","altQty":"","rate":null,"remarks":"restock","altUnit":"-"}`
	if err := json.Unmarshal([]byte(payload), &txn); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if txn.Type != In {
		t.Fatalf("Type = %q, want IN", txn.Type)
	}
	if txn.Date.String() != "2024-03-09" {
		t.Fatalf("Date = %q, want 2024-03-09", txn.Date)
	}
	if txn.AltQty.Valid || txn.Rate.Valid {
		t.Fatalf("AltQty=%v Rate=%v, want absent", txn.AltQty, txn.Rate)
	}
	if txn.AltUnit != "" {
		t.Fatalf("AltUnit = %q, want empty", txn.AltUnit)
	}
}

func TestDate_DayBounds(t *testing.T) {
	d := NewDate(2024, time.January, 31)
	if got := d.StartOfDay(); got.Hour() != 0 || got.Minute() != 0 || got.Nanosecond() != 0 {
		t.Fatalf("StartOfDay = %v, want midnight", got)
	}
	end := d.EndOfDay()
	if end.Day() != 31 || end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("EndOfDay = %v, want 23:59:59.999 same day", end)
	}
	if end.Nanosecond() != int(999*time.Millisecond) {
		t.Fatalf("EndOfDay nanos = %d, want 999ms", end.Nanosecond())
	}
}

func TestParseDate_Accepted(t *testing.T) {
	for _, in := range []string{"2024-01-05", " 2024-01-05 ", "2024-01-05T23:30:00Z", "2024-01-05T01:00:00.000+09:00"} {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) returned error: %v", in, err)
		}
		if d.String() != "2024-01-05" {
			t.Fatalf("ParseDate(%q) = %s, want 2024-01-05", in, d)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, in := range []string{"09/03/2024", "2024-01-05xyz", "2024-01-05T10:00", "2024-13-01"} {
		if d, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q) = %v, want error", in, d)
		}
	}
	d, err := ParseDate("  ")
	if err != nil || !d.IsZero() {
		t.Fatalf("ParseDate(blank) = %v, %v; want zero, nil", d, err)
	}
}

func TestParseUnitAndDirection(t *testing.T) {
	if _, ok := ParseUnit("kg"); !ok {
		t.Fatalf("ParseUnit(kg) = false, want true")
	}
	if _, ok := ParseUnit("tonnes"); ok {
		t.Fatalf("ParseUnit(tonnes) = true, want false")
	}
	if d, ok := ParseDirection(" out "); !ok || d != Out {
		t.Fatalf("ParseDirection(out) = %q,%v; want OUT,true", d, ok)
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Fatalf("ParseDirection(sideways) = true, want false")
	}
}

func TestCoerceAlertQty(t *testing.T) {
	tests := map[string]int{
		"10":    10,
		" 7 ":   7,
		"12.7":  12,
		"3pcs":  3,
		"":      0,
		"abc":   0,
		"-":     0,
		"-4":    -4,
		"+5":    5,
		"1e3":   1,
		"00042": 42,
	}
	for in, want := range tests {
		if got := CoerceAlertQty(in); got != want {
			t.Errorf("CoerceAlertQty(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseOptional(t *testing.T) {
	for _, blank := range []string{"", " ", "-", "Manual", "manual"} {
		got, err := ParseOptional(blank)
		if err != nil || got.Valid {
			t.Fatalf("ParseOptional(%q) = %v, %v; want absent", blank, got, err)
		}
	}
	got, err := ParseOptional("2.25")
	if err != nil || !got.Valid || got.Decimal.String() != "2.25" {
		t.Fatalf("ParseOptional(2.25) = %v, %v", got, err)
	}
	if _, err := ParseOptional("two"); err == nil {
		t.Fatalf("ParseOptional(two) returned nil error")
	}
}
