package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stockpile/internal/dispatch"
	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/quickadd"
	"github.com/five82/stockpile/internal/view"
)

// formField is one labelled input. key matches dispatch.ValidationError.Field.
type formField struct {
	key      string
	label    string
	input    textinput.Model
	hint     string
	readOnly bool
}

func newField(key, label, placeholder string) formField {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = 128
	return formField{key: key, label: label, input: in}
}

// form is a vertical list of fields with one focused.
type form struct {
	title    string
	fields   []formField
	focusIdx int
	err      string
	errField string
}

func (f *form) field(key string) *formField {
	for i := range f.fields {
		if f.fields[i].key == key {
			return &f.fields[i]
		}
	}
	return nil
}

func (f *form) value(key string) string {
	if fld := f.field(key); fld != nil {
		return fld.input.Value()
	}
	return ""
}

func (f *form) set(key, value string) {
	if fld := f.field(key); fld != nil {
		fld.input.SetValue(value)
	}
}

func (f *form) focusedKey() string {
	if f.focusIdx < 0 || f.focusIdx >= len(f.fields) {
		return ""
	}
	return f.fields[f.focusIdx].key
}

func (f *form) focus(idx int) tea.Cmd {
	if idx < 0 || idx >= len(f.fields) {
		return nil
	}
	f.focusIdx = idx
	var cmd tea.Cmd
	for i := range f.fields {
		if i == idx {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

func (f *form) focusKey(key string) tea.Cmd {
	for i := range f.fields {
		if f.fields[i].key == key {
			return f.focus(i)
		}
	}
	return nil
}

// step moves focus by dir, skipping read-only fields.
func (f *form) step(dir int) tea.Cmd {
	n := len(f.fields)
	for i, idx := 0, f.focusIdx; i < n; i++ {
		idx = (idx + dir + n) % n
		if !f.fields[idx].readOnly {
			return f.focus(idx)
		}
	}
	return nil
}

func (f *form) lastEditable() bool {
	for i := f.focusIdx + 1; i < len(f.fields); i++ {
		if !f.fields[i].readOnly {
			return false
		}
	}
	return true
}

func (f *form) updateFocused(msg tea.Msg) tea.Cmd {
	if f.focusIdx < 0 || f.focusIdx >= len(f.fields) || f.fields[f.focusIdx].readOnly {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focusIdx].input, cmd = f.fields[f.focusIdx].input.Update(msg)
	return cmd
}

// setError shows err on the form, next to the offending field when known.
func (f *form) setError(err error) {
	f.errField = ""
	if err == nil {
		f.err = ""
		return
	}
	var vErr *dispatch.ValidationError
	if errors.As(err, &vErr) {
		f.errField = vErr.Field
		f.err = vErr.Message
		return
	}
	f.err = err.Error()
}

func (f form) view(styles Styles, submitting bool) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(f.title))
	b.WriteString("\n\n")

	for i, fld := range f.fields {
		label := styles.MutedText
		if i == f.focusIdx {
			label = styles.AccentText
		}
		b.WriteString(label.Render(padRight(fld.label, 12)))
		if fld.readOnly {
			value := fld.input.Value()
			if value == "" {
				value = view.Placeholder
			}
			b.WriteString(styles.FaintText.Render(value))
		} else {
			b.WriteString(fld.input.View())
		}
		if fld.hint != "" {
			b.WriteString(" ")
			b.WriteString(styles.FaintText.Render(fld.hint))
		}
		if f.errField == fld.key && f.err != "" {
			b.WriteString("\n")
			b.WriteString(padRight("", 12))
			b.WriteString(styles.DangerText.Render(f.err))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case submitting:
		b.WriteString(styles.WarningText.Render("Saving..."))
	case f.err != "" && f.field(f.errField) == nil:
		b.WriteString(styles.DangerText.Render(f.err))
	default:
		b.WriteString(styles.FaintText.Render("tab next · ctrl+s save · esc cancel"))
	}
	return styles.Modal.Width(64).Render(b.String())
}

var unitHint = strings.Join(unitNames(), " ")

func unitNames() []string {
	names := make([]string, len(inventory.Units))
	for i, u := range inventory.Units {
		names[i] = string(u)
	}
	return names
}

// itemForm adds or edits a catalog item.
type itemForm struct {
	form
	editID inventory.ID // empty when adding
}

func newItemForm(title string, draft dispatch.ItemDraft, editID inventory.ID) *itemForm {
	f := &itemForm{
		form: form{
			title: title,
			fields: []formField{
				newField("name", "Name", "item name"),
				newField("unit", "Unit", "pcs"),
				newField("altUnit", "Alt unit", "optional"),
				newField("factor", "Factor", "1 unit = ? alt units"),
				newField("alertQty", "Alert qty", "0"),
			},
		},
		editID: editID,
	}
	f.field("unit").hint = unitHint
	f.set("name", draft.Name)
	f.set("unit", draft.Unit)
	f.set("altUnit", draft.AltUnit)
	f.set("factor", draft.Factor)
	f.set("alertQty", draft.AlertQty)
	f.focus(0)
	return f
}

func (f *itemForm) draft() dispatch.ItemDraft {
	return dispatch.ItemDraft{
		Name:     f.value("name"),
		Unit:     f.value("unit"),
		AltUnit:  f.value("altUnit"),
		Factor:   f.value("factor"),
		AlertQty: f.value("alertQty"),
	}
}

// txnForm adds or edits a transaction. A name missing from the catalog
// opens a nested item form.
type txnForm struct {
	form
	editID inventory.ID
	flow   quickadd.Flow
	item   inventory.Item // item matched by the last blur
	nested *itemForm
}

func newTxnForm(title string, draft dispatch.TransactionDraft, editID inventory.ID, catalog view.Catalog) *txnForm {
	f := &txnForm{
		form: form{
			title: title,
			fields: []formField{
				newField("date", "Date", "YYYY-MM-DD"),
				newField("itemName", "Item", "exact item name"),
				newField("type", "Type", "IN or OUT"),
				newField("quantity", "Quantity", "0"),
				newField("altQty", "Alt qty", "optional"),
				newField("rate", "Rate", "optional"),
				newField("remarks", "Remarks", ""),
			},
		},
		editID: editID,
	}
	if draft.Date == "" {
		draft.Date = inventory.Today().String()
	}
	if draft.Type == "" {
		draft.Type = string(inventory.In)
	}
	f.set("date", draft.Date)
	f.set("itemName", draft.ItemName)
	f.set("type", draft.Type)
	f.set("quantity", draft.Quantity)
	f.set("altQty", draft.AltQty)
	f.set("rate", draft.Rate)
	f.set("remarks", draft.Remarks)
	f.field("type").hint = "IN / OUT"

	if item, ok := catalog.ByName(strings.TrimSpace(draft.ItemName)); ok {
		f.merge(item)
	} else {
		f.applyItem()
	}
	f.applyType()
	f.focus(0)
	return f
}

func (f *txnForm) draft() dispatch.TransactionDraft {
	return dispatch.TransactionDraft{
		Date:     f.value("date"),
		ItemName: f.value("itemName"),
		Type:     f.value("type"),
		Quantity: f.value("quantity"),
		AltQty:   f.value("altQty"),
		Rate:     f.value("rate"),
		Remarks:  f.value("remarks"),
	}
}

// blurItem resolves the item field against the catalog. It reports whether
// the nested item form opened.
func (f *txnForm) blurItem(catalog view.Catalog) bool {
	f.flow.Type(f.value("itemName"))
	if item, ok := f.flow.Blur(catalog); ok {
		f.merge(item)
		f.flow.Resume()
		return false
	}
	if f.flow.NestedOpen() {
		f.item = inventory.Item{}
		f.applyItem()
		f.nested = newItemForm("Quick add item", dispatch.ItemDraft{Name: f.flow.Name()}, "")
		f.nested.focus(1)
		return true
	}
	f.item = inventory.Item{}
	f.applyItem()
	return false
}

// merge adopts item's name and units into the parent form.
func (f *txnForm) merge(item inventory.Item) {
	f.item = item
	f.set("itemName", item.Name)
	f.applyItem()
}

// applyItem updates hints and the automatic alternate quantity for the
// matched item.
func (f *txnForm) applyItem() {
	qty := f.field("quantity")
	alt := f.field("altQty")
	if f.item.Name == "" {
		qty.hint = ""
		alt.hint = ""
		alt.readOnly = false
		return
	}
	qty.hint = string(f.item.Unit)
	switch {
	case f.item.HasFactor():
		alt.hint = string(f.item.AltUnit) + " (auto)"
		alt.readOnly = true
		f.recomputeAlt()
	case f.item.HasAltUnit():
		alt.hint = string(f.item.AltUnit)
		alt.readOnly = false
	default:
		alt.hint = ""
		alt.readOnly = true
		alt.input.SetValue("")
	}
}

// recomputeAlt fills altQty from quantity when the item has a factor.
func (f *txnForm) recomputeAlt() {
	if !f.item.HasFactor() {
		return
	}
	qty, err := inventory.ParseQuantity(f.value("quantity"))
	if err != nil {
		f.set("altQty", "")
		return
	}
	auto := view.AutoAltQty(qty, f.item)
	if !auto.Valid {
		f.set("altQty", "")
		return
	}
	f.set("altQty", view.FormatDecimal(auto.Decimal))
}

// applyType disables rate for OUT movements.
func (f *txnForm) applyType() {
	rate := f.field("rate")
	if dir, ok := inventory.ParseDirection(f.value("type")); ok && dir == inventory.Out {
		rate.readOnly = true
		rate.hint = "IN only"
		rate.input.SetValue("")
		return
	}
	rate.readOnly = false
	rate.hint = ""
}

// rangeForm edits the ledger's inclusive date range.
type rangeForm struct {
	form
}

func newRangeForm(r view.DateRange) *rangeForm {
	f := &rangeForm{form: form{
		title: "Date range",
		fields: []formField{
			newField("from", "From", "YYYY-MM-DD (open)"),
			newField("to", "To", "YYYY-MM-DD (open)"),
		},
	}}
	if !r.From.IsZero() {
		f.set("from", r.From.String())
	}
	if !r.To.IsZero() {
		f.set("to", r.To.String())
	}
	f.focus(0)
	return f
}

func (f *rangeForm) dateRange() (view.DateRange, error) {
	from, err := inventory.ParseDate(f.value("from"))
	if err != nil {
		return view.DateRange{}, &dispatch.ValidationError{Field: "from", Message: err.Error()}
	}
	to, err := inventory.ParseDate(f.value("to"))
	if err != nil {
		return view.DateRange{}, &dispatch.ValidationError{Field: "to", Message: err.Error()}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return view.DateRange{}, &dispatch.ValidationError{Field: "to", Message: "end date is before start date"}
	}
	return view.DateRange{From: from, To: to}, nil
}
