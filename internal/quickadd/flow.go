// Package quickadd tracks creating a missing catalog item from inside the
// transaction form.
//
//	Idle -> NameTyped -> ExistsInCatalog
//	                  -> NotFound -> CreatingItem -> Created -> Idle
//
// Leaving the item field compares the typed name with the catalog by exact
// match. A miss opens a nested item form pre-filled with the name. Once the
// server confirms the new item its units merge into the parent form and
// only the nested form closes. Cancelling returns to the parent unchanged;
// a creation the server already accepted stays in the catalog.
package quickadd

import (
	"errors"
	"strings"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/view"
)

// State is a step of the flow.
type State int

const (
	Idle State = iota
	NameTyped
	ExistsInCatalog
	NotFound
	CreatingItem
	Created
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case NameTyped:
		return "name typed"
	case ExistsInCatalog:
		return "exists"
	case NotFound:
		return "not found"
	case CreatingItem:
		return "creating"
	case Created:
		return "created"
	}
	return "unknown"
}

var (
	// ErrNotOpen is returned by Submit when no nested form is showing.
	ErrNotOpen = errors.New("quick-add form is not open")
	// ErrInFlight is returned by Submit while a creation is pending.
	ErrInFlight = errors.New("item creation already in progress")
)

// Flow is the quick-add state for one transaction form. The zero value is Idle.
type Flow struct {
	state State
	name  string
	item  inventory.Item
	err   error
}

// State returns the current step.
func (f *Flow) State() State { return f.state }

// Name is the item name the flow is tracking.
func (f *Flow) Name() string { return f.name }

// Item is the matched or created item, valid in ExistsInCatalog and Created.
func (f *Flow) Item() inventory.Item { return f.item }

// Err is the last creation failure, shown on the nested form.
func (f *Flow) Err() error { return f.err }

// NestedOpen reports whether the nested item form is showing.
func (f *Flow) NestedOpen() bool {
	return f.state == NotFound || f.state == CreatingItem
}

// Type records edits to the parent's item field. It is ignored while the
// nested form is open.
func (f *Flow) Type(name string) {
	if f.NestedOpen() {
		return
	}
	f.name = name
	f.item = inventory.Item{}
	f.err = nil
	if strings.TrimSpace(name) == "" {
		f.state = Idle
		return
	}
	f.state = NameTyped
}

// Blur resolves the typed name against the catalog. It returns the item and
// true when the name exists; otherwise the nested form opens.
func (f *Flow) Blur(catalog view.Catalog) (inventory.Item, bool) {
	if f.state != NameTyped {
		if f.state == ExistsInCatalog {
			return f.item, true
		}
		return inventory.Item{}, false
	}
	name := strings.TrimSpace(f.name)
	if item, ok := catalog.ByName(name); ok {
		f.state = ExistsInCatalog
		f.item = item
		return item, true
	}
	f.name = name
	f.state = NotFound
	f.err = nil
	return inventory.Item{}, false
}

// Submit marks the nested form as sending.
func (f *Flow) Submit() error {
	switch f.state {
	case NotFound:
		f.state = CreatingItem
		f.err = nil
		return nil
	case CreatingItem:
		return ErrInFlight
	}
	return ErrNotOpen
}

// Created delivers the server-confirmed item. It reports true when the
// parent form should merge the item; false when the flow was cancelled
// meanwhile, in which case the item simply stays in the catalog.
func (f *Flow) Created(item inventory.Item) bool {
	if f.state != CreatingItem {
		return false
	}
	f.state = Created
	f.item = item
	f.name = item.Name
	return true
}

// Failed keeps the nested form open with err.
func (f *Flow) Failed(err error) {
	if f.state != CreatingItem {
		return
	}
	f.state = NotFound
	f.err = err
}

// Cancel closes the nested form and leaves the parent as it was.
func (f *Flow) Cancel() {
	if !f.NestedOpen() {
		return
	}
	f.state = NameTyped
	f.err = nil
}

// Resume returns to Idle after the parent has merged a created item.
func (f *Flow) Resume() {
	if f.state == Created || f.state == ExistsInCatalog {
		f.state = Idle
	}
}

// Reset clears all state.
func (f *Flow) Reset() { *f = Flow{} }
