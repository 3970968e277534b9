// Package ui provides the terminal user interface for Stockpile.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds every piece of screen state and
// is updated by value; overlays (forms, the quick-add nested form, confirm
// dialogs) are pointer fields that are nil when closed. Data arrives from a
// Cache snapshot on each UI tick and all writes go through a Mutator, which
// refetches the catalog after the server accepts a change.
//
// # Views
//
//   - Dashboard: KPI cards and the stock table, with a priority mode that
//     lists low-stock rows first
//   - Items: the catalog with add, edit and delete for admins
//   - Transactions: the ledger with a date range filter; any signed-in user
//     can record movements
//   - Activity: the tail of the structured client log
//
// # Sessions
//
// The login card is shown until a session exists. Role "admin" unlocks edits
// and deletes; everyone else gets read access plus transaction entry.
//
// # Keyboard Shortcuts
//
// Global: 1-4 switch views, tab/shift+tab cycle, T cycles the theme, ? toggles
// help, L logs out, q quits. Lists: j/k move, / searches, x exports to Excel.
// Forms: tab moves between fields, ctrl+s saves, esc cancels.
package ui
