// Package app is the composition root of Stockpile.
//
// Run loads configuration (file, .env, then STOCKPILE_* variables), opens
// the JSON log file, restores the persisted session and theme, and connects
// the pieces:
//
//	config.Load ─> logging.New ─> inventory.NewClient
//	                                   │
//	              state.Syncer <───────┤  reads: items + transactions
//	                   │               │
//	   StartPoller ────┤               └─> dispatch.Dispatcher  writes, then Refresh
//	   export.Scheduler┤
//	                   └─> ui.Run  reads Snapshot on every UI tick
//
// The poller refreshes immediately and then on every interval. Failures are
// recorded on the store and never stop polling; the UI shows the offline
// banner after two in a row.
//
// Dump performs a single refresh and pretty-prints the snapshot, which is
// handy for checking a server without starting the TUI.
package app
