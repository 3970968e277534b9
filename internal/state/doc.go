// Package state holds the Sync Cache: the in-memory snapshot of items and
// transactions shared by the poller, the mutation dispatcher and the UI.
//
// # Overview
//
// Store is a mutex-protected container for the latest Snapshot. Syncer
// fills it from the Remote Store by fetching both collections concurrently
// and replacing them together.
//
//	Poller / Dispatcher:            UI:
//	┌──────────────────────┐       ┌───────────────────┐
//	│ syncer.Refresh(ctx)  │       │                   │
//	│   ListItems  ┐       │       │                   │
//	│   ListTxns   ┘ (errg)│       │                   │
//	│      ↓               │       │                   │
//	│ store.Replace()      │──────→│ store.Snapshot()  │
//	└──────────────────────┘ mutex └───────────────────┘
//
// # Update Semantics
//
//	// Success: both collections replaced, error state cleared
//	store.Replace(items, txns)
//
//	// Failure: collections kept, error and failure count recorded
//	store.Fail(err)
//
// Replace never merges. Whichever refresh finishes last wins, even if a
// poll and a post-mutation refresh race; the next tick converges them.
//
// A Snapshot is Loading until the first Replace and IsOffline after two
// consecutive failures. Both Replace and Snapshot copy slices so callers
// can never mutate the cached collections.
//
// # Testing
//
// The zero Store is ready to use. Syncer accepts any Source, so tests can
// pass a small fake instead of an HTTP client.
package state
