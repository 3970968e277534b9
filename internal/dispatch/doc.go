// Package dispatch performs every create, update and delete against the
// Remote Store.
//
// Each operation validates its input first (returning *ValidationError
// without sending anything), tags the request with a uuid X-Request-ID,
// sends it, and on success refreshes the Sync Cache from the server. The
// cache is never patched locally: balances, ids and renamed rows are only
// observed through that refresh. A failed send returns *MutationError and
// leaves the cache exactly as it was.
//
// Drafts carry raw form strings. ItemDraft.Item and
// TransactionDraft.Transaction hold the form rules so the UI can validate
// inline before calling the dispatcher.
package dispatch
