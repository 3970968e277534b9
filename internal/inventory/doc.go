// Package inventory provides the domain types and HTTP client for the
// inventory Remote Store.
//
// # Overview
//
// The Remote Store is the single source of truth for items and
// transactions. This package defines the types the rest of stockpile works
// with and a resty-backed client that speaks the store's JSON API.
//
//   - types.go: Item, Transaction, Unit, Direction, Date, ID and the wire codec
//   - input.go: lenient parsing helpers for form input
//   - client.go: Remote interface and its HTTP implementation
//
// # Wire Conventions
//
// The store encodes "no value" with sentinels: altUnit "-" (or empty) means
// the item has no secondary unit and factor "Manual" or "-" means there is no
// automatic conversion. These sentinels stop at this package. Decoding maps
// them to an empty Unit and an invalid decimal.NullDecimal; encoding writes
// them back so existing servers keep working.
//
// Numbers are decoded with shopspring/decimal and accepted either as JSON
// numbers or numeric strings. Ids are accepted as strings or numbers.
//
// Item.Quantity is a server-maintained running balance. The client never
// sends it: Item.MarshalJSON only writes the editable fields.
//
// # API Endpoints
//
//	GET    /items              -> []Item
//	POST   /items              -> Item (server assigns id)
//	PUT    /items/:id          -> Item
//	DELETE /items/:id
//	GET    /transactions       -> []Transaction
//	POST   /transactions       -> Transaction (server recomputes the balance)
//	PUT    /transactions/:id   -> Transaction
//	DELETE /transactions/:id
//	POST   /login              -> Account or {"error": "..."}
//
// # Errors
//
// Non-2xx responses become *APIError carrying the method, path, status and
// the server's "error" message when present. Transport failures are wrapped
// with the method and path.
//
// Requests made with a context from WithRequestID carry an X-Request-ID
// header so client and server logs can be correlated.
package inventory
