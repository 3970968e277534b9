package dispatch

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/stockpile/internal/inventory"
	"github.com/five82/stockpile/internal/state"
	"github.com/five82/stockpile/internal/view"
)

// Writer is the write side of the Remote Store.
type Writer interface {
	CreateItem(ctx context.Context, item inventory.Item) (inventory.Item, error)
	UpdateItem(ctx context.Context, item inventory.Item) (inventory.Item, error)
	DeleteItem(ctx context.Context, id inventory.ID) error
	CreateTransaction(ctx context.Context, txn inventory.Transaction) (inventory.Transaction, error)
	UpdateTransaction(ctx context.Context, txn inventory.Transaction) (inventory.Transaction, error)
	DeleteTransaction(ctx context.Context, id inventory.ID) error
}

// Cache is the Sync Cache as seen by the dispatcher.
type Cache interface {
	Refresh(ctx context.Context)
	Snapshot() state.Snapshot
}

// Dispatcher validates and sends writes, then refreshes the cache from the
// server. It never patches the cache itself.
type Dispatcher struct {
	remote Writer
	cache  Cache
	logger *zap.Logger
	newID  func() string

	mu sync.Mutex
	// pending holds items the server confirmed that no refresh has listed yet.
	pending map[inventory.ID]inventory.Item
}

// New returns a Dispatcher. A nil logger discards output.
func New(remote Writer, cache Cache, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		remote:  remote,
		cache:   cache,
		logger:  logger.Named("dispatch"),
		newID:   uuid.NewString,
		pending: make(map[inventory.ID]inventory.Item),
	}
}

// Catalog indexes the items currently cached plus items created through
// this dispatcher that a refresh has not delivered yet.
func (d *Dispatcher) Catalog() view.Catalog {
	items := d.cache.Snapshot().Items

	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.pending) == 0 {
		return view.NewCatalog(items)
	}
	for _, item := range items {
		delete(d.pending, item.ID)
	}
	merged := make([]inventory.Item, 0, len(items)+len(d.pending))
	merged = append(merged, items...)
	for _, item := range d.pending {
		merged = append(merged, item)
	}
	return view.NewCatalog(merged)
}

func (d *Dispatcher) remember(item inventory.Item) {
	if item.ID == "" {
		return
	}
	d.mu.Lock()
	d.pending[item.ID] = item
	d.mu.Unlock()
}

func (d *Dispatcher) forget(id inventory.ID) {
	d.mu.Lock()
	delete(d.pending, id)
	d.mu.Unlock()
}

// AddItem creates an item from form input and returns the server's copy,
// id included, so callers can use it before the next poll.
func (d *Dispatcher) AddItem(ctx context.Context, draft ItemDraft) (inventory.Item, error) {
	item, err := draft.Item()
	if err != nil {
		return inventory.Item{}, err
	}
	if err := d.checkNameFree(item.Name, ""); err != nil {
		return inventory.Item{}, err
	}

	var created inventory.Item
	err = d.run(ctx, "add item", func(ctx context.Context) error {
		var err error
		created, err = d.remote.CreateItem(ctx, item)
		if err == nil {
			d.remember(created)
		}
		return err
	}, zap.String("item", item.Name))
	if err != nil {
		return inventory.Item{}, err
	}
	return created, nil
}

// UpdateItem replaces the item with the same id. Ledger rows linked by id
// show the new name once the refresh lands.
func (d *Dispatcher) UpdateItem(ctx context.Context, item inventory.Item) (inventory.Item, error) {
	if item.ID == "" {
		return inventory.Item{}, invalid("id", "item id is required")
	}
	checked, err := d.revalidate(item)
	if err != nil {
		return inventory.Item{}, err
	}
	if err := d.checkNameFree(checked.Name, checked.ID); err != nil {
		return inventory.Item{}, err
	}

	var updated inventory.Item
	err = d.run(ctx, "update item", func(ctx context.Context) error {
		var err error
		updated, err = d.remote.UpdateItem(ctx, checked)
		if err == nil {
			d.mu.Lock()
			if _, ok := d.pending[updated.ID]; ok {
				d.pending[updated.ID] = updated
			}
			d.mu.Unlock()
		}
		return err
	}, zap.String("item_id", checked.ID.String()), zap.String("item", checked.Name))
	if err != nil {
		return inventory.Item{}, err
	}
	return updated, nil
}

// DeleteItem removes an item. Its transactions are kept.
func (d *Dispatcher) DeleteItem(ctx context.Context, id inventory.ID) error {
	if id == "" {
		return invalid("id", "item id is required")
	}
	return d.run(ctx, "delete item", func(ctx context.Context) error {
		if err := d.remote.DeleteItem(ctx, id); err != nil {
			return err
		}
		d.forget(id)
		return nil
	}, zap.String("item_id", id.String()))
}

// AddTransaction records a movement for an item in the current catalog.
// The new balance is only observed through the refresh that follows.
func (d *Dispatcher) AddTransaction(ctx context.Context, draft TransactionDraft) (inventory.Transaction, error) {
	txn, err := draft.Transaction(d.Catalog())
	if err != nil {
		return inventory.Transaction{}, err
	}

	var created inventory.Transaction
	err = d.run(ctx, "add transaction", func(ctx context.Context) error {
		var err error
		created, err = d.remote.CreateTransaction(ctx, txn)
		return err
	}, zap.String("item", txn.ItemName), zap.String("type", string(txn.Type)), zap.String("quantity", txn.Quantity.String()))
	if err != nil {
		return inventory.Transaction{}, err
	}
	return created, nil
}

// UpdateTransaction replaces the transaction with the same id. Reversing its
// effect on the balance is the server's job.
func (d *Dispatcher) UpdateTransaction(ctx context.Context, txn inventory.Transaction) (inventory.Transaction, error) {
	if txn.ID == "" {
		return inventory.Transaction{}, invalid("id", "transaction id is required")
	}
	name := strings.TrimSpace(txn.ItemName)
	if name == "" {
		return inventory.Transaction{}, invalid("itemName", "item is required")
	}
	item, ok := d.Catalog().ByName(name)
	if !ok {
		return inventory.Transaction{}, invalid("itemName", "no item named %q", name)
	}
	txn.ItemID = item.ID
	txn.ItemName = item.Name
	if txn.Type != inventory.In && txn.Type != inventory.Out {
		return inventory.Transaction{}, invalid("type", "type must be IN or OUT")
	}
	if !txn.Quantity.IsPositive() {
		return inventory.Transaction{}, invalid("quantity", "quantity must be greater than zero")
	}
	if txn.Date.IsZero() {
		txn.Date = inventory.Today()
	}
	if txn.Type == inventory.Out {
		txn.Rate.Valid = false
	}

	var updated inventory.Transaction
	err := d.run(ctx, "update transaction", func(ctx context.Context) error {
		var err error
		updated, err = d.remote.UpdateTransaction(ctx, txn)
		return err
	}, zap.String("transaction_id", txn.ID.String()))
	if err != nil {
		return inventory.Transaction{}, err
	}
	return updated, nil
}

// DeleteTransaction removes a transaction.
func (d *Dispatcher) DeleteTransaction(ctx context.Context, id inventory.ID) error {
	if id == "" {
		return invalid("id", "transaction id is required")
	}
	return d.run(ctx, "delete transaction", func(ctx context.Context) error {
		return d.remote.DeleteTransaction(ctx, id)
	}, zap.String("transaction_id", id.String()))
}

// run tags ctx with a fresh request id, performs call and refreshes the
// cache on success. On failure the cache is not touched.
func (d *Dispatcher) run(ctx context.Context, op string, call func(context.Context) error, fields ...zap.Field) error {
	reqID := d.newID()
	ctx = inventory.WithRequestID(ctx, reqID)
	log := d.logger.With(zap.String("op", op), zap.String("request_id", reqID))

	if err := call(ctx); err != nil {
		log.Warn("mutation failed", append(fields, zap.Error(err))...)
		return &MutationError{Op: op, Err: err}
	}
	log.Info("mutation applied", fields...)
	d.cache.Refresh(ctx)
	return nil
}

func (d *Dispatcher) revalidate(item inventory.Item) (inventory.Item, error) {
	draft := DraftFromItem(item)
	checked, err := draft.Item()
	if err != nil {
		return inventory.Item{}, err
	}
	checked.ID = item.ID
	checked.AlertQty = item.AlertQty
	return checked, nil
}

func (d *Dispatcher) checkNameFree(name string, self inventory.ID) error {
	existing, ok := d.Catalog().ByName(name)
	if ok && (self == "" || existing.ID != self) {
		return invalid("name", "an item named %q already exists", name)
	}
	return nil
}
