package state

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/stockpile/internal/inventory"
)

// Source is the read side of the Remote Store.
type Source interface {
	ListItems(ctx context.Context) ([]inventory.Item, error)
	ListTransactions(ctx context.Context) ([]inventory.Transaction, error)
}

// Syncer pulls full snapshots from a Source into a Store.
type Syncer struct {
	store  *Store
	source Source
	logger *zap.Logger
}

// NewSyncer returns a Syncer writing into store. A nil logger discards output.
func NewSyncer(store *Store, source Source, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{store: store, source: source, logger: logger.Named("sync")}
}

// Store returns the Store the syncer writes to.
func (s *Syncer) Store() *Store { return s.store }

// Snapshot returns the current cache contents.
func (s *Syncer) Snapshot() Snapshot { return s.store.Snapshot() }

// Refresh fetches items and transactions concurrently and replaces both
// collections when both calls succeed. Failures are recorded on the store
// and logged; they never reach the caller.
func (s *Syncer) Refresh(ctx context.Context) {
	var (
		items []inventory.Item
		txns  []inventory.Transaction
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.source.ListItems(gctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		txns, err = s.source.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.store.Fail(err)
		s.logger.Warn("refresh failed",
			zap.Error(err),
			zap.Int("consecutive_failures", s.store.Snapshot().ConsecutiveFailures),
		)
		return
	}

	s.store.Replace(items, txns)
	s.logger.Debug("refresh complete",
		zap.Int("items", len(items)),
		zap.Int("transactions", len(txns)),
	)
}
