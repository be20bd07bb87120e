package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/storage"
	"github.com/jafarshop/storefront/pkg/errors"
)

const persistTimeout = 5 * time.Second

// Store is the single source of truth for the pending order's contents.
// In-memory state is mutated synchronously under a mutex; every mutation
// enqueues an asynchronous write of the full snapshot to durable storage.
// Persistence failure never propagates to callers.
type Store struct {
	mu    sync.Mutex
	items map[string]*domain.CartItem
	order []string // productIDs in insertion order
	seq   uint64

	deviceID string
	persist  storage.Store
	logger   *zap.Logger

	wg           sync.WaitGroup
	persistMu    sync.Mutex
	persistedSeq uint64
}

// NewStore creates a new cart store
func NewStore(deviceID string, persist storage.Store, logger *zap.Logger) *Store {
	return &Store{
		items:    make(map[string]*domain.CartItem),
		deviceID: deviceID,
		persist:  persist,
		logger:   logger,
	}
}

// Hydrate loads the persisted snapshot at startup. A read failure leaves the
// cart empty and is logged, not propagated.
func (s *Store) Hydrate(ctx context.Context) {
	snap, err := s.persist.LoadCart(ctx, s.deviceID)
	if err != nil {
		s.logger.Warn("Failed to load persisted cart, starting empty", zap.Error(err))
		return
	}
	if snap == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*domain.CartItem, len(snap.Items))
	s.order = s.order[:0]
	for i := range snap.Items {
		item := snap.Items[i]
		if item.Quantity < 1 {
			continue
		}
		s.items[item.ProductID] = &item
		s.order = append(s.order, item.ProductID)
	}
	s.seq = snap.Seq

	s.persistMu.Lock()
	s.persistedSeq = snap.Seq
	s.persistMu.Unlock()
}

// AddItem adds a product to the cart. Adding an already-present product
// increments its quantity instead of duplicating the entry; the resulting
// quantity is clamped to the product's stock. A product with no stock at all
// is rejected with ErrStockExceeded.
func (s *Store) AddItem(product domain.Product, quantity int) (domain.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Stock <= 0 {
		return domain.CartItem{}, &errors.ErrStockExceeded{
			ProductID: product.ID,
			Requested: quantity,
			Stock:     product.Stock,
		}
	}

	item, ok := s.items[product.ID]
	if ok {
		// Stock limit tracks the latest catalog read at add time; the price
		// snapshot from the first add is kept.
		item.StockLimit = product.Stock
		item.Quantity = clamp(item.Quantity+quantity, 1, item.StockLimit)
	} else {
		item = &domain.CartItem{
			ProductID:  product.ID,
			Name:       product.Name,
			ImageURL:   product.ImageURL,
			UnitPrice:  product.Price,
			Quantity:   clamp(quantity, 1, product.Stock),
			StockLimit: product.Stock,
			AddedAt:    time.Now(),
		}
		s.items[product.ID] = item
		s.order = append(s.order, product.ID)
	}

	s.persistLocked()
	return *item, nil
}

// UpdateQuantity replaces an item's quantity, clamped to [1, stockLimit].
// A quantity of zero or below removes the item, exactly like RemoveItem.
func (s *Store) UpdateQuantity(productID string, quantity int) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[productID]
	if !ok {
		return domain.CartItem{}, &errors.ErrItemNotFound{ProductID: productID}
	}

	if quantity <= 0 {
		s.removeLocked(productID)
		s.persistLocked()
		return domain.CartItem{}, nil
	}

	item.Quantity = clamp(quantity, 1, item.StockLimit)
	s.persistLocked()
	return *item, nil
}

// RemoveItem deletes the entry for a product
func (s *Store) RemoveItem(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[productID]; !ok {
		return &errors.ErrItemNotFound{ProductID: productID}
	}

	s.removeLocked(productID)
	s.persistLocked()
	return nil
}

// Clear empties the cart and persists the empty state. Used after a
// successful order placement and on logout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*domain.CartItem)
	s.order = s.order[:0]
	s.persistLocked()
}

// Total returns the sum of unit price times quantity over all items.
// Recomputed on every read, never cached.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the sum of quantities across items, used for the badge
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Items returns a copy of the cart contents in insertion order
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.itemsLocked()
}

// Flush blocks until all enqueued persistence writes have completed.
// Called at shutdown and when the app is backgrounded.
func (s *Store) Flush() {
	s.wg.Wait()
}

func (s *Store) itemsLocked() []domain.CartItem {
	items := make([]domain.CartItem, 0, len(s.order))
	for _, id := range s.order {
		if item, ok := s.items[id]; ok {
			items = append(items, *item)
		}
	}
	return items
}

func (s *Store) removeLocked(productID string) {
	delete(s.items, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// persistLocked snapshots the full current state and enqueues the write.
// Writing the whole snapshot rather than a delta keeps the last logical
// mutation authoritative even when writes complete out of order.
func (s *Store) persistLocked() {
	s.seq++
	snap := domain.CartSnapshot{
		Items:      s.itemsLocked(),
		Seq:        s.seq,
		CapturedAt: time.Now(),
	}

	s.wg.Add(1)
	go s.write(snap)
}

func (s *Store) write(snap domain.CartSnapshot) {
	defer s.wg.Done()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	// A newer snapshot already landed; this one is stale.
	if snap.Seq <= s.persistedSeq {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.persist.SaveCart(ctx, s.deviceID, snap); err != nil {
		s.logger.Warn("Failed to persist cart snapshot",
			zap.Uint64("seq", snap.Seq),
			zap.Error(err),
		)
		return
	}
	s.persistedSeq = snap.Seq
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
