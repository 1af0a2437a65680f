package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/mittbutik/storefront/internal/storage"
	"github.com/mittbutik/storefront/pkg/logger"
)

// CartService holds the cart's line items, persists them after every mutation
// and broadcasts a CartUpdated event once the write has completed.
type CartService interface {
	Items() []model.LineItem
	Count() int
	Total() float64
	Add(product model.Product, quantity int) error
	ChangeQuantity(productID, delta int) error
	Remove(productID int) error
	Clear() error
}

type cartService struct {
	mu    sync.Mutex
	store storage.Store
	bus   *bus.Bus
	key   string
	items []model.LineItem
}

// NewCartService restores the cart from the store and subscribes to ItemAdded
// so any component can put products in the cart without holding a reference.
// Absent or corrupt stored data yields an empty cart, never an error.
func NewCartService(store storage.Store, b *bus.Bus, key string) CartService {
	s := &cartService{
		store: store,
		bus:   b,
		key:   key,
	}
	s.restore()

	b.Subscribe(bus.EventItemAdded, func(e bus.Event) {
		added := e.(bus.ItemAdded)
		if err := s.Add(added.Product, added.Quantity); err != nil {
			logger.Error("Failed to persist cart after ItemAdded", err, map[string]interface{}{
				"product_id": added.Product.ID,
			})
		}
	})

	return s
}

func (s *cartService) restore() {
	data, err := s.store.Get(context.Background(), s.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return
	}
	if err != nil {
		logger.Warn("Failed to read stored cart, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn("Stored cart is corrupt, starting empty", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	s.items = items

	logger.Info("Cart restored", map[string]interface{}{
		"items": len(items),
	})
}

// Items returns a copy of the current line items in insertion order.
func (s *cartService) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Count is the total quantity over all line items, the navbar badge number.
func (s *cartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Total is always recomputed from the line items so it can never drift.
func (s *cartService) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

// Add merges the quantity into an existing line item for the product, or
// appends a new item capturing the product's current price, title, image and
// category. Quantities below 1 are clamped to 1.
func (s *cartService) Add(product model.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, model.LineItem{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Category:  product.Category,
			Quantity:  quantity,
		})
	}

	logger.Info("Item added to cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   quantity,
		"merged":     merged,
	})
	return s.commit()
}

// ChangeQuantity applies a stepper delta. A resulting quantity of zero or less
// removes the line item; an unknown id is a no-op with no broadcast.
func (s *cartService) ChangeQuantity(productID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		s.items[i].Quantity += delta
		if s.items[i].Quantity <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		return s.commit()
	}
	return nil
}

// Remove deletes the line item unconditionally; unknown ids are a no-op.
func (s *cartService) Remove(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.commit()
		}
	}
	return nil
}

// Clear empties the cart.
func (s *cartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.commit()
}

// commit persists the full cart and then broadcasts CartUpdated, in that
// order, so observers never see a broadcast referring to unsaved state. A
// failed write is returned to the caller but the broadcast still fires: the
// in-memory mutation has happened and observers must match rendered state.
// Callers must hold s.mu; CartUpdated handlers run under it and must not call
// back into the service.
func (s *cartService) commit() error {
	data, marshalErr := json.Marshal(s.itemsOrEmpty())
	var persistErr error
	if marshalErr != nil {
		persistErr = fmt.Errorf("failed to marshal cart: %w", marshalErr)
	} else if err := s.store.Set(context.Background(), s.key, data); err != nil {
		persistErr = fmt.Errorf("failed to persist cart: %w", err)
	}
	if persistErr != nil {
		logger.Error("Cart persist failed", persistErr, map[string]interface{}{
			"items": len(s.items),
		})
	}

	s.bus.Publish(bus.CartUpdated{
		Items: s.copyItems(),
		Total: total(s.items),
	})
	return persistErr
}

// itemsOrEmpty never returns nil so an empty cart serializes as [] not null.
func (s *cartService) itemsOrEmpty() []model.LineItem {
	if s.items == nil {
		return []model.LineItem{}
	}
	return s.items
}

func (s *cartService) copyItems() []model.LineItem {
	items := make([]model.LineItem, len(s.items))
	copy(items, s.items)
	return items
}

func total(items []model.LineItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.Subtotal()
	}
	return sum
}
