package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/mittbutik/storefront/pkg/logger"
)

// ErrNoProductShown is returned when add-to-cart is confirmed with no product
// on display.
var ErrNoProductShown = errors.New("no product shown")

// DetailService displays the most recently selected product, regardless of
// which component published the selection.
type DetailService interface {
	Current() (model.Product, bool)
	AddToCart(quantity int) error
	Show(ctx context.Context, productID int) error
}

type detailService struct {
	mu      sync.Mutex
	catalog CatalogReader
	bus     *bus.Bus
	product *model.Product
}

func NewDetailService(catalog CatalogReader, b *bus.Bus) DetailService {
	s := &detailService{catalog: catalog, bus: b}

	b.Subscribe(bus.EventProductSelected, func(e bus.Event) {
		selected := e.(bus.ProductSelected)
		s.mu.Lock()
		product := selected.Product
		s.product = &product
		s.mu.Unlock()
	})

	return s
}

// Current returns the shown product, if any.
func (s *detailService) Current() (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.product == nil {
		return model.Product{}, false
	}
	return *s.product, true
}

// AddToCart publishes ItemAdded for the shown product. Quantities below 1 are
// clamped to 1; callers floor fractional input before calling.
func (s *detailService) AddToCart(quantity int) error {
	s.mu.Lock()
	if s.product == nil {
		s.mu.Unlock()
		return ErrNoProductShown
	}
	product := *s.product
	s.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}

	logger.Info("Adding shown product to cart", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   quantity,
	})
	s.bus.Publish(bus.ItemAdded{Product: product, Quantity: quantity})
	return nil
}

// Show fetches a product by id and publishes ProductSelected, the path taken
// when a cart row is clicked: the cart holds only the line item, so the full
// product is fetched before the detail view opens.
func (s *detailService) Show(ctx context.Context, productID int) error {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		logger.Error("Failed to fetch product for detail view", err, map[string]interface{}{
			"product_id": productID,
		})
		return fmt.Errorf("failed to fetch product %d: %w", productID, err)
	}

	s.bus.Publish(bus.ProductSelected{Product: *product})
	return nil
}
