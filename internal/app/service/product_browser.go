package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/mittbutik/storefront/pkg/logger"
)

// SortMode orders the visible product set.
type SortMode string

const (
	SortRelevance SortMode = "relevance"  // catalog order, no reordering
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortTitleAsc  SortMode = "title-asc"
	SortTitleDesc SortMode = "title-desc"
)

// ParseSortMode maps a user-supplied string to a SortMode.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc:
		return SortMode(s), true
	}
	return "", false
}

// FilterState is the product browser's search controls. It is ephemeral and
// resets to defaults whenever the selected category changes.
type FilterState struct {
	Query    string
	MinPrice *float64
	MaxPrice *float64
	Sort     SortMode
}

func defaultFilter() FilterState {
	return FilterState{Sort: SortRelevance}
}

// ProductSnapshot is the product browser's observable state. Products is the
// visible set after filtering and sorting.
type ProductSnapshot struct {
	State    BrowseState
	Message  string
	Category string
	Products []model.Product
	Filter   FilterState
}

// ProductBrowser reacts to CategorySelected by fetching that category's
// products, then filters and sorts them locally.
type ProductBrowser interface {
	Snapshot() ProductSnapshot
	SetQuery(query string)
	SetPriceRange(min, max *float64)
	SetSort(mode SortMode)
	ResetFilters()
	SelectProduct(id int) bool
	QuickAdd(id int) bool
}

type productBrowser struct {
	mu         sync.Mutex
	catalog    CatalogReader
	bus        *bus.Bus
	debounce   time.Duration
	queryTimer *time.Timer
	generation int

	state    BrowseState
	message  string
	category string
	all      []model.Product
	visible  []model.Product
	filter   FilterState
}

func NewProductBrowser(catalog CatalogReader, b *bus.Bus, debounce time.Duration) ProductBrowser {
	s := &productBrowser{
		catalog:  catalog,
		bus:      b,
		debounce: debounce,
		state:    StateReady,
		filter:   defaultFilter(),
	}

	b.Subscribe(bus.EventCategorySelected, func(e bus.Event) {
		s.loadCategory(context.Background(), e.(bus.CategorySelected).Category)
	})

	return s
}

// loadCategory resets the filter controls, fetches the category's full product
// set and recomputes the visible set. Results of a fetch superseded by a newer
// one are discarded so rendered state always matches the latest request.
func (s *productBrowser) loadCategory(ctx context.Context, category string) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	if s.queryTimer != nil {
		// A debounce armed for the previous category must not recompute the
		// visible set from its products.
		s.queryTimer.Stop()
		s.queryTimer = nil
	}
	s.state = StateLoading
	s.message = ""
	s.category = category
	s.filter = defaultFilter()
	s.visible = nil
	s.mu.Unlock()

	products, err := s.catalog.ListByCategory(ctx, category)

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		logger.Debug("Discarding stale product fetch", map[string]interface{}{
			"category":   category,
			"generation": generation,
			"latest":     s.generation,
		})
		return
	}

	if err != nil {
		logger.Error("Failed to load products", err, map[string]interface{}{
			"category": category,
		})
		s.state = StateFailed
		s.message = "Could not load products. Please try again."
		s.all = nil
		s.visible = nil
		return
	}

	logger.Info("Products loaded", map[string]interface{}{
		"category": category,
		"count":    len(products),
	})
	s.state = StateReady
	s.all = products
	s.recomputeLocked()
}

// SetQuery updates the free-text filter. Recomputation is debounced so typing
// does not recompute on every keystroke.
func (s *productBrowser) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter.Query = query

	if s.debounce <= 0 {
		s.recomputeLocked()
		return
	}
	if s.queryTimer != nil {
		s.queryTimer.Stop()
	}
	generation := s.generation
	s.queryTimer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if generation != s.generation {
			return
		}
		s.recomputeLocked()
	})
}

// SetPriceRange updates the price bounds; nil means unbounded on that side.
// Recomputes immediately.
func (s *productBrowser) SetPriceRange(min, max *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter.MinPrice = min
	s.filter.MaxPrice = max
	s.recomputeLocked()
}

// SetSort changes the sort mode and recomputes immediately.
func (s *productBrowser) SetSort(mode SortMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter.Sort = mode
	s.recomputeLocked()
}

// ResetFilters restores the default controls and recomputes.
func (s *productBrowser) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = defaultFilter()
	s.recomputeLocked()
}

func (s *productBrowser) recomputeLocked() {
	s.visible = ApplyFilters(s.all, s.filter)
}

// SelectProduct publishes ProductSelected for a product in the visible set,
// carrying the full product so subscribers need no further fetch.
func (s *productBrowser) SelectProduct(id int) bool {
	product, ok := s.findVisible(id)
	if !ok {
		return false
	}
	s.bus.Publish(bus.ProductSelected{Product: product})
	return true
}

// QuickAdd publishes ItemAdded with quantity 1 without changing the view.
func (s *productBrowser) QuickAdd(id int) bool {
	product, ok := s.findVisible(id)
	if !ok {
		return false
	}
	s.bus.Publish(bus.ItemAdded{Product: product, Quantity: 1})
	return true
}

func (s *productBrowser) findVisible(id int) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.visible {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (s *productBrowser) Snapshot() ProductSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]model.Product, len(s.visible))
	copy(products, s.visible)
	return ProductSnapshot{
		State:    s.state,
		Message:  s.message,
		Category: s.category,
		Products: products,
		Filter:   s.filter,
	}
}

// ApplyFilters computes the visible set: title-contains query match
// (case-insensitive), then price bounds, then a stable sort. Relevance keeps
// the catalog's original order. The input slice is not modified.
func ApplyFilters(products []model.Product, filter FilterState) []model.Product {
	out := make([]model.Product, 0, len(products))

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	switch filter.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortTitleAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	case SortTitleDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title > out[j].Title })
	}
	return out
}
