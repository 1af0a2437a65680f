package service

import (
	"context"
	"sync"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/mittbutik/storefront/pkg/logger"
)

// BrowseState is the lifecycle of a component that fetches remote data.
type BrowseState string

const (
	StateLoading BrowseState = "loading"
	StateReady   BrowseState = "ready"
	StateFailed  BrowseState = "failed"
)

// CatalogReader is the read-only catalog surface the browsing components need.
type CatalogReader interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListByCategory(ctx context.Context, name string) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
}

// placeholderImage stands in when no representative image can be resolved.
const placeholderImage = "https://picsum.photos/600/400?blur=2"

// defaultCategoryImages maps the well-known catalog categories to curated
// thumbnails, saving a fallback fetch per category.
var defaultCategoryImages = map[string]string{
	"electronics":      "https://images.unsplash.com/photo-1518779578993-ec3579fee39f?q=80&w=1200&auto=format&fit=crop",
	"jewelery":         "https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?q=80&w=1200&auto=format&fit=crop",
	"men's clothing":   "https://images.unsplash.com/photo-1516826957135-700dedea698c?q=80&w=1200&auto=format&fit=crop",
	"women's clothing": "https://images.unsplash.com/photo-1445205170230-053b83016050?q=80&w=1200&auto=format&fit=crop",
}

// CategorySnapshot is the category browser's observable state.
type CategorySnapshot struct {
	State      BrowseState
	Message    string
	Categories []model.Category
	Selected   string
}

// CategoryService lists the catalog's categories with a representative image
// each and publishes CategorySelected when the user activates one.
type CategoryService interface {
	Load(ctx context.Context)
	Select(category string) bool
	Snapshot() CategorySnapshot
}

type categoryService struct {
	mu         sync.Mutex
	catalog    CatalogReader
	bus        *bus.Bus
	generation int

	state      BrowseState
	message    string
	categories []model.Category
	selected   string
}

func NewCategoryService(catalog CatalogReader, b *bus.Bus) CategoryService {
	return &categoryService{
		catalog: catalog,
		bus:     b,
		state:   StateLoading,
	}
}

// Load fetches the category list and resolves an image per category: the
// static map first, else the first product of the category, else a neutral
// placeholder. Failures in the fallback fetch are swallowed so a missing
// thumbnail never blocks the listing; only the category list call itself can
// move the component to Failed.
func (s *categoryService) Load(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = StateLoading
	s.message = ""
	s.mu.Unlock()

	names, err := s.catalog.ListCategories(ctx)
	if err != nil {
		logger.Error("Failed to load categories", err)
		s.finish(generation, StateFailed, "Could not load categories. Please try again.", nil)
		return
	}

	categories := make([]model.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, model.Category{
			Name:  name,
			Image: s.resolveImage(ctx, name),
		})
	}

	logger.Info("Categories loaded", map[string]interface{}{
		"count": len(categories),
	})
	s.finish(generation, StateReady, "", categories)
}

func (s *categoryService) resolveImage(ctx context.Context, name string) string {
	if image, ok := defaultCategoryImages[name]; ok {
		return image
	}

	products, err := s.catalog.ListByCategory(ctx, name)
	if err != nil {
		logger.Warn("Image fallback fetch failed, using placeholder", map[string]interface{}{
			"category": name,
			"error":    err.Error(),
		})
		return placeholderImage
	}
	if len(products) > 0 && products[0].Image != "" {
		return products[0].Image
	}
	return placeholderImage
}

// finish applies a load result unless a newer Load superseded it.
func (s *categoryService) finish(generation int, state BrowseState, message string, categories []model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		logger.Debug("Discarding stale category load", map[string]interface{}{
			"generation": generation,
			"latest":     s.generation,
		})
		return
	}
	s.state = state
	s.message = message
	s.categories = categories
}

// Select records the activated category and publishes CategorySelected. The
// pressed indicator is exclusive: selecting one clears all others. Unknown
// categories are rejected.
func (s *categoryService) Select(category string) bool {
	s.mu.Lock()
	known := false
	for _, c := range s.categories {
		if c.Name == category {
			known = true
			break
		}
	}
	if !known {
		s.mu.Unlock()
		return false
	}
	s.selected = category
	s.mu.Unlock()

	s.bus.Publish(bus.CategorySelected{Category: category})
	return true
}

func (s *categoryService) Snapshot() CategorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]model.Category, len(s.categories))
	copy(categories, s.categories)
	return CategorySnapshot{
		State:      s.state,
		Message:    s.message,
		Categories: categories,
		Selected:   s.selected,
	}
}
