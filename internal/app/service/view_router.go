package service

import (
	"sync"

	"github.com/mittbutik/storefront/internal/bus"
)

// View names the top-level sections.
type View string

const (
	ViewCategories View = "categories"
	ViewProducts   View = "products"
	ViewDetails    View = "details"
	ViewCart       View = "cart"
)

// ViewRouter keeps a single section visible, selected by the most recent
// signal. No back-stack, no URL state: last event wins.
type ViewRouter interface {
	Current() View
	GoHome()
}

type viewRouter struct {
	mu      sync.Mutex
	current View
}

func NewViewRouter(b *bus.Bus) ViewRouter {
	r := &viewRouter{current: ViewCategories}

	b.Subscribe(bus.EventCategorySelected, func(bus.Event) { r.set(ViewProducts) })
	b.Subscribe(bus.EventProductSelected, func(bus.Event) { r.set(ViewDetails) })
	b.Subscribe(bus.EventItemAdded, func(bus.Event) { r.set(ViewCart) })

	return r
}

func (r *viewRouter) set(v View) {
	r.mu.Lock()
	r.current = v
	r.mu.Unlock()
}

func (r *viewRouter) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// GoHome returns to the category section, the navbar home link behavior.
func (r *viewRouter) GoHome() {
	r.set(ViewCategories)
}
