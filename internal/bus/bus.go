package bus

import (
	"sync"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/pkg/logger"
)

// Event names, used as subscription topics.
const (
	EventCategorySelected = "CategorySelected"
	EventProductSelected  = "ProductSelected"
	EventItemAdded        = "ItemAdded"
	EventCartUpdated      = "CartUpdated"
)

// Event is a broadcast signal delivered to all current subscribers.
// Payloads are carried by value so subscribers need no reference to the emitter.
type Event interface {
	Name() string
}

// CategorySelected fires when the user activates a category.
type CategorySelected struct {
	Category string
}

func (CategorySelected) Name() string { return EventCategorySelected }

// ProductSelected fires when the user opens a product's detail view.
// It carries the full product, not just the id.
type ProductSelected struct {
	Product model.Product
}

func (ProductSelected) Name() string { return EventProductSelected }

// ItemAdded fires when the user puts a product in the cart.
type ItemAdded struct {
	Product  model.Product
	Quantity int
}

func (ItemAdded) Name() string { return EventItemAdded }

// CartUpdated fires after every cart mutation, after the cart has been persisted.
type CartUpdated struct {
	Items []model.LineItem
	Total float64
}

func (CartUpdated) Name() string { return EventCartUpdated }

// Handler receives published events for one topic.
type Handler func(Event)

type subscription struct {
	id int
	fn Handler
}

// Bus is an in-process publish/subscribe broker. Delivery is synchronous on the
// publisher's goroutine, in subscription order: when Publish returns, every
// subscriber has run. There is no payload persistence and no delivery to
// handlers subscribed after the publish.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[string][]subscription
}

func New() *Bus {
	return &Bus{
		handlers: make(map[string][]subscription),
	}
}

// Subscribe registers a handler for the named event and returns a function
// that removes the subscription.
func (b *Bus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[name] = append(b.handlers[name], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[name]
		for i, sub := range subs {
			if sub.id == id {
				b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every current subscriber of its name.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[e.Name()]))
	copy(subs, b.handlers[e.Name()])
	b.mu.RUnlock()

	logger.Debug("Publishing event", map[string]interface{}{
		"event":       e.Name(),
		"subscribers": len(subs),
	})

	for _, sub := range subs {
		sub.fn(e)
	}
}
