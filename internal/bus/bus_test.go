package bus

import (
	"testing"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func TestBus_PublishDeliversToSubscribers(t *testing.T) {
	b := New()

	var got []string
	b.Subscribe(EventCategorySelected, func(e Event) {
		got = append(got, "first:"+e.(CategorySelected).Category)
	})
	b.Subscribe(EventCategorySelected, func(e Event) {
		got = append(got, "second:"+e.(CategorySelected).Category)
	})

	b.Publish(CategorySelected{Category: "electronics"})

	// Synchronous delivery in subscription order.
	assert.Equal(t, []string{"first:electronics", "second:electronics"}, got)
}

func TestBus_PublishIgnoresOtherTopics(t *testing.T) {
	b := New()

	calls := 0
	b.Subscribe(EventCartUpdated, func(Event) {
		calls++
	})

	b.Publish(ItemAdded{Product: model.Product{ID: 1}, Quantity: 1})
	assert.Zero(t, calls)

	b.Publish(CartUpdated{})
	assert.Equal(t, 1, calls)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()

	calls := 0
	unsubscribe := b.Subscribe(EventProductSelected, func(Event) {
		calls++
	})

	b.Publish(ProductSelected{Product: model.Product{ID: 7}})
	assert.Equal(t, 1, calls)

	unsubscribe()
	b.Publish(ProductSelected{Product: model.Product{ID: 7}})
	assert.Equal(t, 1, calls)

	// Unsubscribing twice is harmless.
	unsubscribe()
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() {
		b.Publish(CartUpdated{Total: 10})
	})
}
