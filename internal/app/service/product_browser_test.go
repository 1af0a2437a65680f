package service

import (
	"testing"
	"time"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clothingFixture() []model.Product {
	return []model.Product{
		{ID: 1, Title: "Red Shirt", Price: 10},
		{ID: 2, Title: "Blue Shirt", Price: 30},
		{ID: 3, Title: "Red Hat", Price: 20},
	}
}

func titles(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Title)
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }

func TestApplyFilters_QueryWithPriceSort(t *testing.T) {
	result := ApplyFilters(clothingFixture(), FilterState{Query: "red", Sort: SortPriceAsc})
	assert.Equal(t, []string{"Red Shirt", "Red Hat"}, titles(result))
}

func TestApplyFilters_MinBound(t *testing.T) {
	result := ApplyFilters(clothingFixture(), FilterState{MinPrice: floatPtr(15), Sort: SortPriceAsc})
	assert.Equal(t, []string{"Red Hat", "Blue Shirt"}, titles(result))
}

func TestApplyFilters_MaxBound(t *testing.T) {
	result := ApplyFilters(clothingFixture(), FilterState{MaxPrice: floatPtr(20), Sort: SortRelevance})
	assert.Equal(t, []string{"Red Shirt", "Red Hat"}, titles(result))
}

func TestApplyFilters_QueryIsCaseInsensitive(t *testing.T) {
	result := ApplyFilters(clothingFixture(), FilterState{Query: "  RED ", Sort: SortRelevance})
	assert.Equal(t, []string{"Red Shirt", "Red Hat"}, titles(result))
}

func TestApplyFilters_TitleSorts(t *testing.T) {
	asc := ApplyFilters(clothingFixture(), FilterState{Sort: SortTitleAsc})
	assert.Equal(t, []string{"Blue Shirt", "Red Hat", "Red Shirt"}, titles(asc))

	desc := ApplyFilters(clothingFixture(), FilterState{Sort: SortTitleDesc})
	assert.Equal(t, []string{"Red Shirt", "Red Hat", "Blue Shirt"}, titles(desc))
}

func TestApplyFilters_RelevancePreservesCatalogOrder(t *testing.T) {
	result := ApplyFilters(clothingFixture(), FilterState{Sort: SortRelevance})
	assert.Equal(t, []string{"Red Shirt", "Blue Shirt", "Red Hat"}, titles(result))
}

func TestApplyFilters_StableOnEqualKeys(t *testing.T) {
	products := []model.Product{
		{ID: 1, Title: "A", Price: 10},
		{ID: 2, Title: "B", Price: 10},
		{ID: 3, Title: "C", Price: 10},
	}
	result := ApplyFilters(products, FilterState{Sort: SortPriceAsc})
	assert.Equal(t, []string{"A", "B", "C"}, titles(result))
}

func TestApplyFilters_DoesNotModifyInput(t *testing.T) {
	products := clothingFixture()
	ApplyFilters(products, FilterState{Sort: SortPriceDesc})
	assert.Equal(t, []string{"Red Shirt", "Blue Shirt", "Red Hat"}, titles(products))
}

func setupBrowserTest(debounce time.Duration) (*fakeCatalog, *bus.Bus, ProductBrowser) {
	catalog := &fakeCatalog{
		products: map[string][]model.Product{
			"clothing": clothingFixture(),
		},
	}
	b := bus.New()
	browser := NewProductBrowser(catalog, b, debounce)
	return catalog, b, browser
}

func TestProductBrowser_LoadsOnCategorySelected(t *testing.T) {
	_, b, browser := setupBrowserTest(0)

	b.Publish(bus.CategorySelected{Category: "clothing"})

	snapshot := browser.Snapshot()
	assert.Equal(t, StateReady, snapshot.State)
	assert.Equal(t, "clothing", snapshot.Category)
	assert.Equal(t, []string{"Red Shirt", "Blue Shirt", "Red Hat"}, titles(snapshot.Products))
	assert.Equal(t, defaultFilter(), snapshot.Filter)
}

func TestProductBrowser_CategoryChangeResetsFilters(t *testing.T) {
	catalog, b, browser := setupBrowserTest(0)
	catalog.products["hats"] = []model.Product{{ID: 9, Title: "Beret", Price: 5}}

	b.Publish(bus.CategorySelected{Category: "clothing"})
	browser.SetQuery("red")
	browser.SetSort(SortPriceDesc)
	browser.SetPriceRange(floatPtr(5), nil)
	require.NotEqual(t, defaultFilter(), browser.Snapshot().Filter)

	b.Publish(bus.CategorySelected{Category: "hats"})

	snapshot := browser.Snapshot()
	assert.Equal(t, defaultFilter(), snapshot.Filter)
	assert.Equal(t, []string{"Beret"}, titles(snapshot.Products))
}

func TestProductBrowser_FetchFailure(t *testing.T) {
	catalog, b, browser := setupBrowserTest(0)
	catalog.productsErr = map[string]error{"clothing": assert.AnError}

	b.Publish(bus.CategorySelected{Category: "clothing"})

	snapshot := browser.Snapshot()
	assert.Equal(t, StateFailed, snapshot.State)
	assert.NotEmpty(t, snapshot.Message)
	assert.Empty(t, snapshot.Products)
}

func TestProductBrowser_ImmediateRecomputeOnBoundsAndSort(t *testing.T) {
	_, b, browser := setupBrowserTest(0)
	b.Publish(bus.CategorySelected{Category: "clothing"})

	browser.SetPriceRange(floatPtr(15), nil)
	browser.SetSort(SortPriceAsc)
	assert.Equal(t, []string{"Red Hat", "Blue Shirt"}, titles(browser.Snapshot().Products))

	browser.ResetFilters()
	assert.Equal(t, []string{"Red Shirt", "Blue Shirt", "Red Hat"}, titles(browser.Snapshot().Products))
}

func TestProductBrowser_QueryIsDebounced(t *testing.T) {
	_, b, browser := setupBrowserTest(30 * time.Millisecond)
	b.Publish(bus.CategorySelected{Category: "clothing"})

	browser.SetQuery("red")

	// The visible set is untouched until the debounce interval elapses.
	assert.Len(t, browser.Snapshot().Products, 3)
	assert.Equal(t, "red", browser.Snapshot().Filter.Query)

	assert.Eventually(t, func() bool {
		return len(browser.Snapshot().Products) == 2
	}, time.Second, 5*time.Millisecond)
}

func TestProductBrowser_DebounceCoalescesKeystrokes(t *testing.T) {
	_, b, browser := setupBrowserTest(30 * time.Millisecond)
	b.Publish(bus.CategorySelected{Category: "clothing"})

	browser.SetQuery("r")
	browser.SetQuery("re")
	browser.SetQuery("red shirt")

	assert.Eventually(t, func() bool {
		products := browser.Snapshot().Products
		return len(products) == 1 && products[0].Title == "Red Shirt"
	}, time.Second, 5*time.Millisecond)
}

func TestProductBrowser_SelectProductPublishesFullProduct(t *testing.T) {
	_, b, browser := setupBrowserTest(0)
	b.Publish(bus.CategorySelected{Category: "clothing"})

	var selected model.Product
	b.Subscribe(bus.EventProductSelected, func(e bus.Event) {
		selected = e.(bus.ProductSelected).Product
	})

	assert.True(t, browser.SelectProduct(2))
	assert.Equal(t, "Blue Shirt", selected.Title)
	assert.Equal(t, 30.0, selected.Price)

	assert.False(t, browser.SelectProduct(9999))
}

func TestProductBrowser_QuickAddPublishesSingleUnit(t *testing.T) {
	_, b, browser := setupBrowserTest(0)
	b.Publish(bus.CategorySelected{Category: "clothing"})

	var added []bus.ItemAdded
	b.Subscribe(bus.EventItemAdded, func(e bus.Event) {
		added = append(added, e.(bus.ItemAdded))
	})

	assert.True(t, browser.QuickAdd(3))
	require.Len(t, added, 1)
	assert.Equal(t, "Red Hat", added[0].Product.Title)
	assert.Equal(t, 1, added[0].Quantity)

	// The visible set is unchanged by a quick add.
	assert.Len(t, browser.Snapshot().Products, 3)
}

func TestProductBrowser_QuickAddRespectsVisibleSet(t *testing.T) {
	_, b, browser := setupBrowserTest(0)
	b.Publish(bus.CategorySelected{Category: "clothing"})
	browser.SetPriceRange(floatPtr(25), nil)

	// Red Hat is filtered out, so it cannot be quick-added.
	assert.False(t, browser.QuickAdd(3))
	assert.True(t, browser.QuickAdd(2))
}

func TestProductBrowser_PendingDebounceDiesWithItsCategory(t *testing.T) {
	catalog, b, browser := setupBrowserTest(30 * time.Millisecond)
	catalog.products["hats"] = []model.Product{{ID: 9, Title: "Beret", Price: 5}}

	b.Publish(bus.CategorySelected{Category: "clothing"})
	browser.SetQuery("red")

	gate := make(chan struct{})
	entered := make(chan string, 1)
	catalog.mu.Lock()
	catalog.block = map[string]chan struct{}{"hats": gate}
	catalog.entered = entered
	catalog.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.Publish(bus.CategorySelected{Category: "hats"})
		close(done)
	}()
	<-entered // the hats fetch is in flight

	// Outlive the debounce armed for the clothing query. It must not
	// resurrect the clothing products into the hats Loading window.
	time.Sleep(60 * time.Millisecond)
	snapshot := browser.Snapshot()
	assert.Equal(t, "hats", snapshot.Category)
	assert.Empty(t, snapshot.Products)

	close(gate)
	<-done
	assert.Equal(t, []string{"Beret"}, titles(browser.Snapshot().Products))
}

func TestProductBrowser_StaleFetchIsDiscarded(t *testing.T) {
	catalog, b, browser := setupBrowserTest(0)
	catalog.products["hats"] = []model.Product{{ID: 9, Title: "Beret", Price: 5}}

	gate := make(chan struct{})
	entered := make(chan string, 2)
	catalog.mu.Lock()
	catalog.block = map[string]chan struct{}{"clothing": gate}
	catalog.entered = entered
	catalog.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.Publish(bus.CategorySelected{Category: "clothing"})
		close(done)
	}()
	<-entered // the clothing fetch is in flight

	// A newer selection supersedes it before it resolves.
	b.Publish(bus.CategorySelected{Category: "hats"})
	<-entered
	require.Equal(t, "hats", browser.Snapshot().Category)

	close(gate)
	<-done

	// The late clothing result must not overwrite the hats view.
	snapshot := browser.Snapshot()
	assert.Equal(t, "hats", snapshot.Category)
	assert.Equal(t, []string{"Beret"}, titles(snapshot.Products))
	assert.Equal(t, StateReady, snapshot.State)
}
