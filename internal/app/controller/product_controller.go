package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/internal/app/service"
	"github.com/mittbutik/storefront/internal/app/view"
	"github.com/mittbutik/storefront/internal/middleware"
)

type ProductController struct {
	productBrowser service.ProductBrowser
}

func NewProductController(productBrowser service.ProductBrowser) *ProductController {
	return &ProductController{
		productBrowser: productBrowser,
	}
}

// UpdateFiltersRequest sets the whole filter state at once. Absent price
// bounds mean unbounded; an absent sort falls back to relevance.
type UpdateFiltersRequest struct {
	Query    string   `json:"query"`
	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	Sort     string   `json:"sort"`
}

// GetProducts returns the product browser view
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, view.Products(ctrl.productBrowser.Snapshot()))
}

// UpdateFilters applies search, price bounds and sort mode
// PUT /api/v1/products/filters
func (ctrl *ProductController) UpdateFilters(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateFiltersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid filter request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	sortMode := service.SortRelevance
	if req.Sort != "" {
		parsed, ok := service.ParseSortMode(req.Sort)
		if !ok {
			log.Warn("Invalid sort mode", map[string]interface{}{
				"sort": req.Sort,
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid sort mode",
			})
			return
		}
		sortMode = parsed
	}

	ctrl.productBrowser.SetPriceRange(req.MinPrice, req.MaxPrice)
	ctrl.productBrowser.SetSort(sortMode)
	// Query last: its recompute is debounced, the others applied immediately.
	ctrl.productBrowser.SetQuery(req.Query)

	c.JSON(http.StatusOK, view.Products(ctrl.productBrowser.Snapshot()))
}

// ResetFilters restores the default filter state
// POST /api/v1/products/filters/reset
func (ctrl *ProductController) ResetFilters(c *gin.Context) {
	ctrl.productBrowser.ResetFilters()
	c.JSON(http.StatusOK, view.Products(ctrl.productBrowser.Snapshot()))
}

// SelectProduct opens a product's detail view
// POST /api/v1/products/:id/select
func (ctrl *ProductController) SelectProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if !ctrl.productBrowser.SelectProduct(id) {
		log.Warn("Product not in visible set", map[string]interface{}{
			"product_id": id,
		})
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product selected",
	})
}

// QuickAdd puts one unit of a visible product straight in the cart
// POST /api/v1/products/:id/quick-add
func (ctrl *ProductController) QuickAdd(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if !ctrl.productBrowser.QuickAdd(id) {
		log.Warn("Product not in visible set for quick add", map[string]interface{}{
			"product_id": id,
		})
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	log.Info("Product quick-added", map[string]interface{}{
		"product_id": id,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart",
	})
}

func parseProductID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID",
		})
		return 0, false
	}
	return id, true
}
