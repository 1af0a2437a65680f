package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/internal/app/service"
	"github.com/mittbutik/storefront/internal/app/view"
	"github.com/mittbutik/storefront/internal/catalog"
	"github.com/mittbutik/storefront/internal/middleware"
)

type CartController struct {
	cartService   service.CartService
	detailService service.DetailService
}

func NewCartController(cartService service.CartService, detailService service.DetailService) *CartController {
	return &CartController{
		cartService:   cartService,
		detailService: detailService,
	}
}

// GetCart returns the cart table view
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, ctrl.cartView())
}

// Increment raises a line item's quantity by one
// POST /api/v1/cart/items/:id/increment
func (ctrl *CartController) Increment(c *gin.Context) {
	ctrl.step(c, +1)
}

// Decrement lowers a line item's quantity by one, removing it at zero
// POST /api/v1/cart/items/:id/decrement
func (ctrl *CartController) Decrement(c *gin.Context) {
	ctrl.step(c, -1)
}

func (ctrl *CartController) step(c *gin.Context, delta int) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseCartItemID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ChangeQuantity(id, delta); err != nil {
		// The mutation and broadcast happened; only the write failed.
		log.Error("Cart persist failed after quantity change", err, map[string]interface{}{
			"product_id": id,
			"delta":      delta,
		})
	}

	c.JSON(http.StatusOK, ctrl.cartView())
}

// ViewItem opens the detail view for a cart line item. The cart stores only
// the line item, so the full product is fetched from the catalog and the
// selection broadcast as if the product had been picked from the grid.
// POST /api/v1/cart/items/:id/view
func (ctrl *CartController) ViewItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseCartItemID(c)
	if !ok {
		return
	}

	if !ctrl.hasItem(id) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
		return
	}

	if err := ctrl.detailService.Show(c.Request.Context(), id); err != nil {
		log.Error("Failed to open cart item detail", err, map[string]interface{}{
			"product_id": id,
		})
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrRemote) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{
			"error": "Failed to load product",
		})
		return
	}

	c.JSON(http.StatusOK, view.Detail(ctrl.detailService.Current()))
}

// RemoveItem deletes a line item
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseCartItemID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.Remove(id); err != nil {
		log.Error("Cart persist failed after removal", err, map[string]interface{}{
			"product_id": id,
		})
	}

	c.JSON(http.StatusOK, ctrl.cartView())
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.cartService.Clear(); err != nil {
		log.Error("Cart persist failed after clear", err)
	}

	log.Info("Cart cleared")
	c.JSON(http.StatusOK, ctrl.cartView())
}

func (ctrl *CartController) cartView() view.CartView {
	return view.Cart(ctrl.cartService.Items(), ctrl.cartService.Count(), ctrl.cartService.Total())
}

func (ctrl *CartController) hasItem(id int) bool {
	for _, item := range ctrl.cartService.Items() {
		if item.ProductID == id {
			return true
		}
	}
	return false
}

func parseCartItemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cart item ID",
		})
		return 0, false
	}
	return id, true
}
