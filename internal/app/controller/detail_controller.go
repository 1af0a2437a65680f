package controller

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/internal/app/service"
	"github.com/mittbutik/storefront/internal/app/view"
	"github.com/mittbutik/storefront/internal/middleware"
)

type DetailController struct {
	detailService service.DetailService
}

func NewDetailController(detailService service.DetailService) *DetailController {
	return &DetailController{
		detailService: detailService,
	}
}

// AddToCartRequest carries the quantity control's raw value. Non-numeric or
// sub-1 input is clamped to 1, fractional input is floored.
type AddToCartRequest struct {
	Quantity interface{} `json:"quantity"`
}

// GetDetail returns the detail view of the most recently selected product
// GET /api/v1/product
func (ctrl *DetailController) GetDetail(c *gin.Context) {
	product, shown := ctrl.detailService.Current()
	c.JSON(http.StatusOK, view.Detail(product, shown))
}

// AddToCart confirms add-to-cart for the shown product
// POST /api/v1/product/add
func (ctrl *DetailController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	quantity := coerceQuantity(req.Quantity)

	if err := ctrl.detailService.AddToCart(quantity); err != nil {
		if errors.Is(err, service.ErrNoProductShown) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "No product shown",
			})
			return
		}
		log.Error("Failed to add shown product to cart", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add item to cart",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item added to cart",
	})
}

// coerceQuantity turns whatever the quantity field held into an integer of at
// least 1.
func coerceQuantity(raw interface{}) int {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || v < 1 {
			return 1
		}
		return int(math.Floor(v))
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 1 {
			return 1
		}
		return int(math.Floor(n))
	default:
		return 1
	}
}
