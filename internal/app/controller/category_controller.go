package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/internal/app/service"
	"github.com/mittbutik/storefront/internal/app/view"
	"github.com/mittbutik/storefront/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
	productBrowser  service.ProductBrowser
}

func NewCategoryController(categoryService service.CategoryService, productBrowser service.ProductBrowser) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		productBrowser:  productBrowser,
	}
}

// GetCategories returns the category browser view
// GET /api/v1/categories
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, view.Categories(ctrl.categoryService.Snapshot()))
}

// SelectCategory activates a category and returns the resulting product view
// POST /api/v1/categories/:name/select
func (ctrl *CategoryController) SelectCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	name := c.Param("name")

	if !ctrl.categoryService.Select(name) {
		log.Warn("Unknown category selected", map[string]interface{}{
			"category": name,
		})
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Category not found",
		})
		return
	}

	log.Info("Category selected", map[string]interface{}{
		"category": name,
	})

	// The product browser has already reacted to the broadcast by the time
	// Select returns, so its view reflects the new category.
	c.JSON(http.StatusOK, view.Products(ctrl.productBrowser.Snapshot()))
}
