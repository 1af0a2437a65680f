package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/internal/app/service"
)

type ViewController struct {
	viewRouter service.ViewRouter
}

func NewViewController(viewRouter service.ViewRouter) *ViewController {
	return &ViewController{
		viewRouter: viewRouter,
	}
}

// GetView returns the currently visible section
// GET /api/v1/view
func (ctrl *ViewController) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view": ctrl.viewRouter.Current(),
	})
}

// GoHome returns to the category section
// POST /api/v1/view/home
func (ctrl *ViewController) GoHome(c *gin.Context) {
	ctrl.viewRouter.GoHome()
	c.JSON(http.StatusOK, gin.H{
		"view": ctrl.viewRouter.Current(),
	})
}
