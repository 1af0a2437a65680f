package router

import (
	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/config"
	"github.com/mittbutik/storefront/internal/app/controller"
	"github.com/mittbutik/storefront/internal/middleware"
	"github.com/mittbutik/storefront/internal/ws"
)

type Router struct {
	categoryController *controller.CategoryController
	productController  *controller.ProductController
	detailController   *controller.DetailController
	cartController     *controller.CartController
	viewController     *controller.ViewController
	cartFeed           *ws.Hub
	config             *config.Config
}

func NewRouter(
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	detailController *controller.DetailController,
	cartController *controller.CartController,
	viewController *controller.ViewController,
	cartFeed *ws.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		categoryController: categoryController,
		productController:  productController,
		detailController:   detailController,
		cartController:     cartController,
		viewController:     viewController,
		cartFeed:           cartFeed,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	router.GET("/ws", func(c *gin.Context) {
		r.cartFeed.Serve(c.Writer, c.Request)
	})

	v1 := router.Group("/api/v1")
	{
		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.GetCategories)
			categories.POST("/:name/select", r.categoryController.SelectCategory)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.PUT("/filters", r.productController.UpdateFilters)
			products.POST("/filters/reset", r.productController.ResetFilters)
			products.POST("/:id/select", r.productController.SelectProduct)
			products.POST("/:id/quick-add", r.productController.QuickAdd)
		}

		product := v1.Group("/product")
		{
			product.GET("", r.detailController.GetDetail)
			product.POST("/add", r.detailController.AddToCart)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items/:id/increment", r.cartController.Increment)
			cart.POST("/items/:id/decrement", r.cartController.Decrement)
			cart.POST("/items/:id/view", r.cartController.ViewItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}

		views := v1.Group("/view")
		{
			views.GET("", r.viewController.GetView)
			views.POST("/home", r.viewController.GoHome)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
