package controller

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/app/service"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDetailControllerTest(t *testing.T) (*gin.Engine, *bus.Bus) {
	b := bus.New()
	detailService := service.NewDetailService(stubCatalog{}, b)
	detailController := NewDetailController(detailService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/v1/product", detailController.GetDetail)
	router.POST("/api/v1/product/add", detailController.AddToCart)

	return router, b
}

func TestDetailController_GetDetail_NothingShown(t *testing.T) {
	router, _ := setupDetailControllerTest(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/product", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_product":false`)
}

func TestDetailController_AddToCart_NoProductShown(t *testing.T) {
	router, _ := setupDetailControllerTest(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/product/add", bytes.NewBufferString(`{"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDetailController_AddToCart_QuantityCoercion(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"integer", `{"quantity":3}`, 3},
		{"fractional is floored", `{"quantity":2.9}`, 2},
		{"numeric string", `{"quantity":"4"}`, 4},
		{"garbage string", `{"quantity":"lots"}`, 1},
		{"below one", `{"quantity":0}`, 1},
		{"negative", `{"quantity":-5}`, 1},
		{"absent", `{}`, 1},
		{"null", `{"quantity":null}`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, b := setupDetailControllerTest(t)
			b.Publish(bus.ProductSelected{Product: model.Product{ID: 1, Title: "Red Shirt", Price: 10}})

			var added []bus.ItemAdded
			b.Subscribe(bus.EventItemAdded, func(e bus.Event) {
				added = append(added, e.(bus.ItemAdded))
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/product/add", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)
			require.Len(t, added, 1)
			assert.Equal(t, tt.expected, added[0].Quantity)
		})
	}
}
