// Package view turns component state into view models: plain data structures
// ready for display, with prices already formatted. Rendering stays a pure
// function of state so it is testable without any UI.
package view

import (
	"strconv"

	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/internal/app/service"
)

// CategoryCard is one selectable category tile.
type CategoryCard struct {
	Name    string `json:"name"`
	Image   string `json:"image"`
	Pressed bool   `json:"pressed"`
}

// CategoriesView is the category browser rendered.
type CategoriesView struct {
	Loading    bool           `json:"loading"`
	Error      string         `json:"error,omitempty"`
	Categories []CategoryCard `json:"categories"`
}

func Categories(s service.CategorySnapshot) CategoriesView {
	v := CategoriesView{
		Loading:    s.State == service.StateLoading,
		Error:      s.Message,
		Categories: make([]CategoryCard, 0, len(s.Categories)),
	}
	for _, c := range s.Categories {
		v.Categories = append(v.Categories, CategoryCard{
			Name:    c.Name,
			Image:   c.Image,
			Pressed: c.Name == s.Selected,
		})
	}
	return v
}

// ProductCard is one product tile in the grid.
type ProductCard struct {
	ID     int           `json:"id"`
	Title  string        `json:"title"`
	Price  string        `json:"price"`
	Image  string        `json:"image"`
	Rating *model.Rating `json:"rating,omitempty"`
}

// ProductsView is the product browser rendered: the visible grid plus the
// current filter controls so the UI can reflect them.
type ProductsView struct {
	Loading  bool          `json:"loading"`
	Error    string        `json:"error,omitempty"`
	Category string        `json:"category,omitempty"`
	Query    string        `json:"query"`
	MinPrice string        `json:"min_price"`
	MaxPrice string        `json:"max_price"`
	Sort     string        `json:"sort"`
	Products []ProductCard `json:"products"`
}

func Products(s service.ProductSnapshot) ProductsView {
	v := ProductsView{
		Loading:  s.State == service.StateLoading,
		Error:    s.Message,
		Category: s.Category,
		Query:    s.Filter.Query,
		MinPrice: formatBound(s.Filter.MinPrice),
		MaxPrice: formatBound(s.Filter.MaxPrice),
		Sort:     string(s.Filter.Sort),
		Products: make([]ProductCard, 0, len(s.Products)),
	}
	for _, p := range s.Products {
		v.Products = append(v.Products, ProductCard{
			ID:     p.ID,
			Title:  p.Title,
			Price:  FormatPrice(p.Price),
			Image:  p.Image,
			Rating: p.Rating,
		})
	}
	return v
}

// DetailView is the product detail section.
type DetailView struct {
	HasProduct  bool          `json:"has_product"`
	ID          int           `json:"id,omitempty"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    string        `json:"category,omitempty"`
	Price       string        `json:"price,omitempty"`
	Image       string        `json:"image,omitempty"`
	Rating      *model.Rating `json:"rating,omitempty"`
}

func Detail(p model.Product, shown bool) DetailView {
	if !shown {
		return DetailView{}
	}
	return DetailView{
		HasProduct:  true,
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       FormatPrice(p.Price),
		Image:       p.Image,
		Rating:      p.Rating,
	}
}

// CartRow is one line of the cart table.
type CartRow struct {
	ProductID int    `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Price     string `json:"price"`
	Quantity  int    `json:"qty"`
	Subtotal  string `json:"subtotal"`
}

// CartView is the cart table with per-line subtotals, the badge count and the
// grand total.
type CartView struct {
	Empty bool      `json:"empty"`
	Rows  []CartRow `json:"rows"`
	Count int       `json:"count"`
	Total string    `json:"total"`
}

func Cart(items []model.LineItem, count int, total float64) CartView {
	v := CartView{
		Empty: len(items) == 0,
		Rows:  make([]CartRow, 0, len(items)),
		Count: count,
		Total: FormatPrice(total),
	}
	for _, item := range items {
		v.Rows = append(v.Rows, CartRow{
			ProductID: item.ProductID,
			Title:     item.Title,
			Category:  item.Category,
			Image:     item.Image,
			Price:     FormatPrice(item.Price),
			Quantity:  item.Quantity,
			Subtotal:  FormatPrice(item.Subtotal()),
		})
	}
	return v
}

// FormatPrice renders a price with two decimals.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
