package model

// Rating is the average customer score a product carries in the catalog.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product as sourced from the remote catalog. Read-only within this system.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

// Category pairs a catalog category name with a resolved representative image.
type Category struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}
