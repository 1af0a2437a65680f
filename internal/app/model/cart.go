package model

// LineItem is one product's entry in the cart. Price, title, image and category
// are captured at add time so later catalog changes do not rewrite the cart.
// The JSON field names are the persisted storage format.
type LineItem struct {
	ProductID int     `json:"id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Quantity  int     `json:"qty"`
}

// Subtotal is price times quantity for this line.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}
