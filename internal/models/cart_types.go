package models

// CartItem is one line of the visitor's cart. Price and Name are captured
// for display only; checkout re-reads the product.
type CartItem struct {
	ProductID string  `json:"id"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
}
