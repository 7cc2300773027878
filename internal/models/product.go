package models

// Product is a catalog entry as delivered by the backend listing.
// Products are read-only on this side; the whole list is replaced on every load.
type Product struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    string   `json:"category,omitempty"`
	Image       string   `json:"image,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
}

// PriceValue returns the product price, treating a missing price as 0.
func (p Product) PriceValue() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// Available reports whether the product may be bought. Only an explicit
// in_stock=false marks a product unavailable.
func (p Product) Available() bool {
	return p.InStock == nil || *p.InStock
}

// Category is a catalog category. Slug is the filter key and the value
// products reference in their Category field.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateCategoryRequest is the admin payload for POST /categories
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// CreateProductRequest is the admin payload for POST /products
type CreateProductRequest struct {
	Title       string   `json:"title" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}
