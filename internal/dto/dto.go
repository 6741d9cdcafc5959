package dto

import (
	"fmt"
	"io"
)

// Cart maps product id to quantity. It lives in a signed cookie on the buyer
// side; handlers decode it and thread it through checkout explicitly.
type Cart map[uint]int

func (c Cart) Add(productID uint, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	c[productID] += quantity
	return nil
}

func (c Cart) Remove(productID uint) {
	delete(c, productID)
}

func (c Cart) Validate() error {
	for id, qty := range c {
		if qty <= 0 {
			return fmt.Errorf("product %d has non-positive quantity %d", id, qty)
		}
	}
	return nil
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CheckoutRequest struct {
	Email string `json:"email"`
}

type CheckoutResult struct {
	OrderID     uint   `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	// cart entries referencing no known product, dropped from the order
	DroppedProductIDs []uint `json:"dropped_product_ids,omitempty"`
}

type DownloadLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type ProductFilter struct {
	Query           string
	MinPriceCents   *int64
	MaxPriceCents   *int64
	Category        string
	MediaTypePrefix string
}

type ProductInput struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	PriceCents  int64  `json:"price_cents" form:"price_cents"`
	Stock       int    `json:"stock" form:"stock"`
	Category    string `json:"category" form:"category"`
}

// Upload carries a file from the multipart form into the storage layer.
type Upload struct {
	Filename string
	MimeType string
	Reader   io.Reader
}

type CredentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AdminLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type SetStatusRequest struct {
	Status string `json:"status" form:"status"`
}

type SetStockRequest struct {
	Stock int `json:"stock" form:"stock"`
}
