package commerce

// Attribute is one (option name, value) pair on the wire.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is the remote representation of a persisted variant.
type Variant struct {
	ID         string      `json:"id"`
	ProductID  string      `json:"productId"`
	Name       string      `json:"name"`
	Price      float64     `json:"price"`
	Stock      int         `json:"stock"`
	Attributes []Attribute `json:"attributes"`
	Images     []string    `json:"images,omitempty"`
}

// CreateVariantRequest is the body of POST /variants.
type CreateVariantRequest struct {
	ProductID  string      `json:"productId"`
	Price      float64     `json:"price"`
	Stock      int         `json:"stock"`
	Attributes []Attribute `json:"attributes"`
}

// UpdateVariantRequest is the body of PUT /variants/{id}.
type UpdateVariantRequest struct {
	ProductID  string      `json:"productId"`
	Name       string      `json:"name"`
	Price      float64     `json:"price"`
	Stock      int         `json:"stock"`
	Attributes []Attribute `json:"attributes"`
}

// Product is the remote base product.
type Product struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"sellerId"`
	SellerName  string  `json:"sellerName"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       *string `json:"image,omitempty"`
	HasVariants bool    `json:"hasVariants"`
}

// UpdateProductRequest is the body of PUT /products/{id}. Nil fields are not sent.
type UpdateProductRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Image       *string  `json:"image,omitempty"`
}
