package models

import "github.com/shopspring/decimal"

// CategoryRef is the embedded category of a product.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"nombre,omitempty"`
}

// UserRef is the embedded owner of a product.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"nombre,omitempty"`
}

// Product is a catalog item. ID is assigned by the server; Image is set only
// after a successful upload. The API sends precio as a JSON number.
type Product struct {
	ID        string          `json:"_id"`
	Name      string          `json:"nombre"`
	Category  CategoryRef     `json:"categoria"`
	Image     string          `json:"img,omitempty"`
	Price     decimal.Decimal `json:"precio"`
	Available bool            `json:"disponible"`
	Owner     *UserRef        `json:"usuario,omitempty"`
}

// CategoryID returns the id of the product's category.
func (p Product) CategoryID() string {
	return p.Category.ID
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	if p.Owner != nil {
		o := *p.Owner
		p.Owner = &o
	}
	return p
}

// Category is a product category as listed by GET /categorias.
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"nombre"`
}

// ProductInput is the body of POST /productos and PUT /productos/:id.
type ProductInput struct {
	Name       string `json:"nombre"`
	CategoryID string `json:"categoria"`
}

// ProductsPage is the response of GET /productos.
type ProductsPage struct {
	Total    int       `json:"total"`
	Products []Product `json:"productos"`
}

// CategoriesPage is the response of GET /categorias.
type CategoriesPage struct {
	Total      int        `json:"total"`
	Categories []Category `json:"categorias"`
}

// ImageAsset is a locally picked image. URI is a filesystem path in this
// client; Type is the MIME type and FileName the name sent to the server.
type ImageAsset struct {
	URI      string
	Type     string
	FileName string
}

// ProductsSnapshot is a read-only copy of the product collection state.
type ProductsSnapshot struct {
	Products  []Product
	ListBusy  bool
	ImageBusy bool
}
