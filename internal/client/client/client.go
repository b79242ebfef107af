package client

import (
	"context"

	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
)

// AuthAPI covers the session endpoints.
type AuthAPI interface {
	ValidateSession(ctx context.Context) (*models.AuthResponse, error)
	Login(ctx context.Context, data models.LoginData) (*models.AuthResponse, error)
	Register(ctx context.Context, data models.RegisterData) (*models.AuthResponse, error)
}

// CatalogAPI covers products, product images and categories.
type CatalogAPI interface {
	ListProducts(ctx context.Context, limit int) (*models.ProductsPage, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) (*models.Product, error)
	UploadProductImage(ctx context.Context, id string, asset models.ImageAsset) (*models.Product, error)
	ListCategories(ctx context.Context, limit int) (*models.CategoriesPage, error)
}

type Client interface {
	AuthAPI
	CatalogAPI
}

// TokenSource yields the token to attach to outgoing requests; "" means none.
type TokenSource interface {
	Load(ctx context.Context) (string, error)
}
