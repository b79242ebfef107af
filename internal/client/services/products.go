package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cafecatalog/internal/client/client"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/common"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
)

// ProductService owns the in-memory product collection.
//
// ListBusy covers LoadAll, LoadOne, Create, Update and Delete; ImageBusy
// covers UploadImage. The two are independent.
//
// Error policy: Create, Update, LoadAll and LoadOne return plain errors for
// the caller to present. Delete and UploadImage return *AlertError, meant to
// be shown to the user immediately. Local precondition failures
// (ErrCategoryRequired, ErrNameRequired, ErrIDRequired, ErrImageRequired)
// are returned before any request is made.
//
// Delete and UploadImage do not touch the collection: callers reload with
// LoadAll to see the effect.
type ProductService interface {
	LoadAll(ctx context.Context, pageSize int) error
	LoadOne(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, categoryID, name string) (*models.Product, error)
	Update(ctx context.Context, categoryID, name, id string) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, asset models.ImageAsset, productID string) error
	Categories(ctx context.Context, limit int) ([]models.Category, error)
	ResolveCategory(ctx context.Context, selected string) (string, error)
	Snapshot() models.ProductsSnapshot
	Subscribe(fn func(models.ProductsSnapshot)) (unsubscribe func())
}

type productService struct {
	api client.CatalogAPI
	log logging.Logger

	mu       sync.Mutex
	products []models.Product
	// in-flight counters behind the ListBusy / ImageBusy flags
	listOps  int
	imageOps int
	subs     *observers[models.ProductsSnapshot]
}

// NewProductService constructs a ProductService with an empty collection.
func NewProductService(api client.CatalogAPI, log logging.Logger) ProductService {
	return &productService{
		api:      api,
		log:      log.With("component", "products"),
		products: []models.Product{},
		subs:     newObservers(cloneSnapshot),
	}
}

func cloneSnapshot(s models.ProductsSnapshot) models.ProductsSnapshot {
	products := make([]models.Product, len(s.Products))
	for i, p := range s.Products {
		products[i] = p.Clone()
	}
	s.Products = products
	return s
}

func (s *productService) snapshotLocked() models.ProductsSnapshot {
	return cloneSnapshot(models.ProductsSnapshot{
		Products:  s.products,
		ListBusy:  s.listOps > 0,
		ImageBusy: s.imageOps > 0,
	})
}

func (s *productService) Snapshot() models.ProductsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *productService) Subscribe(fn func(models.ProductsSnapshot)) func() {
	return s.subs.add(fn)
}

func (s *productService) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subs.notify(snap)
}

// listBusy marks a list operation in flight and returns the function that
// ends it; callers defer it so every path resets the flag.
func (s *productService) listBusy() func() {
	s.update(func() { s.listOps++ })
	return func() { s.update(func() { s.listOps-- }) }
}

func (s *productService) imageBusy() func() {
	s.update(func() { s.imageOps++ })
	return func() { s.update(func() { s.imageOps-- }) }
}

// LoadAll replaces the collection with the first pageSize products in server
// order. pageSize <= 0 means common.DefaultPageSize. On failure the
// collection is kept.
func (s *productService) LoadAll(ctx context.Context, pageSize int) error {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}

	done := s.listBusy()
	defer done()

	page, err := s.api.ListProducts(ctx, pageSize)
	if err != nil {
		s.log.Warn(ctx, "loading products failed", "error", err)
		return fmt.Errorf("load products: %w", err)
	}

	products := make([]models.Product, 0, len(page.Products))
	for _, p := range page.Products {
		if p.ID == "" || p.Name == "" {
			s.log.Warn(ctx, "skipping product without id or name", "product_id", p.ID)
			continue
		}
		products = append(products, p)
	}

	s.update(func() { s.products = products })
	return nil
}

// LoadOne fetches a product for editing. The collection is not changed.
func (s *productService) LoadOne(ctx context.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	done := s.listBusy()
	defer done()

	p, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return p, nil
}

// Create posts a new product and appends the server's copy to the collection.
func (s *productService) Create(ctx context.Context, categoryID, name string) (*models.Product, error) {
	if categoryID == "" {
		return nil, ErrCategoryRequired
	}
	if name == "" {
		return nil, ErrNameRequired
	}

	done := s.listBusy()
	defer done()

	p, err := s.api.CreateProduct(ctx, models.ProductInput{Name: name, CategoryID: categoryID})
	if err != nil {
		s.log.Warn(ctx, "creating product failed", "name", name, "error", err)
		return nil, fmt.Errorf("create product: %w", err)
	}
	if p.ID == "" || p.Name == "" {
		return nil, ErrInvalidProduct
	}

	s.update(func() { s.products = append(s.products, p.Clone()) })
	return p, nil
}

// Update puts the new name and category and swaps the matching element (by
// id) for the server's copy. An id that is not in the collection changes
// nothing locally. Concurrent updates are applied in completion order.
func (s *productService) Update(ctx context.Context, categoryID, name, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if categoryID == "" {
		return ErrCategoryRequired
	}
	if name == "" {
		return ErrNameRequired
	}

	done := s.listBusy()
	defer done()

	p, err := s.api.UpdateProduct(ctx, id, models.ProductInput{Name: name, CategoryID: categoryID})
	if err != nil {
		s.log.Warn(ctx, "updating product failed", "product_id", id, "error", err)
		return fmt.Errorf("update product %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	if p.Name == "" {
		return ErrInvalidProduct
	}

	s.update(func() {
		for i := range s.products {
			if s.products[i].ID == id {
				s.products[i] = p.Clone()
				return
			}
		}
	})
	return nil
}

// Delete removes the product on the server. The collection is left as is.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}

	done := s.listBusy()
	defer done()

	if _, err := s.api.DeleteProduct(ctx, id); err != nil {
		s.log.Warn(ctx, "deleting product failed", "product_id", id, "error", err)
		msg := MsgDeleteFailed
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message() != "" {
			msg = apiErr.Message()
		}
		return &AlertError{Message: msg, Err: err}
	}
	return nil
}

// UploadImage sends a locally picked image for productID. The product's
// Image in the collection is not refreshed.
func (s *productService) UploadImage(ctx context.Context, asset models.ImageAsset, productID string) error {
	if productID == "" {
		return ErrIDRequired
	}
	if asset.URI == "" {
		return ErrImageRequired
	}

	done := s.imageBusy()
	defer done()

	if _, err := s.api.UploadProductImage(ctx, productID, asset); err != nil {
		s.log.Warn(ctx, "uploading image failed", "product_id", productID, "file", asset.FileName, "error", err)
		return &AlertError{Message: MsgImageNotSaved, Err: err}
	}
	return nil
}

// Categories lists up to limit categories (limit <= 0 means the default).
func (s *productService) Categories(ctx context.Context, limit int) ([]models.Category, error) {
	page, err := s.api.ListCategories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return page.Categories, nil
}

// ResolveCategory returns selected when set, otherwise the first category
// the server lists. ErrNoCategories when there is none.
func (s *productService) ResolveCategory(ctx context.Context, selected string) (string, error) {
	if selected != "" {
		return selected, nil
	}

	cats, err := s.Categories(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(cats) == 0 || cats[0].ID == "" {
		return "", ErrNoCategories
	}
	return cats[0].ID, nil
}
