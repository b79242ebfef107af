package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/cafecatalog/internal/client/client"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/client/tokenstore"
)

// ---- fake token store ----

type memTokens struct {
	mu      sync.Mutex
	token   string
	saves   int
	removes int

	LoadErr   error
	SaveErr   error
	RemoveErr error
}

func (m *memTokens) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.LoadErr
}

func (m *memTokens) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.token = token
	m.saves++
	return nil
}

func (m *memTokens) Remove(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.token = ""
	m.removes++
	return nil
}

var _ tokenstore.Store = (*memTokens)(nil)

// ---- fake auth API ----

type fakeAuthAPI struct {
	ValidateResp *models.AuthResponse
	ValidateErr  error
	LoginResp    *models.AuthResponse
	LoginErr     error
	RegisterResp *models.AuthResponse
	RegisterErr  error

	validateCalls int
	lastLogin     models.LoginData
	lastRegister  models.RegisterData
}

func (f *fakeAuthAPI) ValidateSession(context.Context) (*models.AuthResponse, error) {
	f.validateCalls++
	return f.ValidateResp, f.ValidateErr
}

func (f *fakeAuthAPI) Login(_ context.Context, data models.LoginData) (*models.AuthResponse, error) {
	f.lastLogin = data
	return f.LoginResp, f.LoginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, data models.RegisterData) (*models.AuthResponse, error) {
	f.lastRegister = data
	return f.RegisterResp, f.RegisterErr
}

var _ client.AuthAPI = (*fakeAuthAPI)(nil)

// ---- fake catalog API ----

type fakeCatalog struct {
	mu sync.Mutex

	ListResp   *models.ProductsPage
	ListErr    error
	GetResp    *models.Product
	GetErr     error
	CreateResp *models.Product
	CreateErr  error
	UpdateResp *models.Product
	UpdateErr  error
	DeleteErr  error
	UploadErr  error
	Categories []models.Category
	CatErr     error

	// uploadGate, when set, blocks UploadProductImage until closed.
	uploadGate    chan struct{}
	uploadStarted chan struct{}

	calls      []string
	lastLimit  int
	lastCatLim int
	lastInput  models.ProductInput
	lastID     string
	lastAsset  models.ImageAsset
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) ListProducts(_ context.Context, limit int) (*models.ProductsPage, error) {
	f.record("list")
	f.lastLimit = limit
	return f.ListResp, f.ListErr
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	f.record("get")
	f.lastID = id
	return f.GetResp, f.GetErr
}

func (f *fakeCatalog) CreateProduct(_ context.Context, in models.ProductInput) (*models.Product, error) {
	f.record("create")
	f.lastInput = in
	return f.CreateResp, f.CreateErr
}

func (f *fakeCatalog) UpdateProduct(_ context.Context, id string, in models.ProductInput) (*models.Product, error) {
	f.record("update")
	f.lastID, f.lastInput = id, in
	return f.UpdateResp, f.UpdateErr
}

func (f *fakeCatalog) DeleteProduct(_ context.Context, id string) (*models.Product, error) {
	f.record("delete")
	f.lastID = id
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	return &models.Product{ID: id}, nil
}

func (f *fakeCatalog) UploadProductImage(_ context.Context, id string, asset models.ImageAsset) (*models.Product, error) {
	f.record("upload")
	f.lastID, f.lastAsset = id, asset
	if f.uploadStarted != nil {
		close(f.uploadStarted)
	}
	if f.uploadGate != nil {
		<-f.uploadGate
	}
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	return &models.Product{ID: id, Image: "https://img/" + id}, nil
}

func (f *fakeCatalog) ListCategories(_ context.Context, limit int) (*models.CategoriesPage, error) {
	f.record("categories")
	f.lastCatLim = limit
	if f.CatErr != nil {
		return nil, f.CatErr
	}
	return &models.CategoriesPage{Total: len(f.Categories), Categories: f.Categories}, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var _ client.CatalogAPI = (*fakeCatalog)(nil)

var errNetwork = errors.New("dial tcp: connection refused")

func transportErr() error {
	return errors.Join(client.ErrUnavailable, errNetwork)
}
