package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/cafecatalog/internal/client/config"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/client/services"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
)

// ---- fake auth service ----

type fakeAuth struct {
	session models.Session

	// results applied by SignIn / SignUp
	signInResult models.Session
	signOutErr   string

	restored   bool
	lastLogin  models.LoginData
	lastSignUp models.RegisterData
	signOuts   int
}

func (f *fakeAuth) RestoreSession(context.Context) {
	f.restored = true
	if f.session.Status == models.StatusChecking {
		f.session.Status = models.StatusNotAuthenticated
	}
}

func (f *fakeAuth) SignIn(_ context.Context, data models.LoginData) {
	f.lastLogin = data
	f.session = f.signInResult
}

func (f *fakeAuth) SignUp(_ context.Context, data models.RegisterData) {
	f.lastSignUp = data
	f.session = f.signInResult
}

func (f *fakeAuth) SignOut(context.Context) {
	f.signOuts++
	f.session = models.Session{Status: models.StatusNotAuthenticated, LastError: f.signOutErr}
}

func (f *fakeAuth) DismissError()                        { f.session.LastError = "" }
func (f *fakeAuth) Snapshot() models.Session             { return f.session.Clone() }
func (f *fakeAuth) Subscribe(func(models.Session)) func() { return func() {} }

var _ services.AuthService = (*fakeAuth)(nil)

var ana = &models.User{UID: "u1", Name: "Ana", Email: "ana@cafe.test", Role: "USER_ROLE"}

func signedIn() models.Session {
	return models.Session{Status: models.StatusAuthenticated, Token: "T1", User: ana}
}

// ---- fake product service ----

type fakeProducts struct {
	mu sync.Mutex

	products   []models.Product
	categories []models.Category

	loadAllErr error
	loadOne    *models.Product
	loadOneErr error
	createErr  error
	updateErr  error
	deleteErr  error
	uploadErr  error
	catErr     error

	calls       []string
	lastPage    int
	lastCreate  [2]string
	lastUpdate  [3]string
	lastDelete  string
	lastAsset   models.ImageAsset
	lastProduct string
}

func (f *fakeProducts) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeProducts) LoadAll(_ context.Context, pageSize int) error {
	f.record("loadAll")
	f.lastPage = pageSize
	return f.loadAllErr
}

func (f *fakeProducts) LoadOne(_ context.Context, id string) (*models.Product, error) {
	f.record("loadOne")
	f.lastProduct = id
	return f.loadOne, f.loadOneErr
}

func (f *fakeProducts) Create(_ context.Context, categoryID, name string) (*models.Product, error) {
	f.record("create")
	f.lastCreate = [2]string{categoryID, name}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Product{ID: "p9", Name: name, Category: models.CategoryRef{ID: categoryID}}, nil
}

func (f *fakeProducts) Update(_ context.Context, categoryID, name, id string) error {
	f.record("update")
	f.lastUpdate = [3]string{categoryID, name, id}
	return f.updateErr
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	f.record("delete")
	f.lastDelete = id
	return f.deleteErr
}

func (f *fakeProducts) UploadImage(_ context.Context, asset models.ImageAsset, productID string) error {
	f.record("upload")
	f.lastAsset, f.lastProduct = asset, productID
	return f.uploadErr
}

func (f *fakeProducts) Categories(context.Context, int) ([]models.Category, error) {
	f.record("categories")
	return f.categories, f.catErr
}

func (f *fakeProducts) ResolveCategory(_ context.Context, selected string) (string, error) {
	if selected != "" {
		return selected, nil
	}
	if len(f.categories) == 0 {
		return "", services.ErrNoCategories
	}
	return f.categories[0].ID, nil
}

func (f *fakeProducts) Snapshot() models.ProductsSnapshot {
	return models.ProductsSnapshot{Products: f.products}
}

func (f *fakeProducts) Subscribe(func(models.ProductsSnapshot)) func() { return func() {} }

var _ services.ProductService = (*fakeProducts)(nil)

// ---- helpers ----

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	return c
}

// newTestApp builds an App over fakes; input is what the user types.
func newTestApp(auth *fakeAuth, products *fakeProducts, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	a := newApp(testConfig(), auth, products, logging.Discard(), strings.NewReader(input), &out)
	return a, &out
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}
