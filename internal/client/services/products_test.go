package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/dmitrijs2005/cafecatalog/internal/client/client"
	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/common"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name, category string) models.Product {
	return models.Product{ID: id, Name: name, Category: models.CategoryRef{ID: category}, Available: true}
}

func newProducts(api *fakeCatalog) ProductService {
	return NewProductService(api, logging.Discard())
}

// loaded returns a service whose collection holds ps.
func loaded(t *testing.T, api *fakeCatalog, ps ...models.Product) ProductService {
	t.Helper()
	api.ListResp = &models.ProductsPage{Total: len(ps), Products: ps}
	s := newProducts(api)
	require.NoError(t, s.LoadAll(context.Background(), 0))
	return s
}

func ids(ps []models.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestNewProductService_Empty(t *testing.T) {
	s := newProducts(&fakeCatalog{}).Snapshot()
	assert.NotNil(t, s.Products)
	assert.Empty(t, s.Products)
	assert.False(t, s.ListBusy)
	assert.False(t, s.ImageBusy)
}

func TestLoadAll_ReplacesCollectionInServerOrder(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p9", "Old", "c1"))

	api.ListResp = &models.ProductsPage{Total: 3, Products: []models.Product{
		product("p3", "Mocha", "c1"),
		product("p1", "Latte", "c1"),
		product("p2", "Croissant", "c2"),
	}}
	require.NoError(t, s.LoadAll(context.Background(), 10))

	snap := s.Snapshot()
	assert.Equal(t, []string{"p3", "p1", "p2"}, ids(snap.Products))
	assert.Equal(t, 10, api.lastLimit)
	assert.False(t, snap.ListBusy)
}

func TestLoadAll_DefaultPageSize(t *testing.T) {
	for _, size := range []int{0, -3} {
		api := &fakeCatalog{ListResp: &models.ProductsPage{}}
		require.NoError(t, newProducts(api).LoadAll(context.Background(), size))
		assert.Equal(t, common.DefaultPageSize, api.lastLimit)
	}
}

func TestLoadAll_SkipsProductsWithoutIDOrName(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api,
		product("p1", "Latte", "c1"),
		product("", "Ghost", "c1"),
		product("p2", "", "c1"),
		product("p3", "Mocha", "c1"),
	)

	assert.Equal(t, []string{"p1", "p3"}, ids(s.Snapshot().Products))
}

func TestLoadAll_FailureKeepsCollection(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"))

	api.ListErr = transportErr()
	err := s.LoadAll(context.Background(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrUnavailable)
	snap := s.Snapshot()
	assert.Equal(t, []string{"p1"}, ids(snap.Products))
	assert.False(t, snap.ListBusy)
}

func TestLoadAll_BusyDuringRequest(t *testing.T) {
	api := &fakeCatalog{ListResp: &models.ProductsPage{}}
	s := newProducts(api)

	var busy []bool
	s.Subscribe(func(snap models.ProductsSnapshot) { busy = append(busy, snap.ListBusy) })

	require.NoError(t, s.LoadAll(context.Background(), 0))

	require.NotEmpty(t, busy)
	assert.True(t, busy[0])
	assert.False(t, busy[len(busy)-1])
}

func TestLoadOne_DoesNotTouchCollection(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"))
	before := s.Snapshot()

	api.GetResp = &models.Product{ID: "p1", Name: "Latte grande", Category: models.CategoryRef{ID: "c2"}}
	p, err := s.LoadOne(context.Background(), "p1")

	require.NoError(t, err)
	assert.Equal(t, "Latte grande", p.Name)
	assert.Equal(t, "p1", api.lastID)
	assert.Equal(t, before, s.Snapshot())
}

func TestLoadOne_Errors(t *testing.T) {
	api := &fakeCatalog{GetErr: &client.APIError{Status: http.StatusNotFound}}
	s := newProducts(api)

	_, err := s.LoadOne(context.Background(), "missing")
	assert.ErrorIs(t, err, client.ErrNotFound)

	calls := api.callCount()
	_, err = s.LoadOne(context.Background(), "")
	assert.ErrorIs(t, err, ErrIDRequired)
	assert.Equal(t, calls, api.callCount())
}

func TestCreate_AppendsServerCopy(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p0", "Mocha", "c1"))

	api.CreateResp = &models.Product{ID: "p1", Name: "Latte", Category: models.CategoryRef{ID: "cat1"}, Available: true}
	p, err := s.Create(context.Background(), "cat1", "Latte")

	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, models.ProductInput{Name: "Latte", CategoryID: "cat1"}, api.lastInput)

	snap := s.Snapshot()
	require.Len(t, snap.Products, 2)
	assert.Equal(t, *api.CreateResp, snap.Products[1])
	assert.False(t, snap.ListBusy)
}

func TestCreate_PreconditionsMakeNoRequest(t *testing.T) {
	tests := []struct {
		name     string
		category string
		product  string
		want     error
	}{
		{name: "no category", category: "", product: "Latte", want: ErrCategoryRequired},
		{name: "no name", category: "cat1", product: "", want: ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeCatalog{}
			s := newProducts(api)

			_, err := s.Create(context.Background(), tt.category, tt.product)

			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, api.callCount())
			assert.Empty(t, s.Snapshot().Products)
		})
	}
}

func TestCreate_FailurePropagates(t *testing.T) {
	apiErr := &client.APIError{Status: http.StatusBadRequest, Msg: "El producto Latte, ya existe"}
	api := &fakeCatalog{CreateErr: apiErr}
	s := newProducts(api)

	_, err := s.Create(context.Background(), "cat1", "Latte")

	require.Error(t, err)
	got, ok := client.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "El producto Latte, ya existe", got.Msg)
	assert.Empty(t, s.Snapshot().Products)
	assert.False(t, s.Snapshot().ListBusy)
}

func TestCreate_IncompleteResponse(t *testing.T) {
	api := &fakeCatalog{CreateResp: &models.Product{Name: "Latte"}}
	s := newProducts(api)

	_, err := s.Create(context.Background(), "cat1", "Latte")

	assert.ErrorIs(t, err, ErrInvalidProduct)
	assert.Empty(t, s.Snapshot().Products)
}

func TestUpdate_IncompleteResponse(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"))

	api.UpdateResp = &models.Product{ID: "p1"}
	err := s.Update(context.Background(), "c1", "Mocha", "p1")

	assert.ErrorIs(t, err, ErrInvalidProduct)
	snap := s.Snapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Latte", snap.Products[0].Name)
	assert.Equal(t, "c1", snap.Products[0].CategoryID())
}

func TestUpdate_ReplacesMatchingProduct(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"), product("p2", "Mocha", "c1"), product("p3", "Tea", "c2"))

	api.UpdateResp = &models.Product{ID: "p2", Name: "Mocha blanco", Category: models.CategoryRef{ID: "c2"}}
	require.NoError(t, s.Update(context.Background(), "c2", "Mocha blanco", "p2"))

	assert.Equal(t, "p2", api.lastID)
	assert.Equal(t, models.ProductInput{Name: "Mocha blanco", CategoryID: "c2"}, api.lastInput)

	snap := s.Snapshot()
	assert.Equal(t, []string{"p1", "p2", "p3"}, ids(snap.Products))
	assert.Equal(t, "Mocha blanco", snap.Products[1].Name)
	assert.Equal(t, "c2", snap.Products[1].CategoryID())
	assert.Equal(t, "Latte", snap.Products[0].Name)
	assert.Equal(t, "Tea", snap.Products[2].Name)
}

func TestUpdate_UnknownIDChangesNothing(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"))
	before := s.Snapshot()

	api.UpdateResp = &models.Product{ID: "p7", Name: "Espresso"}
	require.NoError(t, s.Update(context.Background(), "c1", "Espresso", "p7"))

	assert.Equal(t, before, s.Snapshot())
}

func TestUpdate_FailureKeepsCollection(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"))
	before := s.Snapshot()

	api.UpdateErr = &client.APIError{Status: http.StatusBadRequest, Msg: "nombre requerido"}
	err := s.Update(context.Background(), "c1", "Latte", "p1")

	require.Error(t, err)
	assert.Equal(t, before, s.Snapshot())
}

func TestUpdate_Preconditions(t *testing.T) {
	api := &fakeCatalog{}
	s := newProducts(api)

	assert.ErrorIs(t, s.Update(context.Background(), "c1", "Latte", ""), ErrIDRequired)
	assert.ErrorIs(t, s.Update(context.Background(), "", "Latte", "p1"), ErrCategoryRequired)
	assert.ErrorIs(t, s.Update(context.Background(), "c1", "", "p1"), ErrNameRequired)
	assert.Zero(t, api.callCount())
}

func TestDelete_LeavesCollectionUnchanged(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"), product("p2", "Mocha", "c1"))
	before := s.Snapshot()

	require.NoError(t, s.Delete(context.Background(), "p1"))

	assert.Equal(t, "p1", api.lastID)
	assert.Equal(t, before, s.Snapshot())
}

func TestDelete_FailureIsAlert(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "server message", err: &client.APIError{Status: 401, Msg: "Token no válido"}, wantMsg: "Token no válido"},
		{name: "field error", err: &client.APIError{Status: 400, Errors: []client.FieldError{{Msg: "No es un ID válido"}}},
			wantMsg: "No es un ID válido"},
		{name: "transport failure", err: transportErr(), wantMsg: MsgDeleteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeCatalog{}
			s := loaded(t, api, product("p1", "Latte", "c1"))
			before := s.Snapshot()

			api.DeleteErr = tt.err
			err := s.Delete(context.Background(), "p1")

			alert, ok := AsAlert(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, alert.Message)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, before, s.Snapshot())
		})
	}
}

func TestUploadImage_Success(t *testing.T) {
	api := &fakeCatalog{}
	s := loaded(t, api, product("p1", "Latte", "c1"))
	before := s.Snapshot()

	asset := models.ImageAsset{URI: "/tmp/latte.jpg", Type: "image/jpeg", FileName: "latte.jpg"}
	require.NoError(t, s.UploadImage(context.Background(), asset, "p1"))

	assert.Equal(t, asset, api.lastAsset)
	assert.Equal(t, "p1", api.lastID)
	assert.Equal(t, before, s.Snapshot())
}

func TestUploadImage_FailureIsAlert(t *testing.T) {
	api := &fakeCatalog{UploadErr: &client.APIError{Status: 400, Msg: "Extensión no permitida"}}
	s := newProducts(api)

	err := s.UploadImage(context.Background(), models.ImageAsset{URI: "/tmp/a.gif"}, "p1")

	alert, ok := AsAlert(err)
	require.True(t, ok)
	assert.Equal(t, MsgImageNotSaved, alert.Message)
	assert.False(t, s.Snapshot().ImageBusy)
}

func TestUploadImage_Preconditions(t *testing.T) {
	api := &fakeCatalog{}
	s := newProducts(api)

	assert.ErrorIs(t, s.UploadImage(context.Background(), models.ImageAsset{URI: "/tmp/a.png"}, ""), ErrIDRequired)
	assert.ErrorIs(t, s.UploadImage(context.Background(), models.ImageAsset{}, "p1"), ErrImageRequired)
	assert.Zero(t, api.callCount())
}

func TestUploadImage_ImageBusyIndependentOfListBusy(t *testing.T) {
	api := &fakeCatalog{
		ListResp:      &models.ProductsPage{Products: []models.Product{product("p1", "Latte", "c1")}},
		uploadGate:    make(chan struct{}),
		uploadStarted: make(chan struct{}),
	}
	s := newProducts(api)

	var wg sync.WaitGroup
	var uploadErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		uploadErr = s.UploadImage(context.Background(), models.ImageAsset{URI: "/tmp/latte.png"}, "p1")
	}()

	<-api.uploadStarted
	snap := s.Snapshot()
	assert.True(t, snap.ImageBusy)
	assert.False(t, snap.ListBusy)

	require.NoError(t, s.LoadAll(context.Background(), 0))
	snap = s.Snapshot()
	assert.True(t, snap.ImageBusy, "list operations do not reset the image flag")
	assert.False(t, snap.ListBusy)

	close(api.uploadGate)
	wg.Wait()

	require.NoError(t, uploadErr)
	assert.False(t, s.Snapshot().ImageBusy)
}

func TestCategories(t *testing.T) {
	api := &fakeCatalog{Categories: []models.Category{{ID: "c1", Name: "BEBIDAS"}, {ID: "c2", Name: "POSTRES"}}}
	s := newProducts(api)

	cats, err := s.Categories(context.Background(), 20)

	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, 20, api.lastCatLim)

	api.CatErr = transportErr()
	_, err = s.Categories(context.Background(), 20)
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestResolveCategory(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		cats     []models.Category
		catErr   error
		want     string
		wantErr  error
		wantCall bool
	}{
		{name: "selected wins", selected: "c9", cats: []models.Category{{ID: "c1"}}, want: "c9"},
		{name: "first listed", cats: []models.Category{{ID: "c1"}, {ID: "c2"}}, want: "c1", wantCall: true},
		{name: "none listed", wantErr: ErrNoCategories, wantCall: true},
		{name: "listing fails", catErr: transportErr(), wantErr: client.ErrUnavailable, wantCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeCatalog{Categories: tt.cats, CatErr: tt.catErr}
			s := newProducts(api)

			got, err := s.ResolveCategory(context.Background(), tt.selected)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantCall, api.callCount() > 0)
			if tt.wantCall {
				assert.Equal(t, 1, api.lastCatLim)
			}
		})
	}
}

func TestProductsSubscribe_CopiesAndUnsubscribe(t *testing.T) {
	api := &fakeCatalog{ListResp: &models.ProductsPage{Products: []models.Product{product("p1", "Latte", "c1")}}}
	s := newProducts(api)

	calls := 0
	unsubscribe := s.Subscribe(func(snap models.ProductsSnapshot) {
		calls++
		for i := range snap.Products {
			snap.Products[i].Name = "mutated"
		}
	})

	require.NoError(t, s.LoadAll(context.Background(), 0))
	assert.Equal(t, "Latte", s.Snapshot().Products[0].Name)

	seen := calls
	unsubscribe()
	require.NoError(t, s.LoadAll(context.Background(), 0))
	assert.Equal(t, seen, calls)
}

func TestAlertError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&AlertError{Message: "the product could not be deleted", Err: cause})

	assert.Equal(t, "the product could not be deleted: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "only message", (&AlertError{Message: "only message"}).Error())

	_, ok := AsAlert(errors.New("plain"))
	assert.False(t, ok)
}
