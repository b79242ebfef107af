package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/cafecatalog/internal/client/models"
	"github.com/dmitrijs2005/cafecatalog/internal/common"
	"github.com/dmitrijs2005/cafecatalog/internal/logging"
	"github.com/dmitrijs2005/cafecatalog/internal/netx"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient implements Client over the catalog's HTTP+JSON API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. http://127.0.0.1:8082/api). tokens is consulted on every request.
func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger) (*HTTPClient, error) {
	return newHTTPClient(baseURL, tokens, log, http.DefaultTransport)
}

func newHTTPClient(baseURL string, tokens TokenSource, log logging.Logger, rt http.RoundTripper) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	// Spans (and propagation headers) follow the global otel providers; they
	// are no-ops unless the host program installs some.
	transport := otelhttp.NewTransport(
		&tokenTransport{base: rt, tokens: tokens, log: log},
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "catalog " + r.Method + " " + r.URL.Path
		}),
	)

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Transport: transport},
		log:     log,
	}, nil
}

type request struct {
	method      string
	path        []string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method string, v any, path ...string) (request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return request{}, fmt.Errorf("encode request: %w", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(b), contentType: "application/json"}, nil
}

// endpoint appends escaped path segments to the base URL. A segment that is
// empty or a dot segment is rejected so ids cannot walk out of their resource.
func (c *HTTPClient) endpoint(segments []string) (*url.URL, error) {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		if s == "" || s == "." || s == ".." {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPathSegment, s)
		}
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL.JoinPath(escaped...), nil
}

func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	u, err := c.endpoint(r.path)
	if err != nil {
		return err
	}
	if r.query != nil {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "api request failed", "method", r.method, "url", u.Path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "api request", "method", r.method, "url", u.Path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		limit = common.DefaultPageSize
	}
	return url.Values{"limite": []string{strconv.Itoa(limit)}}
}

func (c *HTTPClient) ValidateSession(ctx context.Context) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: []string{"auth"}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Login(ctx context.Context, data models.LoginData) (*models.AuthResponse, error) {
	r, err := jsonRequest(http.MethodPost, data, "auth", "login")
	if err != nil {
		return nil, err
	}
	var resp models.AuthResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, data models.RegisterData) (*models.AuthResponse, error) {
	r, err := jsonRequest(http.MethodPost, data, "usuarios")
	if err != nil {
		return nil, err
	}
	var resp models.AuthResponse
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context, limit int) (*models.ProductsPage, error) {
	var page models.ProductsPage
	r := request{method: http.MethodGet, path: []string{"productos"}, query: limitQuery(limit)}
	if err := c.do(ctx, r, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: []string{"productos", id}}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	r, err := jsonRequest(http.MethodPost, in, "productos")
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error) {
	r, err := jsonRequest(http.MethodPut, in, "productos", id)
	if err != nil {
		return nil, err
	}
	var p models.Product
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, request{method: http.MethodDelete, path: []string{"productos", id}}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UploadProductImage sends the file at asset.URI as multipart field
// "archivo". A missing FileName defaults to the file's base name, a missing
// Type is guessed from the extension.
func (c *HTTPClient) UploadProductImage(ctx context.Context, id string, asset models.ImageAsset) (*models.Product, error) {
	f, err := os.Open(asset.URI)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	name := asset.FileName
	if name == "" {
		name = filepath.Base(asset.URI)
	}
	mimeType := asset.Type
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}

	body, contentType, err := netx.MultipartFile(common.ImageFieldName, name, mimeType, f)
	if err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	r := request{method: http.MethodPut, path: []string{"uploads", "productos", id}, body: body, contentType: contentType}
	var p models.Product
	if err := c.do(ctx, r, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context, limit int) (*models.CategoriesPage, error) {
	var page models.CategoriesPage
	r := request{method: http.MethodGet, path: []string{"categorias"}, query: limitQuery(limit)}
	if err := c.do(ctx, r, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
