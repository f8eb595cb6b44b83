// Package httpclient fetches the product catalog from the catalog API.
package httpclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/niksmo/teerex/internal/core/domain"
	"github.com/niksmo/teerex/internal/core/port"
)

const (
	DefaultProductsPath = "/products"
	DefaultSearchPath   = "/products/search"
	DefaultTimeout      = 10 * time.Second

	searchParam = "value"
	maxBodySize = 8 << 20
)

var _ port.CatalogFetcher = (*CatalogClient)(nil)

type CatalogClientOpt func(*catalogClientOpts) error

type catalogClientOpts struct {
	productsPath string
	searchPath   string
	timeout      time.Duration
	client       *http.Client
	tlsConfig    *tls.Config
}

// ProductsPathOpt sets the catalog endpoint. An absolute URL replaces the
// base URL for this endpoint.
func ProductsPathOpt(p string) CatalogClientOpt {
	return func(o *catalogClientOpts) error {
		if p == "" {
			return errors.New("empty products path")
		}
		o.productsPath = p
		return nil
	}
}

// SearchPathOpt sets the search endpoint. An absolute URL replaces the base
// URL for this endpoint.
func SearchPathOpt(p string) CatalogClientOpt {
	return func(o *catalogClientOpts) error {
		if p == "" {
			return errors.New("empty search path")
		}
		o.searchPath = p
		return nil
	}
}

func TimeoutOpt(d time.Duration) CatalogClientOpt {
	return func(o *catalogClientOpts) error {
		if d <= 0 {
			return fmt.Errorf("invalid fetch timeout %s", d)
		}
		o.timeout = d
		return nil
	}
}

func HTTPClientOpt(c *http.Client) CatalogClientOpt {
	return func(o *catalogClientOpts) error {
		if c == nil {
			return errors.New("nil http client")
		}
		o.client = c
		return nil
	}
}

func TLSOpt(cfg *tls.Config) CatalogClientOpt {
	return func(o *catalogClientOpts) error {
		o.tlsConfig = cfg
		return nil
	}
}

// CatalogClient is the remote fetcher of the storefront. Every call issues
// exactly one request and reports failures as [*domain.FetchError].
type CatalogClient struct {
	productsURL *url.URL
	searchURL   *url.URL
	timeout     time.Duration
	client      *http.Client
}

func NewCatalogClient(baseURL string, opts ...CatalogClientOpt) (*CatalogClient, error) {
	const op = "NewCatalogClient"

	o := catalogClientOpts{
		productsPath: DefaultProductsPath,
		searchPath:   DefaultSearchPath,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	productsURL, err := resolve(base, o.productsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: products: %w", op, err)
	}
	searchURL, err := resolve(base, o.searchPath)
	if err != nil {
		return nil, fmt.Errorf("%s: search: %w", op, err)
	}

	client := o.client
	if client == nil {
		client = &http.Client{}
		if o.tlsConfig != nil {
			client.Transport = &http.Transport{TLSClientConfig: o.tlsConfig}
		}
	}

	return &CatalogClient{
		productsURL: productsURL,
		searchURL:   searchURL,
		timeout:     o.timeout,
		client:      client,
	}, nil
}

func resolve(base *url.URL, p string) (*url.URL, error) {
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		return u, nil
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("relative path %q without absolute base url", p)
	}
	return base.JoinPath(u.Path), nil
}

// FetchCatalog retrieves the whole catalog.
func (c *CatalogClient) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogClient.FetchCatalog"

	ps, err := c.get(ctx, c.productsURL.String(), false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// SearchCatalog asks the server for the products matching query. A 404
// response means no product matched and is not an error.
func (c *CatalogClient) SearchCatalog(
	ctx context.Context, query string,
) ([]domain.Product, error) {
	const op = "CatalogClient.SearchCatalog"

	u := *c.searchURL
	q := u.Query()
	q.Set(searchParam, query)
	u.RawQuery = q.Encode()

	ps, err := c.get(ctx, u.String(), true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (c *CatalogClient) get(
	ctx context.Context, target string, notFoundIsEmpty bool,
) ([]domain.Product, error) {
	log := slog.With("url", target)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.KindNetworkUnreachable, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, transportError(err)
	}
	log.Debug("response received",
		"status", resp.StatusCode, "size", len(data), "elapsed", time.Since(start))

	if len(data) > maxBodySize {
		return nil, &domain.FetchError{
			Kind:   domain.KindMalformedResponse,
			Detail: "response body is too large",
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound && notFoundIsEmpty:
		return []domain.Product{}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.FetchError{
			Kind:   domain.KindHTTPError,
			Status: resp.StatusCode,
			Detail: failureMessage(data),
		}
	}

	return decodeProducts(data)
}

func decodeProducts(data []byte) ([]domain.Product, error) {
	var ps []product
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, &domain.FetchError{Kind: domain.KindMalformedResponse, Err: err}
	}
	if ps == nil {
		return nil, &domain.FetchError{
			Kind:   domain.KindMalformedResponse,
			Detail: "null products array",
		}
	}

	out := toDomain(ps)
	if err := domain.ValidateCatalog(out); err != nil {
		return nil, &domain.FetchError{Kind: domain.KindMalformedResponse, Err: err}
	}
	return out, nil
}

func transportError(err error) *domain.FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.FetchError{Kind: domain.KindTimeout, Err: err}
	}
	return &domain.FetchError{Kind: domain.KindNetworkUnreachable, Err: err}
}

// failureMessage extracts the message of a {"success":false,"message":...}
// body. Anything else yields an empty string.
func failureMessage(data []byte) string {
	var f failure
	if err := json.Unmarshal(data, &f); err != nil || f.Success {
		return ""
	}
	return f.Message
}
