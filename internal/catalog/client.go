package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mittbutik/storefront/config"
	"github.com/mittbutik/storefront/internal/app/model"
	"github.com/mittbutik/storefront/pkg/logger"
)

// Client reads the remote product catalog. Pure request/response: no caching,
// no retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.CatalogConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListCategories fetches the available category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.get(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListByCategory fetches all products in one category, in catalog order.
func (c *Client) ListByCategory(ctx context.Context, name string) ([]model.Product, error) {
	var products []model.Product
	path := "/products/category/" + url.PathEscape(name)
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	var product model.Product
	if err := c.get(ctx, "/products/"+strconv.Itoa(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("Catalog request", map[string]interface{}{
		"url": reqURL,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrRemote, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrRemote, resp.StatusCode, reqURL)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: unmarshaling response: %v", ErrRemote, err)
	}
	return nil
}
