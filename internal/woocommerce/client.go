// Package woocommerce is a thin client for the WooCommerce REST API v3,
// authenticated with consumer key/secret over Basic Auth.
package woocommerce

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ybertrand/shopseo/internal/logger"
)

// Client talks to one store's WooCommerce REST API.
type Client struct {
	client  *resty.Client
	baseURL string
}

// Config holds the store credentials.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
}

// NewClient creates a WooCommerce REST client for one store.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetBasicAuth(cfg.ConsumerKey, cfg.ConsumerSecret)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(30 * time.Second)

	return &Client{
		client:  client,
		baseURL: cfg.BaseURL + "/wp-json/wc/v3",
	}
}

// request starts a resty request carrying the caller's correlation ID.
func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.client.R().SetContext(ctx)
	if id := logger.GetRequestID(ctx); id != "" {
		r.SetHeader("X-Request-ID", id)
	}
	return r
}

// Image is one product image as exposed by the REST API.
type Image struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Category is one product category reference.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// MetaData is one WordPress post-meta entry (Yoast fields live here).
type MetaData struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Product is the subset of the WooCommerce product payload the platform
// reads and writes.
type Product struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	Description      string     `json:"description,omitempty"`
	ShortDescription string     `json:"short_description,omitempty"`
	Price            string     `json:"price,omitempty"`
	Images           []Image    `json:"images,omitempty"`
	Categories       []Category `json:"categories,omitempty"`
	MetaData         []MetaData `json:"meta_data,omitempty"`
}

// Order is the subset of an order used for analytics aggregation.
type Order struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// ListProducts fetches one page of products.
func (c *Client) ListProducts(ctx context.Context, page, perPage int) ([]Product, error) {
	var products []Product
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(perPage),
		}).
		SetResult(&products).
		Get(c.baseURL + "/products")
	if err != nil {
		return nil, fmt.Errorf("woocommerce list products: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("woocommerce list products: %s", resp.Status())
	}
	return products, nil
}

// GetProduct fetches one product by its store ID.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	resp, err := c.request(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("%s/products/%d", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("woocommerce get product %d: %w", id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("woocommerce get product %d: %s", id, resp.Status())
	}
	return &product, nil
}

// UpdateProduct writes the non-zero fields of the payload back to the store.
func (c *Client) UpdateProduct(ctx context.Context, id int64, payload *Product) (*Product, error) {
	var product Product
	resp, err := c.request(ctx).
		SetBody(payload).
		SetResult(&product).
		Put(fmt.Sprintf("%s/products/%d", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("woocommerce update product %d: %w", id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("woocommerce update product %d: %s", id, resp.Status())
	}
	return &product, nil
}

// ListCategories fetches one page of product categories.
func (c *Client) ListCategories(ctx context.Context, page, perPage int) ([]Category, error) {
	var categories []Category
	resp, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(perPage),
		}).
		SetResult(&categories).
		Get(c.baseURL + "/products/categories")
	if err != nil {
		return nil, fmt.Errorf("woocommerce list categories: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("woocommerce list categories: %s", resp.Status())
	}
	return categories, nil
}

// ListOrders fetches one page of orders, read-only, for revenue dashboards.
func (c *Client) ListOrders(ctx context.Context, page, perPage int, after time.Time) ([]Order, error) {
	params := map[string]string{
		"page":     strconv.Itoa(page),
		"per_page": strconv.Itoa(perPage),
	}
	if !after.IsZero() {
		params["after"] = after.Format(time.RFC3339)
	}

	var orders []Order
	resp, err := c.request(ctx).
		SetQueryParams(params).
		SetResult(&orders).
		Get(c.baseURL + "/orders")
	if err != nil {
		return nil, fmt.Errorf("woocommerce list orders: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("woocommerce list orders: %s", resp.Status())
	}
	return orders, nil
}
