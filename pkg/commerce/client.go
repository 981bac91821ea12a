package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	apiKeyHeader                = "X-Api-Key"
	errorBodyReadLimit    int64 = 1024
	responseBodyReadLimit int64 = 4 << 20
)

var errBaseURLRequired = errors.New("commerce api base url is required")

// Client talks to the remote commerce API that stores products and variants.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAPIKey sends the key on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// NewClient builds the commerce client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return client, nil
}

// ListVariants calls GET /variants/product/{productId}.
func (c *Client) ListVariants(ctx context.Context, productID string) ([]Variant, error) {
	var out []Variant
	if err := c.do(ctx, http.MethodGet, "variants/product/"+url.PathEscape(productID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Variant{}
	}
	return out, nil
}

// CreateVariant calls POST /variants.
func (c *Client) CreateVariant(ctx context.Context, req CreateVariantRequest) (*Variant, error) {
	var out Variant
	if err := c.do(ctx, http.MethodPost, "variants", req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "create variant response carried no id")
	}
	return &out, nil
}

// UpdateVariant calls PUT /variants/{id}.
func (c *Client) UpdateVariant(ctx context.Context, id string, req UpdateVariantRequest) (*Variant, error) {
	var out Variant
	if err := c.do(ctx, http.MethodPut, "variants/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteVariant calls DELETE /variants/{id}. Only the status matters.
func (c *Client) DeleteVariant(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "variants/"+url.PathEscape(id), nil, nil)
}

// GetProduct calls GET /products/{id}.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodGet, "products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct calls PUT /products/{id} with the base product fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPut, "products/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	action := fmt.Sprintf("%s /%s", method, path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal "+action)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+action)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+action)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), cause, action+" failed")
	}
	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+action)
	}
	if err := decodePayload(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+action)
	}
	return nil
}

// decodePayload accepts both a bare JSON payload and one wrapped in a
// {"data": ...} envelope.
func decodePayload(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err == nil && len(envelope.Data) > 0 {
			return json.Unmarshal(envelope.Data, out)
		}
	}
	return json.Unmarshal(trimmed, out)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
