package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-service/internal/models"
)

// APIError is a non-2xx reply from the backend. Detail carries the
// backend's "detail" field when it sent one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// BackendClient handles HTTP communication with the storefront backend API
type BackendClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBackendClient creates a client for baseURL. Every call is bounded by timeout.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BackendClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend root the client talks to
func (c *BackendClient) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches the full product listing
func (c *BackendClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.doJSON(ctx, http.MethodGet, "/products", "", nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListCategories fetches every category
func (c *BackendClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories", "", nil, &categories); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateOrder submits an order and returns the backend's receipt
func (c *BackendClient) CreateOrder(ctx context.Context, order *models.OrderSubmission) (*models.OrderReceipt, error) {
	var receipt models.OrderReceipt
	if err := c.doJSON(ctx, http.MethodPost, "/orders", "", order, &receipt); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &receipt, nil
}

// Login exchanges credentials for an access token. Credentials go form-encoded.
func (c *BackendClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	var resp models.LoginResponse
	if err := c.doForm(ctx, "/auth/login", form, &resp); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &resp, nil
}

// Register creates an account. It does not log the user in.
func (c *BackendClient) Register(ctx context.Context, name, email, password string) error {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("password", password)

	if err := c.doForm(ctx, "/auth/register", form, nil); err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	return nil
}

// CreateCategory posts a new category
func (c *BackendClient) CreateCategory(ctx context.Context, token string, req *models.CreateCategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := c.doJSON(ctx, http.MethodPost, "/categories", token, req, &category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// CreateProduct posts a new product
func (c *BackendClient) CreateProduct(ctx context.Context, token string, req *models.CreateProductRequest) (*models.Product, error) {
	var product models.Product
	if err := c.doJSON(ctx, http.MethodPost, "/products", token, req, &product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// UploadQRIS replaces the payment QR image. The file is sent as multipart field "file".
func (c *BackendClient) UploadQRIS(ctx context.Context, token, filename string, content io.Reader) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/settings/qris", body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	setBearer(req, token)

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("failed to upload qris: %w", err)
	}
	return nil
}

// ListTopupRequests lists top-up requests, optionally filtered by status
func (c *BackendClient) ListTopupRequests(ctx context.Context, token, status string) ([]models.TopupRequest, error) {
	path := "/admin/topup-requests"
	if status != "" {
		path += "?" + url.Values{"status": {status}}.Encode()
	}
	var requests []models.TopupRequest
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &requests); err != nil {
		return nil, fmt.Errorf("failed to list topup requests: %w", err)
	}
	return requests, nil
}

// ApproveTopup approves a pending top-up request
func (c *BackendClient) ApproveTopup(ctx context.Context, token, id string) error {
	path := fmt.Sprintf("/admin/topup-requests/%s/approve", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPost, path, token, nil, nil); err != nil {
		return fmt.Errorf("failed to approve topup request: %w", err)
	}
	return nil
}

// RejectTopup rejects a pending top-up request
func (c *BackendClient) RejectTopup(ctx context.Context, token, id string) error {
	path := fmt.Sprintf("/admin/topup-requests/%s/reject", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPost, path, token, nil, nil); err != nil {
		return fmt.Errorf("failed to reject topup request: %w", err)
	}
	return nil
}

func (c *BackendClient) doJSON(ctx context.Context, method, path, token string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	setBearer(req, token)

	return c.do(req, out)
}

func (c *BackendClient) doForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

func (c *BackendClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Detail: extractDetail(resp.StatusCode, data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// extractDetail pulls a human readable message out of an error body.
// A string "detail" is used as is; any other detail value is passed through
// as raw JSON; a body without one is used verbatim.
func extractDetail(status int, body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 && string(envelope.Detail) != "null" {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		return string(envelope.Detail)
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
