//go:build functional

// Package functional provides functional tests for the catalog REST API
// and the events WebSocket feed.
package functional

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/san360/gh-demo/internal/auth"
	"github.com/san360/gh-demo/internal/config"
	"github.com/san360/gh-demo/internal/handler"
	"github.com/san360/gh-demo/internal/model"
	"github.com/san360/gh-demo/internal/server"
	"github.com/san360/gh-demo/internal/service"
	"github.com/san360/gh-demo/internal/store"
)

// Environment variable names for test configuration.
const (
	EnvTestServerHost    = "TEST_SERVER_HOST"
	EnvTestServerPort    = "TEST_SERVER_PORT"
	EnvTestTimeout       = "TEST_TIMEOUT"
	EnvTestLogLevel      = "TEST_LOG_LEVEL"
	EnvTestMetricsEnable = "TEST_METRICS_ENABLED"
)

// Default test configuration values.
const (
	DefaultTestHost         = "localhost"
	DefaultTestPort         = 0 // 0 means auto-assign
	DefaultTestTimeout      = 30 * time.Second
	DefaultRequestTimeout   = 5 * time.Second
	DefaultWebSocketTimeout = 10 * time.Second
	DefaultShutdownTimeout  = 5 * time.Second
	DefaultLogLevel         = "error"
	DefaultMetricsEnabled   = false
)

// Credentials used by auth-enabled test servers.
const (
	TestJWTSecret     = "functional-test-secret"
	TestAdminUser     = "admin"
	TestAdminPassword = "admin-password"
	TestRegularUser   = "bob"
	TestRegularPass   = "user-password"
)

// TestConfig holds test configuration loaded from environment.
type TestConfig struct {
	Host           string
	Port           int
	Timeout        time.Duration
	LogLevel       string
	MetricsEnabled bool
}

// LoadTestConfig loads test configuration from environment variables.
func LoadTestConfig() *TestConfig {
	cfg := &TestConfig{
		Host:           DefaultTestHost,
		Port:           DefaultTestPort,
		Timeout:        DefaultTestTimeout,
		LogLevel:       DefaultLogLevel,
		MetricsEnabled: DefaultMetricsEnabled,
	}

	if host := os.Getenv(EnvTestServerHost); host != "" {
		cfg.Host = host
	}

	if portStr := os.Getenv(EnvTestServerPort); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = port
		}
	}

	if timeoutStr := os.Getenv(EnvTestTimeout); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			cfg.Timeout = timeout
		}
	}

	if logLevel := os.Getenv(EnvTestLogLevel); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if metricsStr := os.Getenv(EnvTestMetricsEnable); metricsStr != "" {
		if enabled, err := strconv.ParseBool(metricsStr); err == nil {
			cfg.MetricsEnabled = enabled
		}
	}

	return cfg
}

// TestServer wraps the server for testing purposes.
type TestServer struct {
	Server   *server.Server
	Store    *store.MemoryStore
	BaseURL  string
	WSURL    string
	Port     int
	listener net.Listener
	t        *testing.T
	mu       sync.Mutex
	started  bool
}

// NewTestServer creates a test server with authentication disabled.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, false)
}

// NewAuthTestServer creates a test server with JWT authentication
// enabled. The admin and regular user credentials are the Test*
// constants.
func NewAuthTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, true)
}

func newTestServer(t *testing.T, withAuth bool) *TestServer {
	t.Helper()

	testCfg := LoadTestConfig()

	// Find an available port
	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", testCfg.Host, testCfg.Port))
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}

	port := listener.Addr().(*net.TCPAddr).Port

	cfg := &config.Config{
		ServerHost:      testCfg.Host,
		ServerPort:      port,
		LogLevel:        testCfg.LogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  testCfg.MetricsEnabled,
		DataFile:        "unused-in-functional-tests",
		AuthMode:        "none",
		TokenTTL:        time.Hour,
	}

	// Use a nop logger for tests to reduce noise
	logger := zap.NewNop()

	var gate auth.Gate
	var authenticator auth.Authenticator
	if withAuth {
		cfg.AuthMode = "jwt"
		jwtGate, err := auth.NewJWTGate(TestJWTSecret, time.Hour, testUsers(t))
		if err != nil {
			t.Fatalf("Failed to create JWT gate: %v", err)
		}
		gate = jwtGate
		authenticator = jwtGate
	}

	catalogStore := store.NewMemoryStore()
	eventHub := handler.NewEventHub(logger)
	svc := service.New(catalogStore, logger, eventHub)

	srv := server.New(cfg, logger, svc, eventHub, gate, authenticator)

	return &TestServer{
		Server:   srv,
		Store:    catalogStore,
		BaseURL:  fmt.Sprintf("http://%s:%d", testCfg.Host, port),
		WSURL:    fmt.Sprintf("ws://%s:%d", testCfg.Host, port),
		Port:     port,
		listener: listener,
		t:        t,
	}
}

// testUsers builds the test credential set.
func testUsers(t *testing.T) map[string]auth.User {
	t.Helper()

	adminHash, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash admin password: %v", err)
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte(TestRegularPass), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash user password: %v", err)
	}

	return map[string]auth.User{
		TestAdminUser:   {Name: TestAdminUser, PasswordHash: string(adminHash), Role: auth.RoleAdmin},
		TestRegularUser: {Name: TestRegularUser, PasswordHash: string(userHash), Role: auth.RoleUser},
	}
}

// Start starts the test server.
func (ts *TestServer) Start() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.started {
		return
	}

	// Close the listener we used to find the port
	ts.listener.Close()

	// Start server in goroutine
	go func() {
		if err := ts.Server.Start(); err != nil && err != http.ErrServerClosed {
			ts.t.Logf("Server error: %v", err)
		}
	}()

	// Wait for server to be ready
	ts.waitForReady()
	ts.started = true
}

// waitForReady waits for the server to be ready to accept connections.
func (ts *TestServer) waitForReady() {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultTestTimeout)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ts.t.Fatalf("Server did not become ready within timeout")
		case <-ticker.C:
			resp, err := http.Get(ts.BaseURL + "/health")
			if err == nil {
				resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					return
				}
			}
		}
	}
}

// Stop stops the test server.
func (ts *TestServer) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	if err := ts.Server.Shutdown(ctx); err != nil {
		ts.t.Logf("Server shutdown error: %v", err)
	}

	ts.started = false
}

// HTTPClient provides a configured HTTP client for tests.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	t       *testing.T
}

// NewHTTPClient creates a new HTTP client for testing.
func NewHTTPClient(t *testing.T, baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: DefaultRequestTimeout,
		},
		baseURL: baseURL,
		t:       t,
	}
}

// Request represents an HTTP request configuration.
type Request struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// Response represents an HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Do executes an HTTP request and returns the response.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		switch v := req.Body.(type) {
		case string:
			bodyReader = bytes.NewBufferString(v)
		case []byte:
			bodyReader = bytes.NewBuffer(v)
		default:
			jsonBody, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			bodyReader = bytes.NewBuffer(jsonBody)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set default content type for requests with body
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// Set custom headers
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    path,
		Headers: headers,
	})
}

// Post performs a POST request.
func (c *HTTPClient) Post(ctx context.Context, path string, body interface{}, headers map[string]string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    path,
		Body:    body,
		Headers: headers,
	})
}

// Put performs a PUT request.
func (c *HTTPClient) Put(ctx context.Context, path string, body interface{}, headers map[string]string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:  http.MethodPut,
		Path:    path,
		Body:    body,
		Headers: headers,
	})
}

// Delete performs a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:  http.MethodDelete,
		Path:    path,
		Headers: headers,
	})
}

// Login authenticates against the test server and returns the access
// token.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := c.Post(ctx, "/api/auth/login", handler.LoginRequest{
		Username: username,
		Password: password,
	}, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.StatusCode, resp.Body)
	}

	login, err := ParseLoginResponse(resp.Body)
	if err != nil {
		return "", err
	}
	return login.AccessToken, nil
}

// BearerHeader builds the Authorization header map for a token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// ParseProduct parses a product from a response body.
func ParseProduct(body []byte) (*model.Product, error) {
	var p model.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}
	return &p, nil
}

// ParseProducts parses a product list from a response body.
func ParseProducts(body []byte) ([]model.Product, error) {
	var products []model.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}
	return products, nil
}

// ParseErrorResponse parses an error response from a response body.
func ParseErrorResponse(body []byte) (*model.ErrorResponse, error) {
	var resp model.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse error response: %w", err)
	}
	return &resp, nil
}

// ParseDeleteResponse parses a delete confirmation from a response body.
func ParseDeleteResponse(body []byte) (*handler.DeleteResponse, error) {
	var resp handler.DeleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse delete response: %w", err)
	}
	return &resp, nil
}

// ParseLoginResponse parses a login response from a response body.
func ParseLoginResponse(body []byte) (*handler.LoginResponse, error) {
	var resp handler.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse login response: %w", err)
	}
	return &resp, nil
}

// ParseHealthResponse parses a health response from a response body.
func ParseHealthResponse(body []byte) (*handler.HealthResponse, error) {
	var resp handler.HealthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse health response: %w", err)
	}
	return &resp, nil
}

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Coverage    string  `json:"coverage"`
	Deductible  float64 `json:"deductible,omitempty"`
}

// AssertStatusCode asserts that the response has the expected status code.
func AssertStatusCode(t *testing.T, resp *Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status code %d, got %d. Body: %s", expected, resp.StatusCode, string(resp.Body))
	}
}

// AssertErrorMessage asserts that the response body carries the expected
// error message.
func AssertErrorMessage(t *testing.T, resp *Response, expected string) {
	t.Helper()
	errResp, err := ParseErrorResponse(resp.Body)
	if err != nil {
		t.Errorf("Failed to parse error response: %v", err)
		return
	}
	if errResp.Error != expected {
		t.Errorf("Expected error %q, got %q", expected, errResp.Error)
	}
}

// LogTestStart logs the start of a test.
func LogTestStart(t *testing.T, testID, testName string) {
	t.Helper()
	t.Logf("Starting test %s: %s", testID, testName)
}

// LogTestEnd logs the end of a test.
func LogTestEnd(t *testing.T, testID string) {
	t.Helper()
	t.Logf("Completed test %s", testID)
}
