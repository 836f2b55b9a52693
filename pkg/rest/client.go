package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/shared"
)

const (
	DefaultMaxGasAmount     uint64 = 2000
	DefaultGasUnitPrice     uint64 = 1
	DefaultGasCurrencyCode         = "XUS"
	DefaultExpirationWindow        = 600 * time.Second
	DefaultPollInterval            = time.Second
	DefaultMaxWaitAttempts         = 10
	DefaultUserAgent               = "coinswap-sdk-go"
)

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	Headers    map[string]string

	MaxGasAmount     uint64
	GasUnitPrice     uint64
	GasCurrencyCode  string
	ExpirationWindow time.Duration

	// PollInterval and MaxWaitAttempts bound WaitForTransaction.
	PollInterval    time.Duration
	MaxWaitAttempts int

	// RequestsPerSecond enables client side throttling when positive.
	RequestsPerSecond float64
	Burst             int

	Logger  *zerolog.Logger
	Metrics *Metrics
}

type Client struct {
	baseURL          string
	httpClient       *http.Client
	headers          map[string]string
	maxGasAmount     uint64
	gasUnitPrice     uint64
	gasCurrencyCode  string
	expirationWindow time.Duration
	pollInterval     time.Duration
	maxWaitAttempts  int
	limiter          *rate.Limiter
	logger           zerolog.Logger
	metrics          *Metrics
	now              func() time.Time
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		endpoints, err := shared.NetworkEndpoints(config.Network)
		if err != nil {
			return nil, err
		}
		baseURL = endpoints.NodeURL
	}
	normalizedURL, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid node base URL: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	client := &Client{
		baseURL:          normalizedURL,
		httpClient:       httpClient,
		headers:          headers,
		maxGasAmount:     config.MaxGasAmount,
		gasUnitPrice:     config.GasUnitPrice,
		gasCurrencyCode:  strings.TrimSpace(config.GasCurrencyCode),
		expirationWindow: config.ExpirationWindow,
		pollInterval:     config.PollInterval,
		maxWaitAttempts:  config.MaxWaitAttempts,
		logger:           shared.LoggerOrNop(config.Logger),
		metrics:          config.Metrics,
		now:              time.Now,
	}
	if client.maxGasAmount == 0 {
		client.maxGasAmount = DefaultMaxGasAmount
	}
	if client.gasUnitPrice == 0 {
		client.gasUnitPrice = DefaultGasUnitPrice
	}
	if client.gasCurrencyCode == "" {
		client.gasCurrencyCode = DefaultGasCurrencyCode
	}
	if client.expirationWindow <= 0 {
		client.expirationWindow = DefaultExpirationWindow
	}
	if client.pollInterval <= 0 {
		client.pollInterval = DefaultPollInterval
	}
	if client.maxWaitAttempts <= 0 {
		client.maxWaitAttempts = DefaultMaxWaitAttempts
	}
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		client.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	return client, nil
}

// NormalizeBaseURL validates an http(s) base URL and strips trailing slashes.
func NormalizeBaseURL(baseURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("scheme must be http or https")
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", fmt.Errorf("host is required")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

// BaseURL returns the node base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Account returns the sequence number and authentication key of an account.
func (c *Client) Account(ctx context.Context, address string) (AccountInfo, error) {
	var info AccountInfo
	normalized, err := account.NormalizeAddress(address)
	if err != nil {
		return info, err
	}

	path := "/accounts/" + url.PathEscape(normalized)
	if err := c.doJSON(ctx, http.MethodGet, "/accounts/{address}", path, nil, &info); err != nil {
		return info, err
	}
	return info, nil
}

// AccountResource returns the resource of the given type stored under the
// account, or nil when the account or the resource does not exist.
func (c *Client) AccountResource(ctx context.Context, address string, resourceType string) (*Resource, error) {
	normalized, err := account.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	resourceType = strings.TrimSpace(resourceType)
	if resourceType == "" {
		return nil, fmt.Errorf("resource type is required")
	}

	path := fmt.Sprintf("/accounts/%s/resource/%s", url.PathEscape(normalized), url.PathEscape(resourceType))
	var resource Resource
	err = c.doJSON(ctx, http.MethodGet, "/accounts/{address}/resource/{type}", path, nil, &resource)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// AccountBalance returns the gas coin store of the account, or nil when the
// account has never been funded.
func (c *Client) AccountBalance(ctx context.Context, address string) (*Resource, error) {
	return c.AccountResource(ctx, address, GasCoinStoreType)
}

func (c *Client) doJSON(
	ctx context.Context,
	method string,
	endpoint string,
	path string,
	body any,
	target any,
) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var requestBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		requestBody = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, requestBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", AcceptEncoding)
	request.Header.Set("User-Agent", DefaultUserAgent)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.headers {
		request.Header.Set(key, value)
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, method, 0, time.Since(started))
		return fmt.Errorf("node request failed: %w", err)
	}
	defer response.Body.Close()
	c.metrics.ObserveRequest(endpoint, method, response.StatusCode, time.Since(started))

	rawBody, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("failed to read node response: %w", err)
	}
	responseBody, err := DecodeBody(response.Header.Get("Content-Encoding"), rawBody)
	if err != nil {
		return err
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", response.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("node request")

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &RequestError{
			Method: method,
			Path:   path,
			Status: response.StatusCode,
			Body:   strings.TrimSpace(string(responseBody)),
		}
	}

	if target == nil {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(responseBody))
	decoder.UseNumber()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("failed to decode node response: %w", err)
	}
	return nil
}
