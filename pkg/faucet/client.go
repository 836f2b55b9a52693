package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
	"github.com/move-examples/coinswap-sdk-go/pkg/shared"
)

// DefaultFundAmount is the gas amount requested when none is given.
const DefaultFundAmount uint64 = 10_000_000

// TransactionWaiter blocks until a transaction commits. *rest.Client
// implements it.
type TransactionWaiter interface {
	WaitForTransaction(ctx context.Context, hash string) (*rest.Transaction, error)
}

type Config struct {
	Network    string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
	Metrics    *rest.Metrics
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	waiter     TransactionWaiter
	logger     zerolog.Logger
	metrics    *rest.Metrics
}

// NewClient creates a faucet client whose funding transactions are awaited
// through waiter.
func NewClient(config Config, waiter TransactionWaiter) (*Client, error) {
	if waiter == nil {
		return nil, fmt.Errorf("transaction waiter is required")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		endpoints, err := shared.NetworkEndpoints(config.Network)
		if err != nil {
			return nil, err
		}
		baseURL = endpoints.FaucetURL
	}
	normalizedURL, err := rest.NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid faucet base URL: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		baseURL:    normalizedURL,
		httpClient: httpClient,
		waiter:     waiter,
		logger:     shared.LoggerOrNop(config.Logger),
		metrics:    config.Metrics,
	}, nil
}

// BaseURL returns the faucet base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FundAccount mints amount gas coins to address and waits for every funding
// transaction the faucet reports. A zero amount requests DefaultFundAmount.
func (c *Client) FundAccount(ctx context.Context, address string, amount uint64) ([]string, error) {
	normalized, err := account.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		amount = DefaultFundAmount
	}

	hashes, err := c.mint(ctx, account.TrimAddressPrefix(normalized), amount)
	if err != nil {
		return nil, err
	}
	for _, hash := range hashes {
		if _, err := c.waiter.WaitForTransaction(ctx, hash); err != nil {
			return hashes, fmt.Errorf("funding transaction %s: %w", hash, err)
		}
	}

	c.logger.Info().
		Str("address", normalized).
		Uint64("amount", amount).
		Int("transactions", len(hashes)).
		Msg("account funded")
	return hashes, nil
}

func (c *Client) mint(ctx context.Context, authKey string, amount uint64) ([]string, error) {
	query := url.Values{}
	query.Set("amount", strconv.FormatUint(amount, 10))
	query.Set("auth_key", authKey)
	path := "/mint?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create faucet request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", rest.AcceptEncoding)
	request.Header.Set("User-Agent", rest.DefaultUserAgent)

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.metrics.ObserveRequest("/mint", http.MethodPost, 0, time.Since(started))
		return nil, fmt.Errorf("faucet request failed: %w", err)
	}
	defer response.Body.Close()
	c.metrics.ObserveRequest("/mint", http.MethodPost, response.StatusCode, time.Since(started))

	rawBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read faucet response: %w", err)
	}
	body, err := rest.DecodeBody(response.Header.Get("Content-Encoding"), rawBody)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("path", path).
		Int("status", response.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("faucet request")

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &rest.RequestError{
			Method: http.MethodPost,
			Path:   "/mint",
			Status: response.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var hashes []string
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&hashes); err != nil {
		return nil, fmt.Errorf("failed to decode faucet response: %w", err)
	}
	if len(hashes) == 0 {
		return nil, fmt.Errorf("faucet response did not include transaction hashes")
	}
	return hashes, nil
}
