package coin

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
	"github.com/move-examples/coinswap-sdk-go/pkg/shared"
)

type Client struct {
	chain  Chain
	logger zerolog.Logger
}

func NewClient(config ClientConfig) (*Client, error) {
	if config.Chain == nil {
		return nil, fmt.Errorf("chain client is required")
	}
	return &Client{
		chain:  config.Chain,
		logger: shared.LoggerOrNop(config.Logger),
	}, nil
}

// Initialize publishes the coin with the given symbol under the owner's
// address using default name and decimals. It returns the submitted
// transaction hash without waiting.
func (c *Client) Initialize(ctx context.Context, owner rest.Signer, symbol string) (string, error) {
	return c.InitializeWithOptions(ctx, owner, InitializeOptions{Symbol: symbol})
}

func (c *Client) InitializeWithOptions(ctx context.Context, owner rest.Signer, options InitializeOptions) (string, error) {
	if owner == nil {
		return "", fmt.Errorf("owner is required")
	}
	payload, err := BuildInitializePayload(owner.Address(), options)
	if err != nil {
		return "", err
	}
	return c.execute(ctx, owner, payload, "initialize", options.Symbol)
}

// Register publishes a coin store for the issuer's coin in the receiver's
// account.
func (c *Client) Register(ctx context.Context, receiver rest.Signer, issuer string, symbol string) (string, error) {
	if receiver == nil {
		return "", fmt.Errorf("receiver is required")
	}
	payload, err := BuildRegisterPayload(issuer, symbol)
	if err != nil {
		return "", err
	}
	return c.execute(ctx, receiver, payload, "register", symbol)
}

// Mint mints amount of the owner's coin to recipient.
func (c *Client) Mint(ctx context.Context, owner rest.Signer, symbol string, recipient string, amount uint64) (string, error) {
	if owner == nil {
		return "", fmt.Errorf("owner is required")
	}
	payload, err := BuildMintPayload(owner.Address(), symbol, recipient, amount)
	if err != nil {
		return "", err
	}
	return c.execute(ctx, owner, payload, "mint", symbol)
}

// Balance returns the account's balance of the issuer's coin, 0 when the
// account holds no coin store for it.
func (c *Client) Balance(ctx context.Context, address string, issuer string, symbol string) (uint64, error) {
	storePath, err := CoinStorePath(issuer, symbol)
	if err != nil {
		return 0, err
	}
	resource, err := c.chain.AccountResource(ctx, address, storePath)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s balance: %w", symbol, err)
	}
	return StoreValue(resource)
}

// IsInitialized reports whether the issuer has published the coin.
func (c *Client) IsInitialized(ctx context.Context, issuer string, symbol string) (bool, error) {
	infoPath, err := CoinInfoPath(issuer, symbol)
	if err != nil {
		return false, err
	}
	return c.hasResource(ctx, issuer, infoPath)
}

// IsRegistered reports whether the account holds a coin store for the
// issuer's coin.
func (c *Client) IsRegistered(ctx context.Context, address string, issuer string, symbol string) (bool, error) {
	storePath, err := CoinStorePath(issuer, symbol)
	if err != nil {
		return false, err
	}
	return c.hasResource(ctx, address, storePath)
}

func (c *Client) hasResource(ctx context.Context, address string, resourceType string) (bool, error) {
	resource, err := c.chain.AccountResource(ctx, address, resourceType)
	if err != nil {
		return false, err
	}
	return resource != nil, nil
}

func (c *Client) execute(ctx context.Context, signer rest.Signer, payload rest.Payload, action string, symbol string) (string, error) {
	pending, err := c.chain.ExecuteTransactionWithPayload(ctx, signer, payload)
	if err != nil {
		return "", fmt.Errorf("failed to %s coin %s: %w", action, symbol, err)
	}
	c.logger.Debug().
		Str("action", action).
		Str("symbol", symbol).
		Str("hash", pending.Hash).
		Msg("coin transaction submitted")
	return pending.Hash, nil
}
