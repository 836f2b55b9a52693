package coinswap

import (
	"context"
	"errors"
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

// InitializePool creates the pool at the owner's address. The owner must
// hold at least amountA and amountB of the pair's coins.
func (c *Client) InitializePool(ctx context.Context, owner rest.Signer, pair Pair, amountA uint64, amountB uint64) (string, error) {
	if owner == nil {
		return "", fmt.Errorf("owner is required")
	}
	payload, err := BuildInitializePayload(owner.Address(), pair, amountA, amountB)
	if err != nil {
		return "", err
	}
	pending, err := c.chain.ExecuteTransactionWithPayload(ctx, owner, payload)
	if err != nil {
		return "", fmt.Errorf("failed to initialize pool: %w", err)
	}
	c.logger.Debug().
		Uint64("amount_a", amountA).
		Uint64("amount_b", amountB).
		Str("hash", pending.Hash).
		Msg("pool initialize submitted")
	return pending.Hash, nil
}

// PoolInfo returns the current reserves, or ErrPoolNotFound.
func (c *Client) PoolInfo(ctx context.Context, moduleAddress string, pair Pair) (PoolInfo, error) {
	poolPath, err := PoolStorePath(moduleAddress, pair)
	if err != nil {
		return PoolInfo{}, err
	}
	resource, err := c.chain.AccountResource(ctx, moduleAddress, poolPath)
	if err != nil {
		return PoolInfo{}, fmt.Errorf("failed to load pool: %w", err)
	}
	return ParsePoolInfo(resource)
}

// PoolExists reports whether the pool resource is published.
func (c *Client) PoolExists(ctx context.Context, moduleAddress string, pair Pair) (bool, error) {
	_, err := c.PoolInfo(ctx, moduleAddress, pair)
	if errors.Is(err, ErrPoolNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Swap trades amountOffered against the pool. The chain rejects the swap
// when it would return less than minimumReceived.
func (c *Client) Swap(
	ctx context.Context,
	trader rest.Signer,
	moduleAddress string,
	pair Pair,
	amountOffered uint64,
	minimumReceived uint64,
	reverse bool,
) (string, error) {
	if trader == nil {
		return "", fmt.Errorf("trader is required")
	}
	payload, err := BuildSwapPayload(moduleAddress, trader.Address(), pair, amountOffered, minimumReceived, reverse)
	if err != nil {
		return "", err
	}
	pending, err := c.chain.ExecuteTransactionWithPayload(ctx, trader, payload)
	if err != nil {
		return "", fmt.Errorf("failed to swap: %w", err)
	}
	c.logger.Debug().
		Uint64("amount_offered", amountOffered).
		Uint64("minimum_received", minimumReceived).
		Bool("reverse", reverse).
		Str("hash", pending.Hash).
		Msg("swap submitted")
	return pending.Hash, nil
}
