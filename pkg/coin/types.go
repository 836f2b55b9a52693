package coin

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

const (
	InitializeFunction = "0x1::managed_coin::initialize"
	RegisterFunction   = "0x1::coins::register"
	MintFunction       = "0x1::managed_coin::mint"

	DefaultDecimals uint8 = 6
)

// Chain is the subset of the node client the coin client needs.
type Chain interface {
	ExecuteTransactionWithPayload(ctx context.Context, signer rest.Signer, payload rest.Payload) (rest.PendingTransaction, error)
	AccountResource(ctx context.Context, address string, resourceType string) (*rest.Resource, error)
}

type ClientConfig struct {
	Chain  Chain
	Logger *zerolog.Logger
}

// InitializeOptions describes a new coin. Name defaults to "<Symbol> Coin"
// and Decimals to DefaultDecimals.
type InitializeOptions struct {
	Symbol        string
	Name          string
	Decimals      *uint8
	MonitorSupply bool
}

// TypeName returns the module and struct name of the coin, Coin<symbol>.
func TypeName(symbol string) (string, error) {
	normalized := strings.TrimSpace(symbol)
	if normalized == "" {
		return "", fmt.Errorf("coin symbol is required")
	}
	return "Coin" + normalized, nil
}

// TypePath returns the fully qualified type of the coin issued by issuer.
func TypePath(issuer string, symbol string) (string, error) {
	address, err := account.NormalizeAddress(issuer)
	if err != nil {
		return "", fmt.Errorf("invalid issuer address: %w", err)
	}
	name, err := TypeName(symbol)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s::%s::%s", address, name, name), nil
}

// CoinInfoPath returns the resource type published by the issuer on
// initialization.
func CoinInfoPath(issuer string, symbol string) (string, error) {
	typePath, err := TypePath(issuer, symbol)
	if err != nil {
		return "", err
	}
	return "0x1::coin::CoinInfo<" + typePath + ">", nil
}

// CoinStorePath returns the resource type holding a registered account's
// balance of the coin.
func CoinStorePath(issuer string, symbol string) (string, error) {
	typePath, err := TypePath(issuer, symbol)
	if err != nil {
		return "", err
	}
	return "0x1::coin::CoinStore<" + typePath + ">", nil
}

// StoreValue reads data.coin.value from a coin store resource. A nil
// resource has no balance.
func StoreValue(resource *rest.Resource) (uint64, error) {
	if resource == nil {
		return 0, nil
	}
	value, err := resource.Uint64("coin", "value")
	if err != nil {
		return 0, fmt.Errorf("invalid coin store %s: %w", resource.Type, err)
	}
	return value, nil
}
