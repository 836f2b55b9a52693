package coinswap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/coin"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

const (
	ModuleName = "CoinSwap"

	DefaultSymbolA  = "A"
	DefaultSymbolB  = "B"
	DefaultSymbolLP = "LP"
)

var ErrPoolNotFound = errors.New("pool not found")

// Chain is the subset of the node client the swap client needs.
type Chain interface {
	ExecuteTransactionWithPayload(ctx context.Context, signer rest.Signer, payload rest.Payload) (rest.PendingTransaction, error)
	AccountResource(ctx context.Context, address string, resourceType string) (*rest.Resource, error)
}

type ClientConfig struct {
	Chain  Chain
	Logger *zerolog.Logger
}

// Pair names the coins of a pool. Address issues all three coins.
type Pair struct {
	Address  string
	SymbolA  string
	SymbolB  string
	SymbolLP string
}

// NewPair returns the A/B pair with LP shares, all issued by address.
func NewPair(address string) Pair {
	return Pair{
		Address:  address,
		SymbolA:  DefaultSymbolA,
		SymbolB:  DefaultSymbolB,
		SymbolLP: DefaultSymbolLP,
	}
}

// PoolInfo holds pool reserves in (A, B) order.
type PoolInfo struct {
	ReserveA uint64 `json:"reserve_a"`
	ReserveB uint64 `json:"reserve_b"`
}

func (p Pair) typeA() (string, error) {
	return coin.TypePath(p.Address, p.SymbolA)
}

func (p Pair) typeB() (string, error) {
	return coin.TypePath(p.Address, p.SymbolB)
}

func (p Pair) typeArguments(withLP bool) ([]string, error) {
	coinA, err := p.typeA()
	if err != nil {
		return nil, err
	}
	coinB, err := p.typeB()
	if err != nil {
		return nil, err
	}
	if !withLP {
		return []string{coinA, coinB}, nil
	}
	lp, err := coin.TypePath(p.Address, p.SymbolLP)
	if err != nil {
		return nil, err
	}
	return []string{coinA, coinB, lp}, nil
}

// FunctionName returns the fully qualified CoinSwap entry function.
func FunctionName(moduleAddress string, function string) (string, error) {
	address, err := account.NormalizeAddress(moduleAddress)
	if err != nil {
		return "", fmt.Errorf("invalid module address: %w", err)
	}
	return fmt.Sprintf("%s::%s::%s", address, ModuleName, strings.TrimSpace(function)), nil
}

// PoolStorePath returns the pool resource type held at the module address.
func PoolStorePath(moduleAddress string, pair Pair) (string, error) {
	address, err := account.NormalizeAddress(moduleAddress)
	if err != nil {
		return "", fmt.Errorf("invalid module address: %w", err)
	}
	typeArgs, err := pair.typeArguments(false)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s::%s::PoolStore<%s, %s>", address, ModuleName, typeArgs[0], typeArgs[1]), nil
}

// ParsePoolInfo reads data.coin_a.value and data.coin_b.value.
func ParsePoolInfo(resource *rest.Resource) (PoolInfo, error) {
	if resource == nil {
		return PoolInfo{}, ErrPoolNotFound
	}
	reserveA, err := resource.Uint64("coin_a", "value")
	if err != nil {
		return PoolInfo{}, fmt.Errorf("invalid pool reserve A: %w", err)
	}
	reserveB, err := resource.Uint64("coin_b", "value")
	if err != nil {
		return PoolInfo{}, fmt.Errorf("invalid pool reserve B: %w", err)
	}
	return PoolInfo{ReserveA: reserveA, ReserveB: reserveB}, nil
}
