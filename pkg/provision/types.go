package provision

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/move-examples/coinswap-sdk-go/pkg/coinswap"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

const (
	DefaultFundAmount      uint64 = 10_000_000
	DefaultMintAmount      uint64 = 10_000 * 1_000_000
	DefaultPoolAmountA     uint64 = 100 * 1_000_000
	DefaultPoolAmountB     uint64 = 100 * 1_000_000
	DefaultSwapAmount      uint64 = 10 * 1_000_000
	DefaultMinimumReceived uint64 = 1 * 1_000_000
)

// Chain is the node client surface the runner needs. *rest.Client
// implements it.
type Chain interface {
	AccountBalance(ctx context.Context, address string) (*rest.Resource, error)
	AccountResource(ctx context.Context, address string, resourceType string) (*rest.Resource, error)
	ExecuteTransactionWithPayload(ctx context.Context, signer rest.Signer, payload rest.Payload) (rest.PendingTransaction, error)
	WaitForTransaction(ctx context.Context, hash string) (*rest.Transaction, error)
}

// Funder tops up gas. *faucet.Client implements it.
type Funder interface {
	FundAccount(ctx context.Context, address string, amount uint64) ([]string, error)
}

// Config tunes the run. Zero amounts select the defaults. MinimumReceived
// is a pointer so that an explicit 0 disables the slippage floor; nil selects
// DefaultMinimumReceived. Reverse swaps B for A.
type Config struct {
	FundAmount      uint64
	SymbolA         string
	SymbolB         string
	SymbolLP        string
	MintAmount      uint64
	PoolAmountA     uint64
	PoolAmountB     uint64
	SwapAmount      uint64
	MinimumReceived *uint64
	Reverse         bool

	Logger *zerolog.Logger
}

// StepResult reports one provisioning step. Skipped steps carry no hashes.
type StepResult struct {
	Name     string   `json:"name"`
	TxHashes []string `json:"tx_hashes,omitempty"`
	Skipped  bool     `json:"skipped"`
}

type Balances struct {
	CoinA uint64 `json:"coin_a"`
	CoinB uint64 `json:"coin_b"`
}

// ProvisionResult reports the steps and the coin balances read after
// minting and again after the pool step. Only Balances reflects coins
// deposited into the pool.
type ProvisionResult struct {
	Address  string       `json:"address"`
	Steps    []StepResult `json:"steps"`
	Minted   Balances     `json:"minted"`
	Balances Balances     `json:"balances"`
}

// Submitted returns the number of transactions the run issued, funding
// included.
func (r ProvisionResult) Submitted() int {
	total := 0
	for _, step := range r.Steps {
		total += len(step.TxHashes)
	}
	return total
}

type SwapResult struct {
	TxHash   string            `json:"tx_hash"`
	Before   coinswap.PoolInfo `json:"before"`
	After    coinswap.PoolInfo `json:"after"`
	Balances Balances          `json:"balances"`
}

type RunResult struct {
	Provision ProvisionResult `json:"provision"`
	Swap      SwapResult      `json:"swap"`
}
