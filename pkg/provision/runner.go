package provision

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/move-examples/coinswap-sdk-go/pkg/coin"
	"github.com/move-examples/coinswap-sdk-go/pkg/coinswap"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
	"github.com/move-examples/coinswap-sdk-go/pkg/shared"
)

type step struct {
	name string
	run  func() (StepResult, error)
}

type Runner struct {
	chain           Chain
	funder          Funder
	coins           *coin.Client
	swap            *coinswap.Client
	config          Config
	minimumReceived uint64
	logger          zerolog.Logger
}

// NewRunner creates a runner. A nil funder disables the gas funding step.
func NewRunner(chain Chain, funder Funder, config Config) (*Runner, error) {
	if chain == nil {
		return nil, fmt.Errorf("chain client is required")
	}

	normalized := config
	if normalized.FundAmount == 0 {
		normalized.FundAmount = DefaultFundAmount
	}
	if strings.TrimSpace(normalized.SymbolA) == "" {
		normalized.SymbolA = coinswap.DefaultSymbolA
	}
	if strings.TrimSpace(normalized.SymbolB) == "" {
		normalized.SymbolB = coinswap.DefaultSymbolB
	}
	if strings.TrimSpace(normalized.SymbolLP) == "" {
		normalized.SymbolLP = coinswap.DefaultSymbolLP
	}
	if normalized.SymbolA == normalized.SymbolB {
		return nil, fmt.Errorf("pool symbols must differ, got %q twice", normalized.SymbolA)
	}
	if normalized.MintAmount == 0 {
		normalized.MintAmount = DefaultMintAmount
	}
	if normalized.PoolAmountA == 0 {
		normalized.PoolAmountA = DefaultPoolAmountA
	}
	if normalized.PoolAmountB == 0 {
		normalized.PoolAmountB = DefaultPoolAmountB
	}
	if normalized.SwapAmount == 0 {
		normalized.SwapAmount = DefaultSwapAmount
	}
	minimumReceived := DefaultMinimumReceived
	if config.MinimumReceived != nil {
		minimumReceived = *config.MinimumReceived
	}

	coins, err := coin.NewClient(coin.ClientConfig{Chain: chain, Logger: config.Logger})
	if err != nil {
		return nil, err
	}
	swap, err := coinswap.NewClient(coinswap.ClientConfig{Chain: chain, Logger: config.Logger})
	if err != nil {
		return nil, err
	}

	return &Runner{
		chain:           chain,
		funder:          funder,
		coins:           coins,
		swap:            swap,
		config:          normalized,
		minimumReceived: minimumReceived,
		logger:          shared.LoggerOrNop(config.Logger),
	}, nil
}

// Pair returns the pool pair issued by owner under the configured symbols.
func (r *Runner) Pair(owner string) coinswap.Pair {
	return coinswap.Pair{
		Address:  owner,
		SymbolA:  r.config.SymbolA,
		SymbolB:  r.config.SymbolB,
		SymbolLP: r.config.SymbolLP,
	}
}

// Run provisions the owner and then performs one swap.
func (r *Runner) Run(ctx context.Context, owner rest.Signer) (RunResult, error) {
	provisioned, err := r.Provision(ctx, owner)
	if err != nil {
		return RunResult{Provision: provisioned}, err
	}
	swapped, err := r.Swap(ctx, owner)
	return RunResult{Provision: provisioned, Swap: swapped}, err
}

// Provision brings the owner's account to the state the swap needs. The
// first failing step aborts the run; completed steps are not undone.
func (r *Runner) Provision(ctx context.Context, owner rest.Signer) (ProvisionResult, error) {
	if owner == nil {
		return ProvisionResult{}, fmt.Errorf("owner is required")
	}
	address := owner.Address()
	result := ProvisionResult{Address: address}
	symbols := []string{r.config.SymbolA, r.config.SymbolB}

	steps := []step{{"fund", func() (StepResult, error) { return r.fund(ctx, address) }}}
	for _, symbol := range symbols {
		steps = append(steps, step{"initialize " + symbol, func() (StepResult, error) {
			return r.initialize(ctx, owner, symbol)
		}})
	}
	for _, symbol := range symbols {
		steps = append(steps, step{"register " + symbol, func() (StepResult, error) {
			return r.register(ctx, owner, symbol)
		}})
	}
	for _, symbol := range symbols {
		steps = append(steps, step{"mint " + symbol, func() (StepResult, error) {
			return r.mint(ctx, owner, symbol)
		}})
	}

	for _, next := range steps {
		stepResult, err := next.run()
		stepResult.Name = next.name
		result.Steps = append(result.Steps, stepResult)
		if err != nil {
			return result, fmt.Errorf("%s: %w", next.name, err)
		}
		r.logStep(stepResult)
	}

	minted, err := r.balances(ctx, address)
	if err != nil {
		return result, err
	}
	result.Minted = minted
	r.logger.Info().
		Uint64("coin_a", minted.CoinA).
		Uint64("coin_b", minted.CoinB).
		Msg("coin balances after mint")

	poolStep, err := r.createPool(ctx, owner)
	poolStep.Name = "create pool"
	result.Steps = append(result.Steps, poolStep)
	if err != nil {
		return result, fmt.Errorf("create pool: %w", err)
	}
	r.logStep(poolStep)

	balances, err := r.balances(ctx, address)
	if err != nil {
		return result, err
	}
	result.Balances = balances
	r.logger.Info().
		Uint64("coin_a", balances.CoinA).
		Uint64("coin_b", balances.CoinB).
		Msg("coin balances after pool")
	return result, nil
}

// Swap trades SwapAmount against the owner's pool and reports the reserves
// before and after.
func (r *Runner) Swap(ctx context.Context, owner rest.Signer) (SwapResult, error) {
	if owner == nil {
		return SwapResult{}, fmt.Errorf("owner is required")
	}
	address := owner.Address()
	pair := r.Pair(address)

	var result SwapResult
	before, err := r.swap.PoolInfo(ctx, address, pair)
	if err != nil {
		return result, err
	}
	result.Before = before
	r.logger.Info().
		Uint64("reserve_a", before.ReserveA).
		Uint64("reserve_b", before.ReserveB).
		Msg("pool before swap")

	hash, err := r.swap.Swap(ctx, owner, address, pair, r.config.SwapAmount, r.minimumReceived, r.config.Reverse)
	if err != nil {
		return result, err
	}
	result.TxHash = hash
	if _, err := r.chain.WaitForTransaction(ctx, hash); err != nil {
		return result, fmt.Errorf("swap: %w", err)
	}

	after, err := r.swap.PoolInfo(ctx, address, pair)
	if err != nil {
		return result, err
	}
	result.After = after
	r.logger.Info().
		Uint64("reserve_a", after.ReserveA).
		Uint64("reserve_b", after.ReserveB).
		Msg("pool after swap")

	balances, err := r.balances(ctx, address)
	if err != nil {
		return result, err
	}
	result.Balances = balances
	return result, nil
}

func (r *Runner) fund(ctx context.Context, address string) (StepResult, error) {
	if r.funder == nil {
		return StepResult{Skipped: true}, nil
	}
	store, err := r.chain.AccountBalance(ctx, address)
	if err != nil {
		return StepResult{}, err
	}
	balance, err := coin.StoreValue(store)
	if err != nil {
		return StepResult{}, err
	}
	if balance > 0 {
		return StepResult{Skipped: true}, nil
	}
	hashes, err := r.funder.FundAccount(ctx, address, r.config.FundAmount)
	return StepResult{TxHashes: hashes}, err
}

func (r *Runner) initialize(ctx context.Context, owner rest.Signer, symbol string) (StepResult, error) {
	initialized, err := r.coins.IsInitialized(ctx, owner.Address(), symbol)
	if err != nil || initialized {
		return StepResult{Skipped: initialized}, err
	}
	return r.await(ctx)(r.coins.Initialize(ctx, owner, symbol))
}

func (r *Runner) register(ctx context.Context, owner rest.Signer, symbol string) (StepResult, error) {
	registered, err := r.coins.IsRegistered(ctx, owner.Address(), owner.Address(), symbol)
	if err != nil || registered {
		return StepResult{Skipped: registered}, err
	}
	return r.await(ctx)(r.coins.Register(ctx, owner, owner.Address(), symbol))
}

func (r *Runner) mint(ctx context.Context, owner rest.Signer, symbol string) (StepResult, error) {
	balance, err := r.coins.Balance(ctx, owner.Address(), owner.Address(), symbol)
	if err != nil || balance > 0 {
		return StepResult{Skipped: balance > 0}, err
	}
	return r.await(ctx)(r.coins.Mint(ctx, owner, symbol, owner.Address(), r.config.MintAmount))
}

func (r *Runner) createPool(ctx context.Context, owner rest.Signer) (StepResult, error) {
	pair := r.Pair(owner.Address())
	exists, err := r.swap.PoolExists(ctx, owner.Address(), pair)
	if err != nil || exists {
		return StepResult{Skipped: exists}, err
	}
	return r.await(ctx)(r.swap.InitializePool(ctx, owner, pair, r.config.PoolAmountA, r.config.PoolAmountB))
}

func (r *Runner) await(ctx context.Context) func(string, error) (StepResult, error) {
	return func(hash string, err error) (StepResult, error) {
		if err != nil {
			return StepResult{}, err
		}
		result := StepResult{TxHashes: []string{hash}}
		if _, err := r.chain.WaitForTransaction(ctx, hash); err != nil {
			return result, err
		}
		return result, nil
	}
}

func (r *Runner) balances(ctx context.Context, address string) (Balances, error) {
	coinA, err := r.coins.Balance(ctx, address, address, r.config.SymbolA)
	if err != nil {
		return Balances{}, err
	}
	coinB, err := r.coins.Balance(ctx, address, address, r.config.SymbolB)
	if err != nil {
		return Balances{}, err
	}
	return Balances{CoinA: coinA, CoinB: coinB}, nil
}

func (r *Runner) logStep(result StepResult) {
	event := r.logger.Info().Str("step", result.Name)
	if result.Skipped {
		event.Msg("step already done, skipping")
		return
	}
	event.Strs("tx_hashes", result.TxHashes).Msg("step completed")
}
