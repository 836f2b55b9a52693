package provision_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/move-examples/coinswap-sdk-go/internal/testnode"
	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/coinswap"
	"github.com/move-examples/coinswap-sdk-go/pkg/faucet"
	"github.com/move-examples/coinswap-sdk-go/pkg/provision"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

type environment struct {
	node   *testnode.Node
	rest   *rest.Client
	faucet *faucet.Client
	owner  *account.Account
}

func newEnvironment(t *testing.T) environment {
	t.Helper()
	node := testnode.New()
	node.SetPendingPolls(1)
	server := httptest.NewServer(node.Handler())
	t.Cleanup(server.Close)

	restClient, err := rest.NewClient(rest.Config{BaseURL: server.URL, PollInterval: time.Millisecond})
	require.NoError(t, err)
	faucetClient, err := faucet.NewClient(faucet.Config{BaseURL: server.URL}, restClient)
	require.NoError(t, err)
	owner, err := account.Generate()
	require.NoError(t, err)

	return environment{node: node, rest: restClient, faucet: faucetClient, owner: owner}
}

func uint64Ptr(value uint64) *uint64 {
	return &value
}

func stepNames(steps []provision.StepResult) []string {
	names := make([]string, 0, len(steps))
	for _, step := range steps {
		names = append(names, step.Name)
	}
	return names
}

func TestRunFromScratch(t *testing.T) {
	env := newEnvironment(t)
	runner, err := provision.NewRunner(env.rest, env.faucet, provision.Config{})
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), env.owner)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"fund",
		"initialize A", "initialize B",
		"register A", "register B",
		"mint A", "mint B",
		"create pool",
	}, stepNames(result.Provision.Steps))
	for _, step := range result.Provision.Steps {
		assert.False(t, step.Skipped, step.Name)
		assert.Len(t, step.TxHashes, 1, step.Name)
	}
	// seven provisioning transactions and the swap
	assert.Len(t, env.node.Submitted(), 8)
	assert.Equal(t, 1, env.node.FundRequests())

	assert.Equal(t, provision.Balances{CoinA: provision.DefaultMintAmount, CoinB: provision.DefaultMintAmount}, result.Provision.Minted)
	assert.Equal(t, provision.Balances{
		CoinA: provision.DefaultMintAmount - provision.DefaultPoolAmountA,
		CoinB: provision.DefaultMintAmount - provision.DefaultPoolAmountB,
	}, result.Provision.Balances)
	assert.Equal(t, coinswap.PoolInfo{ReserveA: provision.DefaultPoolAmountA, ReserveB: provision.DefaultPoolAmountB}, result.Swap.Before)

	// 100e6 * 10e6 / (100e6 + 10e6)
	expectedOut := uint64(9_090_909)
	assert.Equal(t, coinswap.PoolInfo{
		ReserveA: provision.DefaultPoolAmountA + provision.DefaultSwapAmount,
		ReserveB: provision.DefaultPoolAmountB - expectedOut,
	}, result.Swap.After)
	assert.Equal(t, provision.DefaultMintAmount-provision.DefaultPoolAmountA-provision.DefaultSwapAmount, result.Swap.Balances.CoinA)
	assert.Equal(t, provision.DefaultMintAmount-provision.DefaultPoolAmountB+expectedOut, result.Swap.Balances.CoinB)
}

func TestProvisionIsIdempotent(t *testing.T) {
	env := newEnvironment(t)
	runner, err := provision.NewRunner(env.rest, env.faucet, provision.Config{})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := runner.Provision(ctx, env.owner)
	require.NoError(t, err)
	assert.Equal(t, 8, first.Submitted())
	submitted := len(env.node.Submitted())
	funded := env.node.FundRequests()

	second, err := runner.Provision(ctx, env.owner)
	require.NoError(t, err)
	assert.Zero(t, second.Submitted())
	for _, step := range second.Steps {
		assert.True(t, step.Skipped, step.Name)
	}
	assert.Equal(t, submitted, len(env.node.Submitted()))
	assert.Equal(t, funded, env.node.FundRequests())
	assert.Equal(t, first.Balances, second.Balances)
}

func TestProvisionResumesAfterFailure(t *testing.T) {
	env := newEnvironment(t)
	runner, err := provision.NewRunner(env.rest, env.faucet, provision.Config{})
	require.NoError(t, err)
	ctx := context.Background()

	env.node.FailFunction("0x1::managed_coin::mint", "Move abort: ENO_CAPABILITIES")
	result, err := runner.Provision(ctx, env.owner)
	require.Error(t, err)
	assert.ErrorIs(t, err, rest.ErrTransactionFailed)
	last := result.Steps[len(result.Steps)-1]
	assert.Equal(t, "mint A", last.Name)
	assert.Len(t, last.TxHashes, 1)

	env.node.FailFunction("0x1::managed_coin::mint", "")
	before := len(env.node.Submitted())
	result, err = runner.Provision(ctx, env.owner)
	require.NoError(t, err)
	// mint A, mint B and the pool remain.
	assert.Equal(t, 3, result.Submitted())
	assert.Equal(t, before+3, len(env.node.Submitted()))
	assert.Equal(t, 1, env.node.FundRequests())
}

func TestRunWithoutFunder(t *testing.T) {
	env := newEnvironment(t)
	env.node.Fund(env.owner.Address(), 1_000)
	runner, err := provision.NewRunner(env.rest, nil, provision.Config{
		SymbolA:         "X",
		SymbolB:         "Y",
		MintAmount:      1_000,
		PoolAmountA:     100,
		PoolAmountB:     400,
		SwapAmount:      100,
		MinimumReceived: uint64Ptr(1),
		Reverse:         true,
	})
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), env.owner)
	require.NoError(t, err)
	assert.True(t, result.Provision.Steps[0].Skipped)
	assert.Zero(t, env.node.FundRequests())

	pair := runner.Pair(env.owner.Address())
	assert.Equal(t, "X", pair.SymbolA)
	assert.Equal(t, coinswap.PoolInfo{ReserveA: 100, ReserveB: 400}, result.Swap.Before)
	// reverse: 100 B in, 100 * 100 / (400 + 100) A out
	assert.Equal(t, coinswap.PoolInfo{ReserveA: 80, ReserveB: 500}, result.Swap.After)
}

func TestSwapRequiresPool(t *testing.T) {
	env := newEnvironment(t)
	runner, err := provision.NewRunner(env.rest, env.faucet, provision.Config{})
	require.NoError(t, err)

	_, err = runner.Swap(context.Background(), env.owner)
	assert.ErrorIs(t, err, coinswap.ErrPoolNotFound)
}

func TestNewRunnerValidation(t *testing.T) {
	_, err := provision.NewRunner(nil, nil, provision.Config{})
	require.Error(t, err)

	env := newEnvironment(t)
	_, err = provision.NewRunner(env.rest, nil, provision.Config{SymbolA: "A", SymbolB: "A"})
	require.Error(t, err)
}

func TestProvisionReportsBalancesAfterPoolDeposit(t *testing.T) {
	env := newEnvironment(t)
	runner, err := provision.NewRunner(env.rest, env.faucet, provision.Config{
		MintAmount:  1_000,
		PoolAmountA: 300,
		PoolAmountB: 200,
	})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := runner.Provision(ctx, env.owner)
	require.NoError(t, err)
	assert.Equal(t, provision.Balances{CoinA: 1_000, CoinB: 1_000}, first.Minted)
	assert.Equal(t, provision.Balances{CoinA: 700, CoinB: 800}, first.Balances)

	second, err := runner.Provision(ctx, env.owner)
	require.NoError(t, err)
	assert.Equal(t, provision.Balances{CoinA: 700, CoinB: 800}, second.Minted)
	assert.Equal(t, first.Balances, second.Balances)
}

func TestSwapWithoutSlippageFloor(t *testing.T) {
	env := newEnvironment(t)
	env.node.Fund(env.owner.Address(), 1_000)
	runner, err := provision.NewRunner(env.rest, nil, provision.Config{
		MintAmount:      1_000,
		PoolAmountA:     1_000,
		PoolAmountB:     1,
		SwapAmount:      1,
		MinimumReceived: uint64Ptr(0),
	})
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), env.owner)
	require.NoError(t, err)
	require.Len(t, env.node.Submitted(), 8)
	swap := env.node.Submitted()[7]
	assert.Equal(t, "0", swap.Payload.Arguments[2])
	// 1 * 1 / (1000 + 1) rounds down to zero
	assert.Equal(t, coinswap.PoolInfo{ReserveA: 1_001, ReserveB: 1}, result.Swap.After)
}

func TestSwapUsesDefaultFloorWhenUnset(t *testing.T) {
	env := newEnvironment(t)
	env.node.Fund(env.owner.Address(), 1_000)
	runner, err := provision.NewRunner(env.rest, nil, provision.Config{
		MintAmount:  1_000,
		PoolAmountA: 100,
		PoolAmountB: 100,
		SwapAmount:  10,
	})
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), env.owner)
	assert.ErrorIs(t, err, rest.ErrTransactionFailed)
	swap := env.node.Submitted()[len(env.node.Submitted())-1]
	assert.Equal(t, "1000000", swap.Payload.Arguments[2])
}
