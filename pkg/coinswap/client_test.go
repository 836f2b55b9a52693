package coinswap_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/move-examples/coinswap-sdk-go/internal/testnode"
	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/coin"
	"github.com/move-examples/coinswap-sdk-go/pkg/coinswap"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

type fixture struct {
	node    *testnode.Node
	rest    *rest.Client
	coins   *coin.Client
	swap    *coinswap.Client
	owner   *account.Account
	pair    coinswap.Pair
	ctx     context.Context
	waitFor func(hash string, err error)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	node := testnode.New()
	server := httptest.NewServer(node.Handler())
	t.Cleanup(server.Close)

	restClient, err := rest.NewClient(rest.Config{BaseURL: server.URL, PollInterval: time.Millisecond})
	require.NoError(t, err)
	coins, err := coin.NewClient(coin.ClientConfig{Chain: restClient})
	require.NoError(t, err)
	swap, err := coinswap.NewClient(coinswap.ClientConfig{Chain: restClient})
	require.NoError(t, err)
	owner, err := account.Generate()
	require.NoError(t, err)
	node.Fund(owner.Address(), 1_000_000)

	f := &fixture{
		node:  node,
		rest:  restClient,
		coins: coins,
		swap:  swap,
		owner: owner,
		pair:  coinswap.NewPair(owner.Address()),
		ctx:   context.Background(),
	}
	f.waitFor = func(hash string, err error) {
		t.Helper()
		require.NoError(t, err)
		_, err = restClient.WaitForTransaction(f.ctx, hash)
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) issue(symbols ...string) {
	for _, symbol := range symbols {
		f.waitFor(f.coins.Initialize(f.ctx, f.owner, symbol))
		f.waitFor(f.coins.Register(f.ctx, f.owner, f.owner.Address(), symbol))
		f.waitFor(f.coins.Mint(f.ctx, f.owner, symbol, f.owner.Address(), 1_000))
	}
}

func TestPoolLifecycle(t *testing.T) {
	f := newFixture(t)
	f.issue("A", "B")

	exists, err := f.swap.PoolExists(f.ctx, f.owner.Address(), f.pair)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.swap.PoolInfo(f.ctx, f.owner.Address(), f.pair)
	assert.ErrorIs(t, err, coinswap.ErrPoolNotFound)

	f.waitFor(f.swap.InitializePool(f.ctx, f.owner, f.pair, 100, 100))

	info, err := f.swap.PoolInfo(f.ctx, f.owner.Address(), f.pair)
	require.NoError(t, err)
	assert.Equal(t, coinswap.PoolInfo{ReserveA: 100, ReserveB: 100}, info)

	f.waitFor(f.swap.Swap(f.ctx, f.owner, f.owner.Address(), f.pair, 10, 1, false))

	info, err = f.swap.PoolInfo(f.ctx, f.owner.Address(), f.pair)
	require.NoError(t, err)
	assert.Equal(t, coinswap.PoolInfo{ReserveA: 110, ReserveB: 91}, info)

	balanceA, err := f.coins.Balance(f.ctx, f.owner.Address(), f.owner.Address(), "A")
	require.NoError(t, err)
	balanceB, err := f.coins.Balance(f.ctx, f.owner.Address(), f.owner.Address(), "B")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000-100-10), balanceA)
	assert.Equal(t, uint64(1_000-100+9), balanceB)

	f.waitFor(f.swap.Swap(f.ctx, f.owner, f.owner.Address(), f.pair, 9, 1, true))
	info, err = f.swap.PoolInfo(f.ctx, f.owner.Address(), f.pair)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), info.ReserveB)
	assert.Equal(t, uint64(110-9), info.ReserveA)
}

func TestSwapBelowMinimumFailsOnChain(t *testing.T) {
	f := newFixture(t)
	f.issue("A", "B")
	f.waitFor(f.swap.InitializePool(f.ctx, f.owner, f.pair, 100, 100))

	hash, err := f.swap.Swap(f.ctx, f.owner, f.owner.Address(), f.pair, 10, 50, false)
	require.NoError(t, err)
	_, err = f.rest.WaitForTransaction(f.ctx, hash)
	assert.ErrorIs(t, err, rest.ErrTransactionFailed)

	info, err := f.swap.PoolInfo(f.ctx, f.owner.Address(), f.pair)
	require.NoError(t, err)
	assert.Equal(t, coinswap.PoolInfo{ReserveA: 100, ReserveB: 100}, info)
}

func TestClientRequiresSigner(t *testing.T) {
	f := newFixture(t)
	_, err := f.swap.InitializePool(f.ctx, nil, f.pair, 1, 1)
	require.Error(t, err)
	_, err = f.swap.Swap(f.ctx, nil, f.owner.Address(), f.pair, 1, 1, false)
	require.Error(t, err)
	_, err = coinswap.NewClient(coinswap.ClientConfig{})
	require.Error(t, err)
}
