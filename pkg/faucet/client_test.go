package faucet_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/move-examples/coinswap-sdk-go/internal/testnode"
	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/faucet"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
	"github.com/move-examples/coinswap-sdk-go/pkg/shared"
)

type recordingWaiter struct {
	hashes []string
	err    error
}

func (w *recordingWaiter) WaitForTransaction(_ context.Context, hash string) (*rest.Transaction, error) {
	w.hashes = append(w.hashes, hash)
	if w.err != nil {
		return nil, w.err
	}
	return &rest.Transaction{Hash: hash, Success: true}, nil
}

func TestNewClientDefaults(t *testing.T) {
	client, err := faucet.NewClient(faucet.Config{}, &recordingWaiter{})
	require.NoError(t, err)
	assert.Equal(t, shared.LocalFaucetURL, client.BaseURL())

	client, err = faucet.NewClient(faucet.Config{Network: "devnet"}, &recordingWaiter{})
	require.NoError(t, err)
	assert.Equal(t, shared.DevnetFaucetURL, client.BaseURL())
}

func TestNewClientValidation(t *testing.T) {
	_, err := faucet.NewClient(faucet.Config{}, nil)
	require.Error(t, err)

	_, err = faucet.NewClient(faucet.Config{BaseURL: "ftp://faucet"}, &recordingWaiter{})
	require.Error(t, err)

	_, err = faucet.NewClient(faucet.Config{Network: "mainnet"}, &recordingWaiter{})
	require.Error(t, err)
}

func TestFundAccountAgainstNode(t *testing.T) {
	node := testnode.New()
	node.SetPendingPolls(1)
	server := httptest.NewServer(node.Handler())
	defer server.Close()

	restClient, err := rest.NewClient(rest.Config{BaseURL: server.URL, PollInterval: time.Millisecond})
	require.NoError(t, err)
	client, err := faucet.NewClient(faucet.Config{BaseURL: server.URL}, restClient)
	require.NoError(t, err)

	acct, err := account.Generate()
	require.NoError(t, err)

	hashes, err := client.FundAccount(context.Background(), acct.Address(), 5_000)
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	assert.Equal(t, 1, node.FundRequests())

	balance, err := restClient.AccountBalance(context.Background(), acct.Address())
	require.NoError(t, err)
	require.NotNil(t, balance)
	value, err := balance.Uint64("coin", "value")
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000), value)
}

func TestFundAccountSendsUnprefixedAuthKey(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/mint" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		query = map[string]string{
			"amount":   r.URL.Query().Get("amount"),
			"auth_key": r.URL.Query().Get("auth_key"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["0xaa","0xbb"]`))
	}))
	defer server.Close()

	waiter := &recordingWaiter{}
	client, err := faucet.NewClient(faucet.Config{BaseURL: server.URL}, waiter)
	require.NoError(t, err)

	hashes, err := client.FundAccount(context.Background(), "0xABC", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaa", "0xbb"}, hashes)
	assert.Equal(t, []string{"0xaa", "0xbb"}, waiter.hashes)
	assert.Equal(t, "abc", query["auth_key"])
	assert.Equal(t, "10000000", query["amount"])
}

func TestFundAccountWaitFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["0x01","0x02"]`))
	}))
	defer server.Close()

	waiter := &recordingWaiter{err: rest.ErrWaitTimeout}
	client, err := faucet.NewClient(faucet.Config{BaseURL: server.URL}, waiter)
	require.NoError(t, err)

	_, err = client.FundAccount(context.Background(), "0x1", 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, rest.ErrWaitTimeout))
	assert.Equal(t, []string{"0x01"}, waiter.hashes)
}

func TestFundAccountErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom"},
		{name: "empty list", status: http.StatusOK, body: "[]"},
		{name: "not json", status: http.StatusOK, body: "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client, err := faucet.NewClient(faucet.Config{BaseURL: server.URL}, &recordingWaiter{})
			require.NoError(t, err)

			_, err = client.FundAccount(context.Background(), "0x1", 10)
			require.Error(t, err)
			if tc.status >= 300 {
				var requestErr *rest.RequestError
				require.ErrorAs(t, err, &requestErr)
				assert.Equal(t, tc.status, requestErr.Status)
				assert.True(t, strings.Contains(requestErr.Error(), "boom"))
			}
		})
	}
}

func TestFundAccountRejectsInvalidAddress(t *testing.T) {
	client, err := faucet.NewClient(faucet.Config{BaseURL: "http://127.0.0.1:1"}, &recordingWaiter{})
	require.NoError(t, err)

	_, err = client.FundAccount(context.Background(), "not-hex", 1)
	require.Error(t, err)
}
