// The CoinSwap SDK for Go issues managed coins on a Move devnet and drives a
// two-coin CoinSwap pool over the node REST API.
//
// # Packages
//
//   - account: Ed25519 accounts, address derivation and signing
//   - rest: node REST client (resources, transactions, waiting)
//   - faucet: gas funding through the faucet service
//   - coin: managed coin initialize, register, mint and balances
//   - coinswap: pool creation, swaps and pool reserves
//   - provision: the resumable fund, issue, pool and swap sequence
//   - shared: network presets, .env loading and logging
//
// # Examples
//
// examples/coin-swap runs the whole sequence against a local node or devnet:
//
//	SEED=0x... go run ./examples/coin-swap --network devnet
//
// examples/coin-build-payloads prints the script function payloads without a
// network, and examples/pool-info reads balances and pool reserves.
package coinswap_sdk_go
