// Package shared provides common utilities used across the coin-swap SDK.
// It includes network presets, account seed loading from environment
// variables or .env files, seed parsing, and logger construction.
//
// # Environment Variables
//
// The seed of the signing account is read from SEED, ACCOUNT_SEED or
// PRIVATE_KEY. Network scoped variants (DEVNET_SEED, LOCAL_SEED) take
// precedence when the matching NETWORK is selected. NODE_URL and FAUCET_URL
// override the preset endpoints of the selected network.
package shared
