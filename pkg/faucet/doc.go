// Package faucet funds accounts with gas coins through the faucet service
// and waits for the resulting funding transactions to commit.
package faucet
