// Package coinswap drives a two-coin CoinSwap pool: it builds the pool
// initialize and swap payloads and reads pool reserves.
package coinswap
