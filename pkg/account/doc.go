// Package account implements the Ed25519 signing account used to submit
// transactions: loading from a seed, address and authentication key
// derivation, and message signing.
//
// An account address is the hex encoded SHA3-256 digest of the raw public
// key followed by the single-signature scheme byte 0x00. The address doubles
// as the authentication key.
package account
