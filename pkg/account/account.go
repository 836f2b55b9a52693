package account

import (
	"encoding/hex"
	"fmt"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"golang.org/x/crypto/sha3"

	"github.com/move-examples/coinswap-sdk-go/pkg/shared"
)

// Ed25519Scheme is the authentication key scheme byte of single Ed25519 keys.
const Ed25519Scheme byte = 0x00

type Account struct {
	privateKey hedera.PrivateKey
	publicKey  []byte
	address    string
}

// FromSeed creates the account for a raw 32-byte Ed25519 seed.
func FromSeed(seed []byte) (*Account, error) {
	if len(seed) != shared.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", shared.SeedSize, len(seed))
	}
	privateKey, err := hedera.PrivateKeyFromBytesEd25519(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return FromPrivateKey(privateKey)
}

// FromHex creates the account for a hex (or DER) encoded seed.
func FromHex(seed string) (*Account, error) {
	privateKey, err := shared.ParseSeed(seed)
	if err != nil {
		return nil, err
	}
	return FromPrivateKey(privateKey)
}

// FromPrivateKey wraps an Ed25519 private key.
func FromPrivateKey(privateKey hedera.PrivateKey) (*Account, error) {
	publicKey := privateKey.PublicKey().BytesRaw()
	if len(publicKey) != 32 {
		return nil, fmt.Errorf("account key must be Ed25519")
	}

	return &Account{
		privateKey: privateKey,
		publicKey:  publicKey,
		address:    DeriveAddress(publicKey),
	}, nil
}

// Generate creates an account with a random seed.
func Generate() (*Account, error) {
	privateKey, err := hedera.PrivateKeyGenerateEd25519()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return FromPrivateKey(privateKey)
}

// DeriveAddress computes the address (and authentication key) of a raw
// Ed25519 public key.
func DeriveAddress(publicKey []byte) string {
	hasher := sha3.New256()
	hasher.Write(publicKey)
	hasher.Write([]byte{Ed25519Scheme})
	return "0x" + hex.EncodeToString(hasher.Sum(nil))
}

func (a *Account) Address() string {
	return a.address
}

// AuthKey returns the authentication key, which equals the address.
func (a *Account) AuthKey() string {
	return a.address
}

// PublicKeyHex returns the 0x-prefixed raw public key.
func (a *Account) PublicKeyHex() string {
	return "0x" + hex.EncodeToString(a.publicKey)
}

// SeedHex returns the hex encoded seed, suitable for a SEED variable.
func (a *Account) SeedHex() string {
	return hex.EncodeToString(a.privateKey.BytesRaw())
}

func (a *Account) Sign(message []byte) ([]byte, error) {
	signature := a.privateKey.Sign(message)
	if len(signature) == 0 {
		return nil, fmt.Errorf("failed to sign message")
	}
	return signature, nil
}
