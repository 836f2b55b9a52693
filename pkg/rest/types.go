package rest

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	ScriptFunctionPayloadType = "script_function_payload"
	Ed25519SignatureType      = "ed25519_signature"
	PendingTransactionType    = "pending_transaction"
	UserTransactionType       = "user_transaction"
)

// GasCoinStoreType is the resource holding the gas coin balance of an account.
const GasCoinStoreType = "0x1::coin::CoinStore<0x1::test_coin::TestCoin>"

// Signer is an account able to authorize transactions.
type Signer interface {
	Address() string
	PublicKeyHex() string
	Sign(message []byte) ([]byte, error)
}

type Payload struct {
	Type          string   `json:"type"`
	Function      string   `json:"function"`
	TypeArguments []string `json:"type_arguments"`
	Arguments     []any    `json:"arguments"`
}

// NewScriptFunctionPayload builds a script function payload. Nil argument
// lists are replaced with empty ones so they encode as [].
func NewScriptFunctionPayload(function string, typeArguments []string, arguments ...any) Payload {
	if typeArguments == nil {
		typeArguments = []string{}
	}
	if arguments == nil {
		arguments = []any{}
	}
	return Payload{
		Type:          ScriptFunctionPayloadType,
		Function:      function,
		TypeArguments: typeArguments,
		Arguments:     arguments,
	}
}

type TransactionSignature struct {
	Type      string `json:"type"`
	PublicKey string `json:"public_key"`
	Signature string `json:"signature"`
}

type TransactionRequest struct {
	Sender                  string                `json:"sender"`
	SequenceNumber          string                `json:"sequence_number"`
	MaxGasAmount            string                `json:"max_gas_amount"`
	GasUnitPrice            string                `json:"gas_unit_price"`
	GasCurrencyCode         string                `json:"gas_currency_code"`
	ExpirationTimestampSecs string                `json:"expiration_timestamp_secs"`
	Payload                 Payload               `json:"payload"`
	Signature               *TransactionSignature `json:"signature,omitempty"`
}

type PendingTransaction struct {
	Type           string `json:"type"`
	Hash           string `json:"hash"`
	Sender         string `json:"sender"`
	SequenceNumber string `json:"sequence_number"`
}

type Transaction struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Version  string `json:"version"`
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status"`
}

// IsPending reports whether the node has not committed the transaction yet.
func (t Transaction) IsPending() bool {
	return t.Type == PendingTransactionType
}

type AccountInfo struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// Resource is an on-chain record stored under an account.
type Resource struct {
	// e.g. "0x1::coin::CoinStore<0x1::test_coin::TestCoin>"
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Lookup walks nested objects of the resource data.
func (r *Resource) Lookup(path ...string) (any, bool) {
	if r == nil {
		return nil, false
	}
	var current any = r.Data
	for _, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = object[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Uint64 reads an unsigned integer field, e.g. Uint64("coin", "value").
func (r *Resource) Uint64(path ...string) (uint64, error) {
	value, ok := r.Lookup(path...)
	if !ok {
		return 0, fmt.Errorf("resource field %s not found", strings.Join(path, "."))
	}
	parsed, err := ParseUint64(value)
	if err != nil {
		return 0, fmt.Errorf("resource field %s: %w", strings.Join(path, "."), err)
	}
	return parsed, nil
}

// ParseUint64 converts a decoded JSON value holding a u64 into uint64. The
// node encodes u64 values as decimal strings.
func ParseUint64(value any) (uint64, error) {
	switch typed := value.(type) {
	case string:
		return strconv.ParseUint(strings.TrimSpace(typed), 10, 64)
	case json.Number:
		return strconv.ParseUint(typed.String(), 10, 64)
	case float64:
		if typed < 0 || typed != math.Trunc(typed) || typed >= math.MaxUint64 {
			return 0, fmt.Errorf("value %v is not an unsigned integer", typed)
		}
		return uint64(typed), nil
	default:
		return 0, fmt.Errorf("unsupported value type %T", value)
	}
}
