package coin

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

// BuildInitializePayload builds the managed coin initialize call for a coin
// issued by owner.
func BuildInitializePayload(owner string, options InitializeOptions) (rest.Payload, error) {
	typePath, err := TypePath(owner, options.Symbol)
	if err != nil {
		return rest.Payload{}, err
	}

	symbol := strings.TrimSpace(options.Symbol)
	name := strings.TrimSpace(options.Name)
	if name == "" {
		name = symbol + " Coin"
	}
	decimals := DefaultDecimals
	if options.Decimals != nil {
		decimals = *options.Decimals
	}

	return rest.NewScriptFunctionPayload(
		InitializeFunction,
		[]string{typePath},
		hex.EncodeToString([]byte(name)),
		hex.EncodeToString([]byte(symbol)),
		strconv.FormatUint(uint64(decimals), 10),
		options.MonitorSupply,
	), nil
}

// BuildRegisterPayload builds the call that publishes a coin store for the
// coin issued by issuer in the sender's account.
func BuildRegisterPayload(issuer string, symbol string) (rest.Payload, error) {
	typePath, err := TypePath(issuer, symbol)
	if err != nil {
		return rest.Payload{}, err
	}
	return rest.NewScriptFunctionPayload(RegisterFunction, []string{typePath}), nil
}

// BuildMintPayload builds the call minting amount of the owner's coin to
// recipient. The recipient must already be registered.
func BuildMintPayload(owner string, symbol string, recipient string, amount uint64) (rest.Payload, error) {
	typePath, err := TypePath(owner, symbol)
	if err != nil {
		return rest.Payload{}, err
	}
	normalizedRecipient, err := account.NormalizeAddress(recipient)
	if err != nil {
		return rest.Payload{}, err
	}
	return rest.NewScriptFunctionPayload(
		MintFunction,
		[]string{typePath},
		normalizedRecipient,
		strconv.FormatUint(amount, 10),
	), nil
}
