package coinswap

import (
	"strconv"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

// BuildInitializePayload builds the call creating the pool at the module
// address, seeded with amountA and amountB taken from the sender.
func BuildInitializePayload(moduleAddress string, pair Pair, amountA uint64, amountB uint64) (rest.Payload, error) {
	function, err := FunctionName(moduleAddress, "initialize")
	if err != nil {
		return rest.Payload{}, err
	}
	typeArgs, err := pair.typeArguments(true)
	if err != nil {
		return rest.Payload{}, err
	}
	return rest.NewScriptFunctionPayload(
		function,
		typeArgs,
		strconv.FormatUint(amountA, 10),
		strconv.FormatUint(amountB, 10),
	), nil
}

// BuildSwapPayload builds the swap call. With reverse unset amountOffered is
// paid in coin A and at least minimumReceived of coin B is expected back.
func BuildSwapPayload(
	moduleAddress string,
	trader string,
	pair Pair,
	amountOffered uint64,
	minimumReceived uint64,
	reverse bool,
) (rest.Payload, error) {
	function, err := FunctionName(moduleAddress, "swap")
	if err != nil {
		return rest.Payload{}, err
	}
	typeArgs, err := pair.typeArguments(false)
	if err != nil {
		return rest.Payload{}, err
	}
	normalizedTrader, err := account.NormalizeAddress(trader)
	if err != nil {
		return rest.Payload{}, err
	}
	return rest.NewScriptFunctionPayload(
		function,
		typeArgs,
		normalizedTrader,
		strconv.FormatUint(amountOffered, 10),
		strconv.FormatUint(minimumReceived, 10),
		reverse,
	), nil
}
