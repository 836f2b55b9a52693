package testnode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

const (
	initializeCoinFunction = "0x1::managed_coin::initialize"
	registerCoinFunction   = "0x1::coins::register"
	mintCoinFunction       = "0x1::managed_coin::mint"
	swapModuleName         = "CoinSwap"
)

func coinInfoType(coinType string) string {
	return "0x1::coin::CoinInfo<" + coinType + ">"
}

func coinStoreType(coinType string) string {
	return "0x1::coin::CoinStore<" + coinType + ">"
}

func poolStoreType(moduleAddress string, coinA string, coinB string) string {
	return fmt.Sprintf("%s::%s::PoolStore<%s, %s>", moduleAddress, swapModuleName, coinA, coinB)
}

func coinStore(value uint64) map[string]any {
	return map[string]any{"coin": map[string]any{"value": strconv.FormatUint(value, 10)}}
}

func coinValue(store map[string]any) uint64 {
	return nestedValue(store, "coin")
}

func setCoinValue(store map[string]any, value uint64) {
	store["coin"] = map[string]any{"value": strconv.FormatUint(value, 10)}
}

func nestedValue(data map[string]any, key string) uint64 {
	object, _ := data[key].(map[string]any)
	value, err := rest.ParseUint64(object["value"])
	if err != nil {
		return 0
	}
	return value
}

func (n *Node) applyLocked(request rest.TransactionRequest) error {
	payload := request.Payload
	if payload.Type != rest.ScriptFunctionPayloadType {
		return fmt.Errorf("unsupported payload type %q", payload.Type)
	}
	sender := n.lookupLocked(request.Sender)

	switch {
	case payload.Function == initializeCoinFunction:
		return n.initializeCoin(sender, request.Sender, payload)
	case payload.Function == registerCoinFunction:
		return n.registerCoin(sender, payload)
	case payload.Function == mintCoinFunction:
		return n.mintCoin(request.Sender, payload)
	case strings.HasSuffix(payload.Function, "::"+swapModuleName+"::initialize"):
		return n.initializePool(request.Sender, payload)
	case strings.HasSuffix(payload.Function, "::"+swapModuleName+"::swap"):
		return n.swap(request.Sender, payload)
	default:
		return fmt.Errorf("FUNCTION_RESOLUTION_FAILURE: %s", payload.Function)
	}
}

func (n *Node) initializeCoin(sender *nodeAccount, senderAddress string, payload rest.Payload) error {
	if len(payload.TypeArguments) != 1 || len(payload.Arguments) != 4 {
		return fmt.Errorf("NUMBER_OF_ARGUMENTS_MISMATCH")
	}
	coinType := payload.TypeArguments[0]
	issuer, err := typeAddress(coinType)
	if err != nil {
		return err
	}
	normalizedSender, _ := account.NormalizeAddress(senderAddress)
	if issuer != normalizedSender {
		return fmt.Errorf("ECOIN_ADDRESS_MISMATCH")
	}
	if _, exists := sender.resources[coinInfoType(coinType)]; exists {
		return fmt.Errorf("ECOIN_INFO_ALREADY_PUBLISHED")
	}

	sender.resources[coinInfoType(coinType)] = map[string]any{
		"name":     payload.Arguments[0],
		"symbol":   payload.Arguments[1],
		"decimals": payload.Arguments[2],
		"supply":   map[string]any{"vec": []any{}},
	}
	return nil
}

func (n *Node) registerCoin(sender *nodeAccount, payload rest.Payload) error {
	if len(payload.TypeArguments) != 1 || len(payload.Arguments) != 0 {
		return fmt.Errorf("NUMBER_OF_ARGUMENTS_MISMATCH")
	}
	storeType := coinStoreType(payload.TypeArguments[0])
	if _, exists := sender.resources[storeType]; exists {
		return fmt.Errorf("ECOIN_STORE_ALREADY_PUBLISHED")
	}
	sender.resources[storeType] = coinStore(0)
	return nil
}

func (n *Node) mintCoin(senderAddress string, payload rest.Payload) error {
	if len(payload.TypeArguments) != 1 || len(payload.Arguments) != 2 {
		return fmt.Errorf("NUMBER_OF_ARGUMENTS_MISMATCH")
	}
	coinType := payload.TypeArguments[0]
	issuer, err := typeAddress(coinType)
	if err != nil {
		return err
	}
	normalizedSender, _ := account.NormalizeAddress(senderAddress)
	if issuer != normalizedSender {
		return fmt.Errorf("ENO_CAPABILITIES")
	}
	if _, exists := n.lookupLocked(issuer).resources[coinInfoType(coinType)]; !exists {
		return fmt.Errorf("ECOIN_INFO_NOT_PUBLISHED")
	}

	recipientAddress, _ := payload.Arguments[0].(string)
	recipient := n.lookupLocked(recipientAddress)
	if recipient == nil {
		return fmt.Errorf("EACCOUNT_NOT_FOUND")
	}
	store, exists := recipient.resources[coinStoreType(coinType)]
	if !exists {
		return fmt.Errorf("ECOIN_STORE_NOT_PUBLISHED")
	}
	amount, err := argumentUint64(payload.Arguments[1])
	if err != nil {
		return err
	}
	setCoinValue(store, coinValue(store)+amount)
	return nil
}

func (n *Node) initializePool(senderAddress string, payload rest.Payload) error {
	if len(payload.TypeArguments) != 3 || len(payload.Arguments) != 2 {
		return fmt.Errorf("NUMBER_OF_ARGUMENTS_MISMATCH")
	}
	moduleAddress, err := functionAddress(payload.Function)
	if err != nil {
		return err
	}
	normalizedSender, _ := account.NormalizeAddress(senderAddress)
	if moduleAddress != normalizedSender {
		return fmt.Errorf("EINVALID_OWNER")
	}

	coinA, coinB := payload.TypeArguments[0], payload.TypeArguments[1]
	sender := n.lookupLocked(normalizedSender)
	poolType := poolStoreType(moduleAddress, coinA, coinB)
	if _, exists := sender.resources[poolType]; exists {
		return fmt.Errorf("EPOOL_ALREADY_EXISTS")
	}

	amountA, err := argumentUint64(payload.Arguments[0])
	if err != nil {
		return err
	}
	amountB, err := argumentUint64(payload.Arguments[1])
	if err != nil {
		return err
	}
	if err := debit(sender, coinA, amountA); err != nil {
		return err
	}
	if err := debit(sender, coinB, amountB); err != nil {
		credit(sender, coinA, amountA)
		return err
	}

	sender.resources[poolType] = map[string]any{
		"coin_a": map[string]any{"value": strconv.FormatUint(amountA, 10)},
		"coin_b": map[string]any{"value": strconv.FormatUint(amountB, 10)},
	}
	return nil
}

func (n *Node) swap(senderAddress string, payload rest.Payload) error {
	if len(payload.TypeArguments) != 2 || len(payload.Arguments) != 4 {
		return fmt.Errorf("NUMBER_OF_ARGUMENTS_MISMATCH")
	}
	moduleAddress, err := functionAddress(payload.Function)
	if err != nil {
		return err
	}
	coinA, coinB := payload.TypeArguments[0], payload.TypeArguments[1]
	owner := n.lookupLocked(moduleAddress)
	if owner == nil {
		return fmt.Errorf("LINKER_ERROR")
	}
	pool, exists := owner.resources[poolStoreType(moduleAddress, coinA, coinB)]
	if !exists {
		return fmt.Errorf("EPOOL_NOT_FOUND")
	}

	traderAddress, _ := payload.Arguments[0].(string)
	normalizedTrader, err := account.NormalizeAddress(traderAddress)
	if err != nil {
		return err
	}
	normalizedSender, _ := account.NormalizeAddress(senderAddress)
	if normalizedTrader != normalizedSender {
		return fmt.Errorf("EINVALID_TRADER")
	}
	amountIn, err := argumentUint64(payload.Arguments[1])
	if err != nil {
		return err
	}
	minimumOut, err := argumentUint64(payload.Arguments[2])
	if err != nil {
		return err
	}
	reverse, ok := payload.Arguments[3].(bool)
	if !ok {
		return fmt.Errorf("EINVALID_DIRECTION")
	}

	inKey, outKey, coinIn, coinOut := "coin_a", "coin_b", coinA, coinB
	if reverse {
		inKey, outKey, coinIn, coinOut = outKey, inKey, coinB, coinA
	}
	reserveIn, reserveOut := nestedValue(pool, inKey), nestedValue(pool, outKey)
	if reserveIn+amountIn == 0 {
		return fmt.Errorf("EINSUFFICIENT_LIQUIDITY")
	}
	amountOut := reserveOut * amountIn / (reserveIn + amountIn)
	if amountOut < minimumOut {
		return fmt.Errorf("EINSUFFICIENT_OUTPUT_AMOUNT")
	}

	trader := n.lookupLocked(normalizedTrader)
	if _, exists := trader.resources[coinStoreType(coinOut)]; !exists {
		return fmt.Errorf("ECOIN_STORE_NOT_PUBLISHED")
	}
	if err := debit(trader, coinIn, amountIn); err != nil {
		return err
	}
	credit(trader, coinOut, amountOut)

	pool[inKey] = map[string]any{"value": strconv.FormatUint(reserveIn+amountIn, 10)}
	pool[outKey] = map[string]any{"value": strconv.FormatUint(reserveOut-amountOut, 10)}
	return nil
}

func debit(holder *nodeAccount, coinType string, amount uint64) error {
	store, exists := holder.resources[coinStoreType(coinType)]
	if !exists {
		return fmt.Errorf("ECOIN_STORE_NOT_PUBLISHED")
	}
	if coinValue(store) < amount {
		return fmt.Errorf("EINSUFFICIENT_BALANCE")
	}
	setCoinValue(store, coinValue(store)-amount)
	return nil
}

func credit(holder *nodeAccount, coinType string, amount uint64) {
	store, exists := holder.resources[coinStoreType(coinType)]
	if !exists {
		store = coinStore(0)
		holder.resources[coinStoreType(coinType)] = store
	}
	setCoinValue(store, coinValue(store)+amount)
}

func typeAddress(typePath string) (string, error) {
	address, _, found := strings.Cut(typePath, "::")
	if !found {
		return "", fmt.Errorf("invalid type %q", typePath)
	}
	return account.NormalizeAddress(address)
}

func functionAddress(function string) (string, error) {
	return typeAddress(function)
}

func argumentUint64(value any) (uint64, error) {
	switch typed := value.(type) {
	case json.Number, string, float64:
		return rest.ParseUint64(typed)
	default:
		return 0, fmt.Errorf("invalid u64 argument %v", value)
	}
}
