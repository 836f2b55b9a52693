// Package coin issues managed coins: it names coin types, builds the
// initialize, register and mint script function payloads, and reads coin
// balances from account resources.
//
// A coin with symbol S issued by address X has the type 0xX::CoinS::CoinS.
package coin
