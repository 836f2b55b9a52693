// Package rest provides the node REST client used by the coin and coinswap
// helpers. It reads accounts and resources, builds, signs and submits
// script function transactions, and blocks until a submitted transaction is
// committed.
//
// Submission is a three step exchange with the node: the transaction request
// is sent to /transactions/signing_message, the returned message is signed
// with the account's Ed25519 key, and the request with the signature
// attached is posted to /transactions.
//
//	client, err := rest.NewClient(rest.Config{BaseURL: "http://0.0.0.0:8080"})
//	if err != nil {
//		return err
//	}
//	pending, err := client.ExecuteTransactionWithPayload(ctx, acct, payload)
//	if err != nil {
//		return err
//	}
//	if _, err := client.WaitForTransaction(ctx, pending.Hash); err != nil {
//		return err
//	}
//
// A resource that does not exist is reported as nil with a nil error so
// callers can treat absence as "not provisioned yet".
package rest
