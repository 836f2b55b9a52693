package rest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
)

var errStillPending = errors.New("transaction pending")

// GenerateTransaction builds an unsigned transaction request for the sender
// using its current sequence number.
func (c *Client) GenerateTransaction(ctx context.Context, sender string, payload Payload) (TransactionRequest, error) {
	normalizedSender, err := account.NormalizeAddress(sender)
	if err != nil {
		return TransactionRequest{}, err
	}
	if strings.TrimSpace(payload.Function) == "" {
		return TransactionRequest{}, fmt.Errorf("payload function is required")
	}

	info, err := c.Account(ctx, normalizedSender)
	if err != nil {
		return TransactionRequest{}, fmt.Errorf("failed to load sender account: %w", err)
	}

	return TransactionRequest{
		Sender:                  normalizedSender,
		SequenceNumber:          info.SequenceNumber,
		MaxGasAmount:            strconv.FormatUint(c.maxGasAmount, 10),
		GasUnitPrice:            strconv.FormatUint(c.gasUnitPrice, 10),
		GasCurrencyCode:         c.gasCurrencyCode,
		ExpirationTimestampSecs: strconv.FormatInt(c.now().Add(c.expirationWindow).Unix(), 10),
		Payload:                 payload,
	}, nil
}

// SigningMessage asks the node for the bytes to sign for the request.
func (c *Client) SigningMessage(ctx context.Context, request TransactionRequest) ([]byte, error) {
	request.Signature = nil

	var response struct {
		Message string `json:"message"`
	}
	endpoint := "/transactions/signing_message"
	if err := c.doJSON(ctx, http.MethodPost, endpoint, endpoint, request, &response); err != nil {
		return nil, err
	}

	message, err := hex.DecodeString(account.TrimAddressPrefix(strings.TrimSpace(response.Message)))
	if err != nil {
		return nil, fmt.Errorf("invalid signing message: %w", err)
	}
	if len(message) == 0 {
		return nil, fmt.Errorf("node returned an empty signing message")
	}
	return message, nil
}

// SignTransaction attaches the signer's Ed25519 signature to the request.
func (c *Client) SignTransaction(ctx context.Context, signer Signer, request TransactionRequest) (TransactionRequest, error) {
	if signer == nil {
		return TransactionRequest{}, fmt.Errorf("signer is required")
	}

	message, err := c.SigningMessage(ctx, request)
	if err != nil {
		return TransactionRequest{}, err
	}
	signature, err := signer.Sign(message)
	if err != nil {
		return TransactionRequest{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	request.Signature = &TransactionSignature{
		Type:      Ed25519SignatureType,
		PublicKey: signer.PublicKeyHex(),
		Signature: "0x" + hex.EncodeToString(signature),
	}
	return request, nil
}

// SubmitTransaction posts a signed transaction.
func (c *Client) SubmitTransaction(ctx context.Context, signed TransactionRequest) (PendingTransaction, error) {
	if signed.Signature == nil {
		return PendingTransaction{}, fmt.Errorf("transaction is not signed")
	}

	var pending PendingTransaction
	if err := c.doJSON(ctx, http.MethodPost, "/transactions", "/transactions", signed, &pending); err != nil {
		return PendingTransaction{}, err
	}
	if strings.TrimSpace(pending.Hash) == "" {
		return PendingTransaction{}, fmt.Errorf("node response did not include a transaction hash")
	}
	c.metrics.observeSubmitted()
	return pending, nil
}

// ExecuteTransactionWithPayload generates, signs and submits a transaction
// carrying payload. It does not wait for the transaction to commit.
func (c *Client) ExecuteTransactionWithPayload(ctx context.Context, signer Signer, payload Payload) (PendingTransaction, error) {
	if signer == nil {
		return PendingTransaction{}, fmt.Errorf("signer is required")
	}

	request, err := c.GenerateTransaction(ctx, signer.Address(), payload)
	if err != nil {
		return PendingTransaction{}, err
	}
	signed, err := c.SignTransaction(ctx, signer, request)
	if err != nil {
		return PendingTransaction{}, err
	}
	pending, err := c.SubmitTransaction(ctx, signed)
	if err != nil {
		return PendingTransaction{}, fmt.Errorf("failed to submit %s: %w", payload.Function, err)
	}

	c.logger.Info().
		Str("function", payload.Function).
		Str("sender", signed.Sender).
		Str("sequence_number", signed.SequenceNumber).
		Str("hash", pending.Hash).
		Msg("transaction submitted")
	return pending, nil
}

// Transaction returns the transaction by hash, or nil when the node does not
// know it yet.
func (c *Client) Transaction(ctx context.Context, hash string) (*Transaction, error) {
	normalized := strings.TrimSpace(hash)
	if normalized == "" {
		return nil, fmt.Errorf("transaction hash is required")
	}

	var transaction Transaction
	path := "/transactions/" + url.PathEscape(normalized)
	err := c.doJSON(ctx, http.MethodGet, "/transactions/{hash}", path, nil, &transaction)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// TransactionPending reports whether the transaction is unknown or still in
// the mempool.
func (c *Client) TransactionPending(ctx context.Context, hash string) (bool, error) {
	transaction, err := c.Transaction(ctx, hash)
	if err != nil {
		return false, err
	}
	return transaction == nil || transaction.IsPending(), nil
}

// WaitForTransaction polls the node until the transaction is committed. It
// fails when the transaction did not execute successfully or is still
// pending after the configured number of attempts.
func (c *Client) WaitForTransaction(ctx context.Context, hash string) (*Transaction, error) {
	if strings.TrimSpace(hash) == "" {
		return nil, fmt.Errorf("transaction hash is required")
	}

	var committed *Transaction
	operation := func() error {
		transaction, err := c.Transaction(ctx, hash)
		if err != nil {
			if isServerError(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		if transaction == nil || transaction.IsPending() {
			return errStillPending
		}
		committed = transaction
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.pollInterval), uint64(c.maxWaitAttempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, errStillPending) {
			c.metrics.observeCommitted("timeout")
			return nil, fmt.Errorf("%w: %s after %d attempts", ErrWaitTimeout, hash, c.maxWaitAttempts)
		}
		return nil, err
	}

	if !committed.Success {
		c.metrics.observeCommitted("failed")
		return committed, &TransactionFailedError{Hash: hash, VMStatus: committed.VMStatus}
	}

	c.metrics.observeCommitted("success")
	c.logger.Info().Str("hash", hash).Str("version", committed.Version).Msg("transaction committed")
	return committed, nil
}
