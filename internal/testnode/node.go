// Package testnode is an in-memory node and faucet serving the REST surface
// used by the SDK. It verifies transaction signatures and applies the effects
// of the managed coin, coin registration and CoinSwap script functions so
// that drivers can be exercised end to end in tests.
package testnode

import (
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/sha3"

	"github.com/move-examples/coinswap-sdk-go/pkg/account"
	"github.com/move-examples/coinswap-sdk-go/pkg/rest"
)

type nodeAccount struct {
	sequenceNumber uint64
	authKey        string
	resources      map[string]map[string]any
}

type Node struct {
	mu           sync.Mutex
	accounts     map[string]*nodeAccount
	transactions map[string]*rest.Transaction
	pendingLeft  map[string]int
	pendingPolls int
	failures     map[string]string
	submitted    []rest.TransactionRequest
	fundRequests int
	counter      uint64
}

func New() *Node {
	return &Node{
		accounts:     map[string]*nodeAccount{},
		transactions: map[string]*rest.Transaction{},
		pendingLeft:  map[string]int{},
		failures:     map[string]string{},
	}
}

// Handler serves the node routes and the faucet /mint route.
func (n *Node) Handler() http.Handler {
	router := mux.NewRouter().UseEncodedPath()
	router.HandleFunc("/accounts/{address}", n.handleAccount).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{address}/resource/{type}", n.handleResource).Methods(http.MethodGet)
	router.HandleFunc("/transactions/signing_message", n.handleSigningMessage).Methods(http.MethodPost)
	router.HandleFunc("/transactions", n.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/transactions/{hash}", n.handleTransaction).Methods(http.MethodGet)
	router.HandleFunc("/mint", n.handleMint).Methods(http.MethodPost)
	return router
}

// SetPendingPolls makes every later transaction report as pending for the
// given number of lookups before it is committed.
func (n *Node) SetPendingPolls(polls int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pendingPolls = polls
}

// FailFunction makes later transactions calling function commit with
// success=false and the given VM status. An empty status clears the failure.
func (n *Node) FailFunction(function string, vmStatus string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if vmStatus == "" {
		delete(n.failures, function)
		return
	}
	n.failures[function] = vmStatus
}

// Submitted returns the signed transactions accepted so far.
func (n *Node) Submitted() []rest.TransactionRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]rest.TransactionRequest(nil), n.submitted...)
}

// FundRequests returns the number of faucet mint requests served.
func (n *Node) FundRequests() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fundRequests
}

// Fund credits the gas coin store of address, creating the account.
func (n *Node) Fund(address string, amount uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fundLocked(address, amount)
}

// Resource returns a copy of the resource data, if present.
func (n *Node) Resource(address string, resourceType string) (map[string]any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acct := n.lookupLocked(address)
	if acct == nil {
		return nil, false
	}
	data, ok := acct.resources[resourceType]
	if !ok {
		return nil, false
	}
	return cloneData(data), true
}

// SetResource stores a resource under address, creating the account.
func (n *Node) SetResource(address string, resourceType string, data map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accountLocked(address).resources[resourceType] = cloneData(data)
}

func (n *Node) handleAccount(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	acct := n.lookupLocked(pathVar(r, "address"))
	if acct == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	writeJSON(w, http.StatusOK, rest.AccountInfo{
		SequenceNumber:    strconv.FormatUint(acct.sequenceNumber, 10),
		AuthenticationKey: acct.authKey,
	})
}

func (n *Node) handleResource(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	resourceType := pathVar(r, "type")
	acct := n.lookupLocked(pathVar(r, "address"))
	if acct == nil {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	data, ok := acct.resources[resourceType]
	if !ok {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, rest.Resource{Type: resourceType, Data: data})
}

func (n *Node) handleSigningMessage(w http.ResponseWriter, r *http.Request) {
	var request rest.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "0x" + hex.EncodeToString(signingMessage(request))})
}

func (n *Node) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var request rest.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := verifySignature(request); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	sender := n.lookupLocked(request.Sender)
	if sender == nil {
		writeError(w, http.StatusBadRequest, "sender account not found")
		return
	}
	if request.SequenceNumber != strconv.FormatUint(sender.sequenceNumber, 10) {
		writeError(w, http.StatusBadRequest, "invalid sequence number")
		return
	}
	sender.sequenceNumber++

	n.counter++
	hash := transactionHash(request, n.counter)
	transaction := &rest.Transaction{
		Type:     rest.UserTransactionType,
		Hash:     hash,
		Version:  strconv.FormatUint(n.counter, 10),
		Success:  true,
		VMStatus: "Executed successfully",
	}
	if vmStatus, fail := n.failures[request.Payload.Function]; fail {
		transaction.Success = false
		transaction.VMStatus = vmStatus
	} else if err := n.applyLocked(request); err != nil {
		transaction.Success = false
		transaction.VMStatus = err.Error()
	}

	n.transactions[hash] = transaction
	n.pendingLeft[hash] = n.pendingPolls
	n.submitted = append(n.submitted, request)

	writeJSON(w, http.StatusAccepted, rest.PendingTransaction{
		Type:           rest.PendingTransactionType,
		Hash:           hash,
		Sender:         request.Sender,
		SequenceNumber: request.SequenceNumber,
	})
}

func (n *Node) handleTransaction(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	hash := pathVar(r, "hash")
	transaction, ok := n.transactions[hash]
	if !ok {
		writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	if n.pendingLeft[hash] > 0 {
		n.pendingLeft[hash]--
		writeJSON(w, http.StatusOK, rest.Transaction{Type: rest.PendingTransactionType, Hash: hash})
		return
	}
	writeJSON(w, http.StatusOK, transaction)
}

func (n *Node) handleMint(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	authKey := r.URL.Query().Get("auth_key")
	if authKey == "" {
		writeError(w, http.StatusBadRequest, "auth_key is required")
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.fundRequests++
	n.fundLocked(authKey, amount)
	n.counter++
	hash := fmt.Sprintf("0x%064x", n.counter)
	n.transactions[hash] = &rest.Transaction{
		Type:     rest.UserTransactionType,
		Hash:     hash,
		Version:  strconv.FormatUint(n.counter, 10),
		Success:  true,
		VMStatus: "Executed successfully",
	}
	n.pendingLeft[hash] = n.pendingPolls
	writeJSON(w, http.StatusOK, []string{hash})
}

func (n *Node) fundLocked(address string, amount uint64) {
	acct := n.accountLocked(address)
	store, ok := acct.resources[rest.GasCoinStoreType]
	if !ok {
		store = coinStore(0)
		acct.resources[rest.GasCoinStoreType] = store
	}
	setCoinValue(store, coinValue(store)+amount)
}

func (n *Node) lookupLocked(address string) *nodeAccount {
	normalized, err := account.NormalizeAddress(address)
	if err != nil {
		return nil
	}
	return n.accounts[normalized]
}

func (n *Node) accountLocked(address string) *nodeAccount {
	normalized, err := account.NormalizeAddress(address)
	if err != nil {
		panic(fmt.Sprintf("testnode: invalid address %q", address))
	}
	acct, ok := n.accounts[normalized]
	if !ok {
		acct = &nodeAccount{authKey: normalized, resources: map[string]map[string]any{}}
		n.accounts[normalized] = acct
	}
	return acct
}

func signingMessage(request rest.TransactionRequest) []byte {
	request.Signature = nil
	encoded, _ := json.Marshal(request)
	digest := sha3.Sum256(encoded)
	return digest[:]
}

func verifySignature(request rest.TransactionRequest) error {
	if request.Signature == nil {
		return fmt.Errorf("signature is required")
	}
	if request.Signature.Type != rest.Ed25519SignatureType {
		return fmt.Errorf("unsupported signature type %q", request.Signature.Type)
	}
	publicKey, err := hex.DecodeString(account.TrimAddressPrefix(request.Signature.PublicKey))
	if err != nil || len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("invalid public key")
	}
	signature, err := hex.DecodeString(account.TrimAddressPrefix(request.Signature.Signature))
	if err != nil {
		return fmt.Errorf("invalid signature encoding")
	}
	if !ed25519.Verify(publicKey, signingMessage(request), signature) {
		return fmt.Errorf("invalid signature")
	}
	sender, err := account.NormalizeAddress(request.Sender)
	if err != nil || account.DeriveAddress(publicKey) != sender {
		return fmt.Errorf("public key does not match sender authentication key")
	}
	return nil
}

func transactionHash(request rest.TransactionRequest, counter uint64) string {
	encoded, _ := json.Marshal(request)
	hasher := sha3.New256()
	hasher.Write(encoded)
	hasher.Write([]byte(strconv.FormatUint(counter, 10)))
	return "0x" + hex.EncodeToString(hasher.Sum(nil))
}

func pathVar(r *http.Request, name string) string {
	raw := mux.Vars(r)[name]
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return strings.TrimSpace(decoded)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"code": status, "message": message})
}

func cloneData(data map[string]any) map[string]any {
	encoded, _ := json.Marshal(data)
	var cloned map[string]any
	_ = json.Unmarshal(encoded, &cloned)
	return cloned
}
