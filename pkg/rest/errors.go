package rest

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransactionFailed = errors.New("transaction failed")
	ErrWaitTimeout       = errors.New("transaction not committed")
)

// RequestError is returned for responses outside the 2xx range.
type RequestError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	if e == nil {
		return "node request failed"
	}
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 response from the node.
func IsNotFound(err error) bool {
	var requestErr *RequestError
	return errors.As(err, &requestErr) && requestErr.Status == http.StatusNotFound
}

func isServerError(err error) bool {
	var requestErr *RequestError
	return errors.As(err, &requestErr) && requestErr.Status >= http.StatusInternalServerError
}

// TransactionFailedError is returned when a committed transaction did not
// execute successfully.
type TransactionFailedError struct {
	Hash     string
	VMStatus string
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.Hash, e.VMStatus)
}

func (e *TransactionFailedError) Is(target error) bool {
	return target == ErrTransactionFailed
}
