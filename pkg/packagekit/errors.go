package packagekit

import "fmt"

// ErrorCode classifies a failed transaction with a machine-readable code.
// These are recoverable conditions: the UI layer displays them, it does not
// crash on them.
type ErrorCode string

const (
	ErrNotFound                  ErrorCode = "not-found"
	ErrAlreadyInstalled          ErrorCode = "already-installed"
	ErrDepResolutionFailed       ErrorCode = "dep-resolution-failed"
	ErrCannotRemoveSystemPackage ErrorCode = "cannot-remove-system-package"
	ErrNoNetwork                 ErrorCode = "no-network"
	ErrDownloadFailed            ErrorCode = "download-failed"
	ErrTransactionFailed         ErrorCode = "transaction-error"
	ErrCancelled                 ErrorCode = "cancelled"
	ErrServiceUnavailable        ErrorCode = "service-unavailable"
)

// TransactionError is the terminal failure of one transaction, carrying the
// classified code and the human-readable detail string the service reported.
type TransactionError struct {
	Code   ErrorCode
	Detail string
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// AsTransactionError unwraps err into a *TransactionError if it is one.
func AsTransactionError(err error) (*TransactionError, bool) {
	txErr, ok := err.(*TransactionError)
	return txErr, ok
}

// IsCode reports whether err is a TransactionError with the given code.
func IsCode(err error, code ErrorCode) bool {
	txErr, ok := AsTransactionError(err)
	return ok && txErr.Code == code
}

// codeFromWire maps the service's numeric error class onto the client error
// taxonomy. Classes with no dedicated code collapse to the generic
// transaction error.
func codeFromWire(we WireError) ErrorCode {
	switch we {
	case WireErrorPackageNotFound, WireErrorGroupNotFound, WireErrorPackageNotInstalled:
		return ErrNotFound
	case WireErrorPackageAlreadyInstalled:
		return ErrAlreadyInstalled
	case WireErrorDepResolutionFailed:
		return ErrDepResolutionFailed
	case WireErrorCannotRemoveSystemPackage:
		return ErrCannotRemoveSystemPackage
	case WireErrorNoNetwork:
		return ErrNoNetwork
	case WireErrorPackageDownloadFailed:
		return ErrDownloadFailed
	case WireErrorTransactionCancelled:
		return ErrCancelled
	default:
		return ErrTransactionFailed
	}
}
