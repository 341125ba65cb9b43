package errors

import (
	stderrors "errors"

	"github.com/codeWhizperer/TBA/jsonx"
)

// AccountErrorCode represents standardized error codes for account operations
type AccountErrorCode string

const (
	// General errors
	ErrCodeInternal       AccountErrorCode = "internal_error"
	ErrCodeInvalidRequest AccountErrorCode = "invalid_request"

	// Authorization errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidSignature       = "invalid_signature"
	ErrCodeInvalidSignatureLength = "invalid_signature_length"

	// Lock errors
	ErrCodeAlreadyLocked       = "already_locked"
	ErrCodeAccountLocked       = "account_locked"
	ErrCodeOverflow            = "overflow"
	ErrCodeLockDurationTooLong = "lock_duration_too_long"

	// Resolution and execution errors
	ErrCodeResolutionFailed      = "resolution_failed"
	ErrCodeMulticallFailed       = "multicall_failed"
	ErrCodeInvalidImplementation = "invalid_implementation"

	// Registry errors
	ErrCodeAccountNotFound = "account_not_found"
	ErrCodeAccountExists   = "account_exists"
)

// AccountError represents a standardized account operation error
type AccountError struct {
	Code    AccountErrorCode `json:"code"`
	Message string           `json:"message"`
}

// Error implements the error interface
func (e *AccountError) Error() string {
	err, _ := jsonx.Marshal(AccountError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgUnauthorized           = "Caller is not the account owner"
	ErrMsgInvalidSignature       = "Signature validation rejected"
	ErrMsgInvalidSignatureLength = "Signature must be exactly 2 felts"
	ErrMsgAlreadyLocked          = "Account is already locked"
	ErrMsgAccountLocked          = "Account is locked"
	ErrMsgOverflow               = "Lock duration overflows the unlock timestamp"
	ErrMsgLockDurationTooLong    = "Lock duration exceeds the configured maximum"
	ErrMsgResolutionFailed       = "Could not resolve the bound asset's owner"
	ErrMsgMulticallFailed        = "A call in the batch failed"
	ErrMsgInvalidImplementation  = "Upgrade target is the zero address"
	ErrMsgAccountNotFound        = "Account does not exist"
	ErrMsgAccountExists          = "Account already exists for this asset"
	ErrMsgInternal               = "Server error, please try again"
	ErrMsgInvalidRequest         = "Request format is invalid"
)

// NewError creates a new AccountError and returns it as error interface
func NewError(code AccountErrorCode, message string) error {
	return &AccountError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the account error code from err, or ErrCodeInternal for
// errors that did not originate from this package.
func CodeOf(err error) AccountErrorCode {
	var accErr *AccountError
	if stderrors.As(err, &accErr) {
		return accErr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given account error code.
func IsCode(err error, code AccountErrorCode) bool {
	var accErr *AccountError
	return stderrors.As(err, &accErr) && accErr.Code == code
}
