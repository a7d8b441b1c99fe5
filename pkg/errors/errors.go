// Package errors provides structured error handling for Manor.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitAuth       = 3 // Authentication failed or declined
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied or insufficient funds
)

// ManorError is the structured error type for Manor.
type ManorError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *ManorError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ManorError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ManorError.
func (e *ManorError) Is(target error) bool {
	var t *ManorError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &ManorError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &ManorError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	// ErrAuth indicates wallet authentication was declined or unavailable.
	ErrAuth = &ManorError{
		Code:     "AUTH_FAILED",
		Message:  "wallet authentication failed",
		ExitCode: ExitAuth,
	}

	// ErrNetwork indicates an RPC or read failure; callers may re-fetch.
	ErrNetwork = &ManorError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	// ErrUserRejected indicates the user explicitly declined a signature or
	// transaction prompt. This is a benign cancellation, not a failure.
	ErrUserRejected = &ManorError{
		Code:     "USER_REJECTED",
		Message:  "user rejected the request",
		ExitCode: ExitSuccess,
	}

	// ErrTransactionFailed indicates a backend-confirmed on-chain failure.
	ErrTransactionFailed = &ManorError{
		Code:     "TRANSACTION_FAILED",
		Message:  "transaction failed on chain",
		ExitCode: ExitGeneral,
	}

	// ErrConfirmationTimeout indicates confirmation retries were exhausted.
	ErrConfirmationTimeout = &ManorError{
		Code:     "CONFIRMATION_TIMEOUT",
		Message:  "transaction not confirmed after maximum retries",
		ExitCode: ExitGeneral,
	}

	// ErrNoBackend indicates no wallet environment was detected at startup.
	ErrNoBackend = &ManorError{
		Code:     "NO_BACKEND",
		Message:  "no wallet environment available",
		ExitCode: ExitGeneral,
	}

	// ErrNotLoggedIn indicates an operation requires a connected account.
	ErrNotLoggedIn = &ManorError{
		Code:     "NOT_LOGGED_IN",
		Message:  "no wallet connected",
		ExitCode: ExitAuth,
	}

	// ErrTransactionIDMissing indicates the bridge omitted the transaction id.
	ErrTransactionIDMissing = &ManorError{
		Code:     "TRANSACTION_ID_MISSING",
		Message:  "transaction submitted but no transaction id was returned",
		ExitCode: ExitGeneral,
	}

	// Chain-specific errors.
	ErrInvalidAddress = &ManorError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidAmount = &ManorError{
		Code:     "INVALID_AMOUNT",
		Message:  "invalid amount format",
		ExitCode: ExitInput,
	}

	ErrTokenNotFound = &ManorError{
		Code:     "TOKEN_NOT_FOUND",
		Message:  "token not found",
		ExitCode: ExitNotFound,
	}

	ErrInsufficientFunds = &ManorError{
		Code:     "INSUFFICIENT_FUNDS",
		Message:  "insufficient funds for transaction",
		ExitCode: ExitPermission,
	}

	// Keystore-specific errors.
	ErrKeyfileNotFound = &ManorError{
		Code:     "KEYFILE_NOT_FOUND",
		Message:  "wallet keyfile not found",
		ExitCode: ExitNotFound,
	}

	ErrKeyfileExists = &ManorError{
		Code:     "KEYFILE_EXISTS",
		Message:  "wallet keyfile already exists",
		ExitCode: ExitInput,
	}

	ErrDecryptionFailed = &ManorError{
		Code:     "DECRYPTION_FAILED",
		Message:  "decryption failed - wrong passphrase or corrupted keyfile",
		ExitCode: ExitAuth,
	}

	ErrInvalidMnemonic = &ManorError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	// Bridge-specific errors.
	ErrBridgeUnavailable = &ManorError{
		Code:     "BRIDGE_UNAVAILABLE",
		Message:  "wallet bridge is not installed",
		ExitCode: ExitGeneral,
	}

	// Config-specific errors.
	ErrConfigNotFound = &ManorError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &ManorError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new ManorError with the given code and message.
func New(code, message string) *ManorError {
	return &ManorError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap classifies an error under a sentinel with added context. The result
// matches the sentinel with errors.Is and keeps the cause reachable through
// Unwrap.
func Wrap(err error, sentinel *ManorError, message string) error {
	if err == nil {
		return nil
	}

	return &ManorError{
		Code:       sentinel.Code,
		Message:    fmt.Sprintf("%s: %s", sentinel.Message, message),
		Suggestion: sentinel.Suggestion,
		Cause:      err,
		ExitCode:   sentinel.ExitCode,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var me *ManorError
	if errors.As(err, &me) {
		return &ManorError{
			Code:       me.Code,
			Message:    me.Message,
			Details:    details,
			Suggestion: me.Suggestion,
			Cause:      me.Cause,
			ExitCode:   me.ExitCode,
		}
	}

	return &ManorError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var me *ManorError
	if errors.As(err, &me) {
		return &ManorError{
			Code:       me.Code,
			Message:    me.Message,
			Details:    me.Details,
			Suggestion: suggestion,
			Cause:      me.Cause,
			ExitCode:   me.ExitCode,
		}
	}

	return &ManorError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// IsUserRejected reports whether the error is a user-declined prompt.
// Rejections are classified where the provider call fails, so this is an
// errors.Is check on the sentinel rather than message sniffing.
func IsUserRejected(err error) bool {
	return errors.Is(err, ErrUserRejected)
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var me *ManorError
	if errors.As(err, &me) {
		return me.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var me *ManorError
	if errors.As(err, &me) {
		return me.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
