package supply

import (
	"errors"
	"fmt"
	"math/big"

	"evm-tools/pkg/chain"
)

// Kind classifies a failure. Fatal kinds abort a batch before anything is sent;
// the rest are recorded per recipient.
type Kind string

const (
	KindEndpointUnavailable Kind = "EndpointUnavailable"
	KindRPCQueryFailed      Kind = "RpcQueryFailed"
	KindInvalidAmount       Kind = "InvalidAmount"
	KindInsufficientFunds   Kind = "InsufficientFunds"

	KindInvalidAddress      Kind = "InvalidAddress"
	KindSubmissionFailed    Kind = "SubmissionFailed"
	KindTransactionReverted Kind = "TransactionReverted"
	KindTransactionPending  Kind = "TransactionPending"
	KindCancelled           Kind = "Cancelled"
)

// Fatal reports whether errors of this kind stop the whole batch.
func (k Kind) Fatal() bool {
	switch k {
	case KindEndpointUnavailable, KindRPCQueryFailed, KindInvalidAmount, KindInsufficientFunds:
		return true
	default:
		return false
	}
}

// Error is the typed error returned by every supply operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrInsufficientFunds) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrEndpointUnavailable = &Error{Kind: KindEndpointUnavailable}
	ErrRPCQueryFailed      = &Error{Kind: KindRPCQueryFailed}
	ErrInvalidAmount       = &Error{Kind: KindInvalidAmount}
	ErrInsufficientFunds   = &Error{Kind: KindInsufficientFunds}
	ErrInvalidAddress      = &Error{Kind: KindInvalidAddress}
	ErrSubmissionFailed    = &Error{Kind: KindSubmissionFailed}
	ErrTransactionReverted = &Error{Kind: KindTransactionReverted}
	ErrTransactionPending  = &Error{Kind: KindTransactionPending}
	ErrCancelled           = &Error{Kind: KindCancelled}
)

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind from err, or "" when err is not a supply error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// InsufficientFundsError carries both sides of the failed balance comparison.
type InsufficientFundsError struct {
	Balance  *big.Int
	Required *big.Int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("balance %s ETH is below required %s ETH (%s wei short)",
		chain.FormatEther(e.Balance),
		chain.FormatEther(e.Required),
		new(big.Int).Sub(e.Required, e.Balance).String())
}
