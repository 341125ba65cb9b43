package events

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/types"
)

// EventType is an enum-like string type for account lifecycle events
type EventType string

const (
	EventAccountCreated      EventType = "AccountCreated"
	EventTransactionExecuted EventType = "TransactionExecuted"
	EventAccountUpgraded     EventType = "AccountUpgraded"
	EventAccountLocked       EventType = "AccountLocked"
)

// AccountEvent represents any lifecycle event an account emits
type AccountEvent interface {
	Type() EventType
	Timestamp() time.Time
	Account() types.Address
}

// AccountCreated event when an account is bound to its asset
type AccountCreated struct {
	account   types.Address
	owner     types.Address
	timestamp time.Time
}

func NewAccountCreated(account, owner types.Address) *AccountCreated {
	return &AccountCreated{
		account:   account,
		owner:     owner,
		timestamp: time.Now(),
	}
}

func (e *AccountCreated) Type() EventType {
	return EventAccountCreated
}

func (e *AccountCreated) Timestamp() time.Time {
	return e.timestamp
}

func (e *AccountCreated) Account() types.Address {
	return e.account
}

func (e *AccountCreated) Owner() types.Address {
	return e.owner
}

// TransactionExecuted event when a batch runs to completion
type TransactionExecuted struct {
	account   types.Address
	txHash    *uint256.Int
	responses [][]*uint256.Int
	timestamp time.Time
}

func NewTransactionExecuted(account types.Address, txHash *uint256.Int, responses [][]*uint256.Int) *TransactionExecuted {
	return &TransactionExecuted{
		account:   account,
		txHash:    txHash,
		responses: responses,
		timestamp: time.Now(),
	}
}

func (e *TransactionExecuted) Type() EventType {
	return EventTransactionExecuted
}

func (e *TransactionExecuted) Timestamp() time.Time {
	return e.timestamp
}

func (e *TransactionExecuted) Account() types.Address {
	return e.account
}

func (e *TransactionExecuted) TxHash() *uint256.Int {
	return e.txHash
}

func (e *TransactionExecuted) Responses() [][]*uint256.Int {
	return e.responses
}

// AccountUpgraded event when the implementation pointer is replaced
type AccountUpgraded struct {
	account        types.Address
	implementation types.Address
	timestamp      time.Time
}

func NewAccountUpgraded(account, implementation types.Address) *AccountUpgraded {
	return &AccountUpgraded{
		account:        account,
		implementation: implementation,
		timestamp:      time.Now(),
	}
}

func (e *AccountUpgraded) Type() EventType {
	return EventAccountUpgraded
}

func (e *AccountUpgraded) Timestamp() time.Time {
	return e.timestamp
}

func (e *AccountUpgraded) Account() types.Address {
	return e.account
}

func (e *AccountUpgraded) Implementation() types.Address {
	return e.implementation
}

// AccountLocked event when an account locks itself
type AccountLocked struct {
	account   types.Address
	lockedAt  uint64
	duration  uint64
	timestamp time.Time
}

func NewAccountLocked(account types.Address, lockedAt, duration uint64) *AccountLocked {
	return &AccountLocked{
		account:   account,
		lockedAt:  lockedAt,
		duration:  duration,
		timestamp: time.Now(),
	}
}

func (e *AccountLocked) Type() EventType {
	return EventAccountLocked
}

func (e *AccountLocked) Timestamp() time.Time {
	return e.timestamp
}

func (e *AccountLocked) Account() types.Address {
	return e.account
}

func (e *AccountLocked) LockedAt() uint64 {
	return e.lockedAt
}

func (e *AccountLocked) Duration() uint64 {
	return e.duration
}
