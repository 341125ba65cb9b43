package chain

import (
	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/types"
)

// ChainContext is the execution host boundary. Every operation an account
// performs against the outside world crosses this interface: outbound calls,
// read-only queries, caller identity, the host clock and the implementation
// pointer replacement mechanism. The host serializes operations against a
// given account; implementations do not need to re-provide that guarantee.
type ChainContext interface {
	// Call dispatches a state-changing call to an external contract and
	// returns its raw return words.
	Call(to types.Address, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error)

	// StaticCall issues a read-only query against an external contract.
	StaticCall(to types.Address, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error)

	// Caller returns the address invoking the current operation.
	Caller() types.Address

	// BlockTimestamp returns the host clock in seconds.
	BlockTimestamp() uint64

	// TransactionHash returns the hash of the enclosing host transaction,
	// or nil when the host provides none.
	TransactionHash() *uint256.Int

	// ReplaceImplementation swaps the implementation pointer the account's
	// runtime behavior is bound to. Authorization is the account's job; the
	// replacement mechanism itself belongs to the host.
	ReplaceImplementation(impl types.Address) error

	// Implementation returns the current implementation pointer.
	Implementation() types.Address
}
