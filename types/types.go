package types

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Address is the 0x-prefixed hex form of a contract address felt.
type Address string

const ZeroAddress Address = "0x0"

var mask128 = func() *uint256.Int {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), 128)
	return m.SubUint64(m, 1)
}()

// AddressFromFelt converts a field element into its canonical hex address form.
func AddressFromFelt(v *uint256.Int) Address {
	if v == nil || v.IsZero() {
		return ZeroAddress
	}
	return Address(v.Hex())
}

// ParseAddress normalizes and validates a hex address string.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	v, err := uint256.FromHex(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return AddressFromFelt(v), nil
}

// Felt returns the address as a field element.
func (a Address) Felt() (*uint256.Int, error) {
	if a == "" {
		return nil, fmt.Errorf("empty address")
	}
	v, err := uint256.FromHex(string(a))
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", a, err)
	}
	return v, nil
}

func (a Address) IsZero() bool {
	if a == "" || a == ZeroAddress {
		return true
	}
	v, err := a.Felt()
	return err == nil && v.IsZero()
}

// SplitU256 encodes v as its (low, high) 128-bit halves, low first. This is
// the u256 calldata layout the asset contract expects.
func SplitU256(v *uint256.Int) (*uint256.Int, *uint256.Int) {
	low := new(uint256.Int).And(v, mask128)
	high := new(uint256.Int).Rsh(v, 128)
	return low, high
}

// CombineU256 is the inverse of SplitU256.
func CombineU256(low, high *uint256.Int) *uint256.Int {
	v := new(uint256.Int).Lsh(high, 128)
	return v.Or(v, low)
}

// AssetBinding is the immutable (asset contract, asset id) pair an account is
// bound to. Set once at account creation, never reassigned.
type AssetBinding struct {
	Contract Address      `json:"contract"`
	ID       *uint256.Int `json:"id"`
}

// Call is a single outbound call of a batch. Batch order is execution order.
type Call struct {
	To       Address        `json:"to"`
	Selector *uint256.Int   `json:"selector"`
	Calldata []*uint256.Int `json:"calldata"`
}

// AccountState is the durable state of a token-bound account: the asset
// binding plus the unlock timestamp. Nothing else is persisted.
type AccountState struct {
	ID              Address      `json:"id"`
	AssetContract   Address      `json:"asset_contract"`
	AssetID         *uint256.Int `json:"asset_id"`
	UnlockTimestamp uint64       `json:"unlock_timestamp"`
}
