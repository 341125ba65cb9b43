package chain

import (
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// selectorMask truncates a keccak digest to 250 bits, the sn_keccak rule.
var selectorMask = func() *uint256.Int {
	m := new(uint256.Int).Lsh(uint256.NewInt(1), 250)
	return m.SubUint64(m, 1)
}()

// SelectorFromName computes the method identifier for an entry point name:
// keccak256 of the name, masked to its low 250 bits.
func SelectorFromName(name string) *uint256.Int {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	v := new(uint256.Int).SetBytes(h.Sum(nil))
	return v.And(v, selectorMask)
}

// The two naming conventions an asset contract may expose its owner query
// under. Which one a given contract answers is not known statically, hence
// the resolver's double dispatch.
var (
	SelectorOwnerOfCamel = SelectorFromName("ownerOf")
	SelectorOwnerOfSnake = SelectorFromName("owner_of")
)

// MagicValidated is the host's "authorized" sentinel, the short string
// 'VALID' as a felt.
var MagicValidated = uint256.NewInt(0x56414c4944)

// Capability identifiers answered by supports_interface.
var (
	InterfaceIDSRC5 = uint256.MustFromHex(
		"0x3f918d17e5ee77373b56385708f855659a07f75997f365cf87748628532a055")
	InterfaceIDAccount = uint256.MustFromHex(
		"0x2ceccef7f994940b3962a6c67e0ba4fcd37df7d131417c604f91e03caecc1cd")
)
