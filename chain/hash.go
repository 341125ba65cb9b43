package chain

import (
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/types"
)

func feltToElement(v *uint256.Int) *fp.Element {
	e := new(fp.Element)
	b := v.Bytes32()
	e.SetBytes(b[:])
	return e
}

func elementToFelt(e fp.Element) *uint256.Int {
	b := e.Bytes()
	return new(uint256.Int).SetBytes(b[:])
}

// PedersenArray hashes a sequence of felts with the stark-curve Pedersen
// array hash.
func PedersenArray(elems ...*uint256.Int) *uint256.Int {
	fps := make([]*fp.Element, len(elems))
	for i, e := range elems {
		fps[i] = feltToElement(e)
	}
	return elementToFelt(pedersenhash.PedersenArray(fps...))
}

// HashCalls computes a transaction hash for a batch: each call contributes
// its target, selector, calldata length and calldata words, in batch order.
// Used when the host supplies no transaction hash of its own.
func HashCalls(calls []types.Call) (*uint256.Int, error) {
	elems := make([]*uint256.Int, 0, len(calls)*4)
	for _, call := range calls {
		to, err := call.To.Felt()
		if err != nil {
			return nil, err
		}
		elems = append(elems, to, call.Selector, uint256.NewInt(uint64(len(call.Calldata))))
		elems = append(elems, call.Calldata...)
	}
	return PedersenArray(elems...), nil
}

// AccountAddress derives the deterministic account id for an asset binding:
// pedersen over the asset contract address and the id's u256 halves.
func AccountAddress(binding types.AssetBinding) (types.Address, error) {
	contract, err := binding.Contract.Felt()
	if err != nil {
		return types.ZeroAddress, err
	}
	low, high := types.SplitU256(binding.ID)
	return types.AddressFromFelt(PedersenArray(contract, low, high)), nil
}
