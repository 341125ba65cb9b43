package jsonrpc

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/types"
)

// JSON-RPC Method name constants
const (
	MethodCreateAccount       = "tba.createaccount"
	MethodValidateSignature   = "tba.validatesignature"
	MethodValidateDeploy      = "tba.validatedeploy"
	MethodValidateDeclare     = "tba.validatedeclare"
	MethodValidateTransaction = "tba.validatetransaction"
	MethodExecute             = "tba.execute"
	MethodOwner               = "tba.owner"
	MethodToken               = "tba.token"
	MethodUpgrade             = "tba.upgrade"
	MethodLock                = "tba.lock"
	MethodIsLocked            = "tba.islocked"
	MethodSupportsInterface   = "tba.supportsinterface"
)

// callParam mirrors types.Call with hex-string felts on the wire
type callParam struct {
	To       string   `json:"to"`
	Selector string   `json:"selector"`
	Calldata []string `json:"calldata"`
}

func parseFelt(s string) (*uint256.Int, error) {
	v, err := uint256.FromHex(s)
	if err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid felt %q", s))
	}
	return v, nil
}

func parseFelts(ss []string) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(ss))
	for i, s := range ss {
		v, err := parseFelt(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseAddress(s string) (types.Address, error) {
	addr, err := types.ParseAddress(s)
	if err != nil {
		return types.ZeroAddress, errors.NewError(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid address %q", s))
	}
	return addr, nil
}

func parseCalls(params []callParam) ([]types.Call, error) {
	calls := make([]types.Call, len(params))
	for i, p := range params {
		to, err := parseAddress(p.To)
		if err != nil {
			return nil, err
		}
		selector, err := parseFelt(p.Selector)
		if err != nil {
			return nil, err
		}
		calldata, err := parseFelts(p.Calldata)
		if err != nil {
			return nil, err
		}
		calls[i] = types.Call{To: to, Selector: selector, Calldata: calldata}
	}
	return calls, nil
}

func feltsToHex(felts []*uint256.Int) []string {
	out := make([]string, len(felts))
	for i, f := range felts {
		out[i] = f.Hex()
	}
	return out
}

func responsesToHex(responses [][]*uint256.Int) [][]string {
	out := make([][]string, len(responses))
	for i, r := range responses {
		out[i] = feltsToHex(r)
	}
	return out
}
