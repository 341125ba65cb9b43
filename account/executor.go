package account

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/types"
)

// Executor dispatches an ordered batch of outbound calls. Calls run strictly
// in input order; the first failure aborts the whole batch and no partial
// results are returned. Rollback of effects already applied by other accounts
// is the host's execution-atomicity guarantee, not re-implemented here.
type Executor struct{}

func newExecutor() *Executor {
	return &Executor{}
}

// ExecuteBatch runs the calls and returns one return-data entry per call, in
// input order.
func (e *Executor) ExecuteBatch(ctx chain.ChainContext, calls []types.Call) ([][]*uint256.Int, error) {
	responses := make([][]*uint256.Int, 0, len(calls))
	for i, call := range calls {
		ret, err := ctx.Call(call.To, call.Selector, call.Calldata)
		if err != nil {
			return nil, errors.NewError(errors.ErrCodeMulticallFailed,
				fmt.Sprintf("%s: call %d to %s failed: %v", errors.ErrMsgMulticallFailed, i, call.To, err))
		}
		responses = append(responses, ret)
	}
	return responses, nil
}
