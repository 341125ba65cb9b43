package ownership

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/logx"
	"github.com/codeWhizperer/TBA/types"
)

// Resolver answers "who currently owns this asset" by querying the asset
// contract. The contract's naming convention is not known at account-creation
// time, so the query is attempted under the camelCase selector first and the
// snake_case selector on failure. Results are never cached: every resolution
// reflects current on-chain ownership, including within a single batch.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveOwner returns the current owner of assetID on assetContract.
func (r *Resolver) ResolveOwner(ctx chain.ChainContext, assetContract types.Address, assetID *uint256.Int) (types.Address, error) {
	low, high := types.SplitU256(assetID)
	calldata := []*uint256.Int{low, high}

	ret, err := ctx.StaticCall(assetContract, chain.SelectorOwnerOfCamel, calldata)
	if err != nil {
		logx.Debug("OWNERSHIP", fmt.Sprintf("ownerOf query failed, retrying owner_of | contract=%s err=%v", assetContract, err))
		ret, err = ctx.StaticCall(assetContract, chain.SelectorOwnerOfSnake, calldata)
	}
	if err != nil {
		return types.ZeroAddress, errors.NewError(errors.ErrCodeResolutionFailed, errors.ErrMsgResolutionFailed)
	}
	// A successful owner query answers with a single address word. The two
	// conventions are not assumed to share a success format beyond that.
	if len(ret) != 1 {
		logx.Warn("OWNERSHIP", fmt.Sprintf("owner query returned %d words, want 1 | contract=%s", len(ret), assetContract))
		return types.ZeroAddress, errors.NewError(errors.ErrCodeResolutionFailed, errors.ErrMsgResolutionFailed)
	}
	return types.AddressFromFelt(ret[0]), nil
}
