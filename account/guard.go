package account

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/logx"
	"github.com/codeWhizperer/TBA/ownership"
	"github.com/codeWhizperer/TBA/types"
)

// signatureLen is the only structural requirement on presented signatures.
const signatureLen = 2

// Guard gates every privileged operation on the dynamically resolved owner of
// the bound asset. There is exactly one predicate: caller equals the address
// the resolver returns right now.
type Guard struct {
	resolver *ownership.Resolver
	binding  types.AssetBinding
}

func newGuard(resolver *ownership.Resolver, binding types.AssetBinding) *Guard {
	return &Guard{
		resolver: resolver,
		binding:  binding,
	}
}

// AssertOnlyOwner is the strict check used by mutating entry points. It
// compares the current caller against the resolved owner and fails with
// Unauthorized on mismatch.
func (g *Guard) AssertOnlyOwner(ctx chain.ChainContext) error {
	owner, err := g.resolver.ResolveOwner(ctx, g.binding.Contract, g.binding.ID)
	if err != nil {
		return err
	}
	if ctx.Caller() != owner {
		logx.Debug("GUARD", fmt.Sprintf("owner check failed | caller=%s owner=%s", ctx.Caller(), owner))
		return errors.NewError(errors.ErrCodeUnauthorized, errors.ErrMsgUnauthorized)
	}
	return nil
}

// ValidateSignature is the validation-path check. The signature must be two
// felts, but it is not cryptographically verified against the hash: ownership
// of the bound asset is the sole authorization factor here, so the decision
// is caller-equality. The hash and signature words are accepted structurally
// and otherwise unused.
func (g *Guard) ValidateSignature(ctx chain.ChainContext, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	if len(signature) != signatureLen {
		return nil, errors.NewError(errors.ErrCodeInvalidSignatureLength, errors.ErrMsgInvalidSignatureLength)
	}
	_ = hash

	owner, err := g.resolver.ResolveOwner(ctx, g.binding.Contract, g.binding.ID)
	if err != nil {
		return nil, err
	}
	if ctx.Caller() != owner {
		return nil, errors.NewError(errors.ErrCodeInvalidSignature, errors.ErrMsgInvalidSignature)
	}
	return chain.MagicValidated, nil
}
