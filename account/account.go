package account

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/events"
	"github.com/codeWhizperer/TBA/logx"
	"github.com/codeWhizperer/TBA/ownership"
	"github.com/codeWhizperer/TBA/store"
	"github.com/codeWhizperer/TBA/types"
)

// Account is a token-bound account: control rights are derived from current
// ownership of the bound asset, re-resolved on every privileged operation.
// The account persists exactly three fields (asset contract, asset id, unlock
// timestamp) and emits lifecycle events on the bus. The RPC surface serves
// handlers concurrently, so mutating operations on one account are serialized
// by mu.
type Account struct {
	mu       sync.RWMutex
	id       types.Address
	binding  types.AssetBinding
	resolver *ownership.Resolver
	guard    *Guard
	executor *Executor
	lock     *LockState
	states   store.AccountStateStore
	bus      *events.EventBus
}

// Create binds a new account to (assetContract, assetID). The owner is
// resolved immediately and returned, so callers report the same owner the
// AccountCreated event carries; an unresolvable asset fails creation.
func Create(ctx chain.ChainContext, binding types.AssetBinding, states store.AccountStateStore, bus *events.EventBus) (*Account, types.Address, error) {
	if binding.Contract.IsZero() || binding.ID == nil {
		return nil, types.ZeroAddress, errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest)
	}

	id, err := chain.AccountAddress(binding)
	if err != nil {
		return nil, types.ZeroAddress, errors.NewError(errors.ErrCodeInvalidRequest, errors.ErrMsgInvalidRequest)
	}
	existed, err := states.Exists(id)
	if err != nil {
		return nil, types.ZeroAddress, fmt.Errorf("could not check existence of account: %w", err)
	}
	if existed {
		return nil, types.ZeroAddress, errors.NewError(errors.ErrCodeAccountExists, errors.ErrMsgAccountExists)
	}

	a := build(id, binding, 0, states, bus)

	owner, err := a.resolver.ResolveOwner(ctx, binding.Contract, binding.ID)
	if err != nil {
		return nil, types.ZeroAddress, err
	}
	if err := a.saveState(); err != nil {
		return nil, types.ZeroAddress, err
	}

	logx.Info("ACCOUNT", fmt.Sprintf("Account created | id=%s asset=%s/%s owner=%s", id, binding.Contract, binding.ID, owner))
	a.bus.Publish(events.NewAccountCreated(id, owner))
	return a, owner, nil
}

// Load rebuilds an account from its durable state.
func Load(id types.Address, states store.AccountStateStore, bus *events.EventBus) (*Account, error) {
	state, err := states.Get(id)
	if err != nil {
		return nil, fmt.Errorf("could not load account %s: %w", id, err)
	}
	if state == nil {
		return nil, errors.NewError(errors.ErrCodeAccountNotFound, errors.ErrMsgAccountNotFound)
	}
	binding := types.AssetBinding{Contract: state.AssetContract, ID: state.AssetID}
	return build(id, binding, state.UnlockTimestamp, states, bus), nil
}

func build(id types.Address, binding types.AssetBinding, unlockTimestamp uint64, states store.AccountStateStore, bus *events.EventBus) *Account {
	resolver := ownership.NewResolver()
	return &Account{
		id:       id,
		binding:  binding,
		resolver: resolver,
		guard:    newGuard(resolver, binding),
		executor: newExecutor(),
		lock:     newLockState(unlockTimestamp),
		states:   states,
		bus:      bus,
	}
}

func (a *Account) saveState() error {
	return a.states.Save(&types.AccountState{
		ID:              a.id,
		AssetContract:   a.binding.Contract,
		AssetID:         a.binding.ID,
		UnlockTimestamp: a.lock.UnlockTimestamp(),
	})
}

// ID returns the account's deterministic address.
func (a *Account) ID() types.Address {
	return a.id
}

// Token returns the bound asset pair.
func (a *Account) Token() (types.Address, *uint256.Int) {
	return a.binding.Contract, a.binding.ID
}

// Owner resolves the current owner of the given asset. Read-only, works
// while locked.
func (a *Account) Owner(ctx chain.ChainContext, assetContract types.Address, assetID *uint256.Int) (types.Address, error) {
	return a.resolver.ResolveOwner(ctx, assetContract, assetID)
}

// ValidateSignature checks the validation-path predicate and returns the
// host's authorized sentinel.
func (a *Account) ValidateSignature(ctx chain.ChainContext, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	return a.guard.ValidateSignature(ctx, hash, signature)
}

// ValidateDeploy reduces to the same owner predicate; the class hash and salt
// are accepted structurally.
func (a *Account) ValidateDeploy(ctx chain.ChainContext, classHash, salt, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	_, _ = classHash, salt
	return a.guard.ValidateSignature(ctx, hash, signature)
}

// ValidateDeclare reduces to the same owner predicate.
func (a *Account) ValidateDeclare(ctx chain.ChainContext, classHash, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	_ = classHash
	return a.guard.ValidateSignature(ctx, hash, signature)
}

// ValidateTransaction reduces to the same owner predicate; the calls are not
// inspected.
func (a *Account) ValidateTransaction(ctx chain.ChainContext, calls []types.Call, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	_ = calls
	return a.guard.ValidateSignature(ctx, hash, signature)
}

// Execute runs an ordered call batch on behalf of the account. Strict owner
// gate, blocked while locked. Returns the batch transaction hash and one
// return-data entry per call, in input order. Emits TransactionExecuted.
func (a *Account) Execute(ctx chain.ChainContext, calls []types.Call) (*uint256.Int, [][]*uint256.Int, error) {
	if err := a.guard.AssertOnlyOwner(ctx); err != nil {
		return nil, nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.assertUnlocked(ctx); err != nil {
		return nil, nil, err
	}

	responses, err := a.executor.ExecuteBatch(ctx, calls)
	if err != nil {
		return nil, nil, err
	}

	txHash := ctx.TransactionHash()
	if txHash == nil {
		if txHash, err = chain.HashCalls(calls); err != nil {
			return nil, nil, fmt.Errorf("could not hash batch: %w", err)
		}
	}

	a.bus.Publish(events.NewTransactionExecuted(a.id, txHash, responses))
	return txHash, responses, nil
}

// Upgrade replaces the implementation pointer. Strict owner gate, blocked
// while locked, zero target rejected. Emits AccountUpgraded.
func (a *Account) Upgrade(ctx chain.ChainContext, implementation types.Address) error {
	if err := a.guard.AssertOnlyOwner(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.assertUnlocked(ctx); err != nil {
		return err
	}
	if implementation.IsZero() {
		return errors.NewError(errors.ErrCodeInvalidImplementation, errors.ErrMsgInvalidImplementation)
	}
	if err := ctx.ReplaceImplementation(implementation); err != nil {
		return fmt.Errorf("host rejected implementation replacement: %w", err)
	}

	logx.Info("ACCOUNT", fmt.Sprintf("Account upgraded | id=%s implementation=%s", a.id, implementation))
	a.bus.Publish(events.NewAccountUpgraded(a.id, implementation))
	return nil
}

// Lock makes the account unable to act or be upgraded until the host clock
// reaches now + duration. Queries and validation stay available while locked.
// Emits AccountLocked.
func (a *Account) Lock(ctx chain.ChainContext, duration uint64) error {
	if err := a.guard.AssertOnlyOwner(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.lock.UnlockTimestamp()
	lockedAt, err := a.lock.Lock(ctx.BlockTimestamp(), duration)
	if err != nil {
		return err
	}
	if err := a.saveState(); err != nil {
		// A lock that was never persisted must not leave this instance
		// locked.
		a.lock.restore(prev)
		return err
	}

	logx.Info("ACCOUNT", fmt.Sprintf("Account locked | id=%s locked_at=%d duration=%d", a.id, lockedAt, duration))
	a.bus.Publish(events.NewAccountLocked(a.id, lockedAt, duration))
	return nil
}

// IsLocked derives the lock status from the host clock.
func (a *Account) IsLocked(ctx chain.ChainContext) (bool, uint64) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lock.Status(ctx.BlockTimestamp())
}

// SupportsInterface reports whether the account declares the given capability
// identifier.
func (a *Account) SupportsInterface(id *uint256.Int) bool {
	if id == nil {
		return false
	}
	return id.Eq(chain.InterfaceIDAccount) || id.Eq(chain.InterfaceIDSRC5)
}

func (a *Account) assertUnlocked(ctx chain.ChainContext) error {
	if locked, _ := a.lock.Status(ctx.BlockTimestamp()); locked {
		return errors.NewError(errors.ErrCodeAccountLocked, errors.ErrMsgAccountLocked)
	}
	return nil
}
