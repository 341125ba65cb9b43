package jsonrpc

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/account"
	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/config"
	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/events"
	"github.com/codeWhizperer/TBA/monitoring"
	"github.com/codeWhizperer/TBA/store"
	"github.com/codeWhizperer/TBA/types"
)

// CallerBinder is a chain host that can produce per-caller views. The node's
// RPC surface takes the caller address explicitly, so each operation runs
// against a context bound to that identity.
type CallerBinder interface {
	chain.ChainContext
	WithCaller(caller types.Address) chain.ChainContext
}

// Registry hosts the node's token-bound accounts: creation, lookup with a
// write-through cache over the state store, and the per-operation transport
// limits from the account tunables.
type Registry struct {
	mu       sync.RWMutex
	host     CallerBinder
	accounts map[types.Address]*account.Account
	states   store.AccountStateStore
	bus      *events.EventBus
	tunables *config.AccountTunables
}

func NewRegistry(host CallerBinder, states store.AccountStateStore, bus *events.EventBus, tunables *config.AccountTunables) *Registry {
	if tunables == nil {
		tunables = config.DefaultAccountTunables()
	}
	return &Registry{
		host:     host,
		accounts: make(map[types.Address]*account.Account),
		states:   states,
		bus:      bus,
		tunables: tunables,
	}
}

// CreateAccount binds a new account to the asset and returns it together
// with the owner resolved at creation time.
func (r *Registry) CreateAccount(assetContract types.Address, assetID *uint256.Int) (*account.Account, types.Address, error) {
	acct, owner, err := account.Create(r.host, types.AssetBinding{Contract: assetContract, ID: assetID}, r.states, r.bus)
	if err != nil {
		return nil, types.ZeroAddress, err
	}

	r.mu.Lock()
	r.accounts[acct.ID()] = acct
	r.mu.Unlock()

	monitoring.IncreaseAccountsCreated()
	return acct, owner, nil
}

// Account returns the account with the given id, loading it from the state
// store on a cache miss.
func (r *Registry) Account(id types.Address) (*account.Account, error) {
	r.mu.RLock()
	acct, ok := r.accounts[id]
	r.mu.RUnlock()
	if ok {
		return acct, nil
	}

	acct, err := account.Load(id, r.states, r.bus)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.accounts[id] = acct
	r.mu.Unlock()
	return acct, nil
}

func (r *Registry) ValidateSignature(id, caller types.Address, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	acct, err := r.Account(id)
	if err != nil {
		return nil, err
	}
	return acct.ValidateSignature(r.host.WithCaller(caller), hash, signature)
}

func (r *Registry) ValidateDeploy(id, caller types.Address, classHash, salt, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	acct, err := r.Account(id)
	if err != nil {
		return nil, err
	}
	return acct.ValidateDeploy(r.host.WithCaller(caller), classHash, salt, hash, signature)
}

func (r *Registry) ValidateDeclare(id, caller types.Address, classHash, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	acct, err := r.Account(id)
	if err != nil {
		return nil, err
	}
	return acct.ValidateDeclare(r.host.WithCaller(caller), classHash, hash, signature)
}

func (r *Registry) ValidateTransaction(id, caller types.Address, calls []types.Call, hash *uint256.Int, signature []*uint256.Int) (*uint256.Int, error) {
	acct, err := r.Account(id)
	if err != nil {
		return nil, err
	}
	return acct.ValidateTransaction(r.host.WithCaller(caller), calls, hash, signature)
}

func (r *Registry) Execute(id, caller types.Address, calls []types.Call) (*uint256.Int, [][]*uint256.Int, error) {
	if len(calls) == 0 || len(calls) > r.tunables.MaxBatchSize {
		return nil, nil, errors.NewError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("batch size must be between 1 and %d, got %d", r.tunables.MaxBatchSize, len(calls)))
	}
	acct, err := r.Account(id)
	if err != nil {
		return nil, nil, err
	}

	txHash, responses, err := acct.Execute(r.host.WithCaller(caller), calls)
	if err != nil {
		return nil, nil, err
	}
	monitoring.RecordExecuteBatchSize(len(calls))
	return txHash, responses, nil
}

func (r *Registry) Owner(id types.Address) (types.Address, error) {
	acct, err := r.Account(id)
	if err != nil {
		return types.ZeroAddress, err
	}
	assetContract, assetID := acct.Token()
	return acct.Owner(r.host, assetContract, assetID)
}

func (r *Registry) Token(id types.Address) (types.Address, *uint256.Int, error) {
	acct, err := r.Account(id)
	if err != nil {
		return types.ZeroAddress, nil, err
	}
	assetContract, assetID := acct.Token()
	return assetContract, assetID, nil
}

func (r *Registry) Upgrade(id, caller, implementation types.Address) error {
	acct, err := r.Account(id)
	if err != nil {
		return err
	}
	return acct.Upgrade(r.host.WithCaller(caller), implementation)
}

func (r *Registry) Lock(id, caller types.Address, duration uint64) error {
	if duration > r.tunables.MaxLockDurationSecs {
		return errors.NewError(errors.ErrCodeLockDurationTooLong, errors.ErrMsgLockDurationTooLong)
	}
	acct, err := r.Account(id)
	if err != nil {
		return err
	}
	if err := acct.Lock(r.host.WithCaller(caller), duration); err != nil {
		return err
	}
	monitoring.IncreaseAccountsLocked()
	return nil
}

func (r *Registry) IsLocked(id types.Address) (bool, uint64, error) {
	acct, err := r.Account(id)
	if err != nil {
		return false, 0, err
	}
	locked, remaining := acct.IsLocked(r.host)
	return locked, remaining, nil
}

func (r *Registry) SupportsInterface(id types.Address, interfaceID *uint256.Int) (bool, error) {
	acct, err := r.Account(id)
	if err != nil {
		return false, err
	}
	return acct.SupportsInterface(interfaceID), nil
}
