package store

import (
	"fmt"
	"sync"

	"github.com/codeWhizperer/TBA/db"
	"github.com/codeWhizperer/TBA/jsonx"
	"github.com/codeWhizperer/TBA/logx"
	"github.com/codeWhizperer/TBA/types"
)

// AccountStateStore persists the three durable fields of a token-bound
// account: asset contract, asset id, unlock timestamp.
type AccountStateStore interface {
	Save(state *types.AccountState) error
	Get(id types.Address) (*types.AccountState, error)
	Exists(id types.Address) (bool, error)
	MustClose()
}

type GenericAccountStateStore struct {
	mu         sync.RWMutex
	dbProvider db.DatabaseProvider
}

func NewGenericAccountStateStore(dbProvider db.DatabaseProvider) (*GenericAccountStateStore, error) {
	if dbProvider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	return &GenericAccountStateStore{
		dbProvider: dbProvider,
	}, nil
}

func (s *GenericAccountStateStore) Save(state *types.AccountState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := jsonx.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal account state: %w", err)
	}
	if err := s.dbProvider.Put(s.getDbKey(state.ID), data); err != nil {
		return fmt.Errorf("failed to write account state to db: %w", err)
	}
	return nil
}

// Get returns nil when the account does not exist
func (s *GenericAccountStateStore) Get(id types.Address) (*types.AccountState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.dbProvider.Get(s.getDbKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read account state from db: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	state := &types.AccountState{}
	if err := jsonx.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account state: %w", err)
	}
	return state, nil
}

func (s *GenericAccountStateStore) Exists(id types.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dbProvider.Has(s.getDbKey(id))
}

func (s *GenericAccountStateStore) MustClose() {
	if err := s.dbProvider.Close(); err != nil {
		logx.Error("STORE", "failed to close account state store: ", err)
	}
}

func (s *GenericAccountStateStore) getDbKey(id types.Address) []byte {
	return []byte(PrefixAccountState + string(id))
}
