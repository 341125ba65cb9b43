package chain

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/codeWhizperer/TBA/types"
)

// HandlerFunc is a contract entry point registered on the simulator.
type HandlerFunc func(caller types.Address, calldata []*uint256.Int) ([]*uint256.Int, error)

// DispatchRecord captures one dispatched call, so tests can assert ordering
// and abort behavior.
type DispatchRecord struct {
	To       types.Address
	Selector *uint256.Int
	Calldata []*uint256.Int
	ReadOnly bool
}

type entryPointKey struct {
	to       types.Address
	selector string
}

// Simulator is an in-process ChainContext for tests and dev mode. Contracts
// are handler funcs keyed by (address, selector); caller identity and the
// block clock are settable.
type Simulator struct {
	mu             sync.RWMutex
	entryPoints    map[entryPointKey]HandlerFunc
	caller         types.Address
	timestamp      uint64
	txHash         *uint256.Int
	implementation types.Address
	dispatched     []DispatchRecord
}

func NewSimulator() *Simulator {
	return &Simulator{
		entryPoints: make(map[entryPointKey]HandlerFunc),
	}
}

// RegisterEntryPoint installs fn as the handler for selector on contract to.
func (s *Simulator) RegisterEntryPoint(to types.Address, selector *uint256.Int, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryPoints[entryPointKey{to: to, selector: selector.Hex()}] = fn
}

// RemoveEntryPoint uninstalls a handler, so tests can model contracts that
// stop answering a convention.
func (s *Simulator) RemoveEntryPoint(to types.Address, selector *uint256.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entryPoints, entryPointKey{to: to, selector: selector.Hex()})
}

func (s *Simulator) SetCaller(caller types.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caller = caller
}

func (s *Simulator) SetBlockTimestamp(ts uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timestamp = ts
}

// AdvanceTime moves the block clock forward by d seconds.
func (s *Simulator) AdvanceTime(d uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timestamp += d
}

func (s *Simulator) SetTransactionHash(h *uint256.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txHash = h
}

func (s *Simulator) dispatch(to types.Address, selector *uint256.Int, calldata []*uint256.Int, readOnly bool) ([]*uint256.Int, error) {
	s.mu.RLock()
	caller := s.caller
	s.mu.RUnlock()
	return s.dispatchAs(caller, to, selector, calldata, readOnly)
}

func (s *Simulator) Call(to types.Address, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error) {
	return s.dispatch(to, selector, calldata, false)
}

func (s *Simulator) StaticCall(to types.Address, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error) {
	return s.dispatch(to, selector, calldata, true)
}

func (s *Simulator) Caller() types.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.caller
}

func (s *Simulator) BlockTimestamp() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timestamp
}

func (s *Simulator) TransactionHash() *uint256.Int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txHash
}

func (s *Simulator) ReplaceImplementation(impl types.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.implementation = impl
	return nil
}

func (s *Simulator) Implementation() types.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.implementation
}

// Dispatched returns a copy of the dispatch journal.
func (s *Simulator) Dispatched() []DispatchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DispatchRecord, len(s.dispatched))
	copy(out, s.dispatched)
	return out
}

// ResetDispatched clears the dispatch journal.
func (s *Simulator) ResetDispatched() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched = nil
}

// WithCaller returns a view of the simulator whose Caller() is fixed to
// caller. The underlying contracts, clock and journal are shared.
func (s *Simulator) WithCaller(caller types.Address) ChainContext {
	return &callerView{Simulator: s, caller: caller}
}

type callerView struct {
	*Simulator
	caller types.Address
}

func (v *callerView) Caller() types.Address {
	return v.caller
}

func (v *callerView) Call(to types.Address, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error) {
	return v.Simulator.dispatchAs(v.caller, to, selector, calldata, false)
}

func (v *callerView) StaticCall(to types.Address, selector *uint256.Int, calldata []*uint256.Int) ([]*uint256.Int, error) {
	return v.Simulator.dispatchAs(v.caller, to, selector, calldata, true)
}

func (s *Simulator) dispatchAs(caller types.Address, to types.Address, selector *uint256.Int, calldata []*uint256.Int, readOnly bool) ([]*uint256.Int, error) {
	s.mu.Lock()
	fn, ok := s.entryPoints[entryPointKey{to: to, selector: selector.Hex()}]
	s.dispatched = append(s.dispatched, DispatchRecord{
		To:       to,
		Selector: selector,
		Calldata: calldata,
		ReadOnly: readOnly,
	})
	s.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("no entry point %s on contract %s", selector.Hex(), to)
	}
	return fn(caller, calldata)
}
