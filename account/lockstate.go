package account

import (
	"math"

	"github.com/codeWhizperer/TBA/errors"
)

// LockState holds the account's unlock timestamp. Locked/unlocked is always
// derived from the timestamp and the host clock; there is no stored flag and
// no explicit unlock, the lock simply expires when time passes it. The
// timestamp never decreases.
type LockState struct {
	unlockTimestamp uint64
}

func newLockState(unlockTimestamp uint64) *LockState {
	return &LockState{unlockTimestamp: unlockTimestamp}
}

// Lock sets the unlock timestamp to now + duration and returns the moment of
// locking. Fails when the account is still locked or when the sum would wrap.
func (ls *LockState) Lock(now, duration uint64) (uint64, error) {
	if locked, _ := ls.Status(now); locked {
		return 0, errors.NewError(errors.ErrCodeAlreadyLocked, errors.ErrMsgAlreadyLocked)
	}
	if duration > math.MaxUint64-now {
		return 0, errors.NewError(errors.ErrCodeOverflow, errors.ErrMsgOverflow)
	}
	ls.unlockTimestamp = now + duration
	return now, nil
}

// Status derives the lock state at the given host time: (true, remaining)
// while now is before the unlock timestamp, (false, 0) otherwise.
func (ls *LockState) Status(now uint64) (bool, uint64) {
	if now < ls.unlockTimestamp {
		return true, ls.unlockTimestamp - now
	}
	return false, 0
}

// UnlockTimestamp returns the raw stored timestamp for persistence.
func (ls *LockState) UnlockTimestamp() uint64 {
	return ls.unlockTimestamp
}

// restore puts back a previous timestamp when a lock could not be persisted.
func (ls *LockState) restore(unlockTimestamp uint64) {
	ls.unlockTimestamp = unlockTimestamp
}
