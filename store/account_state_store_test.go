package store

import (
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeWhizperer/TBA/db"
	"github.com/codeWhizperer/TBA/types"
)

func testState() *types.AccountState {
	return &types.AccountState{
		ID:              "0x1",
		AssetContract:   "0xa55e7",
		AssetID:         uint256.NewInt(42),
		UnlockTimestamp: 1_700_000_100,
	}
}

func TestSaveAndGet(t *testing.T) {
	store, err := NewGenericAccountStateStore(db.NewMemoryProvider())
	require.NoError(t, err)
	defer store.MustClose()

	require.NoError(t, store.Save(testState()))

	got, err := store.Get("0x1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.Address("0x1"), got.ID)
	assert.Equal(t, types.Address("0xa55e7"), got.AssetContract)
	assert.True(t, got.AssetID.Eq(uint256.NewInt(42)))
	assert.Equal(t, uint64(1_700_000_100), got.UnlockTimestamp)
}

func TestGetMissing(t *testing.T) {
	store, err := NewGenericAccountStateStore(db.NewMemoryProvider())
	require.NoError(t, err)
	defer store.MustClose()

	got, err := store.Get("0x404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExists(t *testing.T) {
	store, err := NewGenericAccountStateStore(db.NewMemoryProvider())
	require.NoError(t, err)
	defer store.MustClose()

	existed, err := store.Exists("0x1")
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, store.Save(testState()))

	existed, err = store.Exists("0x1")
	require.NoError(t, err)
	assert.True(t, existed)
}

func TestSaveOverwrites(t *testing.T) {
	store, err := NewGenericAccountStateStore(db.NewMemoryProvider())
	require.NoError(t, err)
	defer store.MustClose()

	state := testState()
	require.NoError(t, store.Save(state))

	state.UnlockTimestamp = 1_700_000_999
	require.NoError(t, store.Save(state))

	got, err := store.Get("0x1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_700_000_999), got.UnlockTimestamp)
}

func TestNilProviderRejected(t *testing.T) {
	_, err := NewGenericAccountStateStore(nil)
	require.Error(t, err)
}

func TestBoltBackedStore(t *testing.T) {
	provider, err := db.NewBoltProvider(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)

	store, err := NewGenericAccountStateStore(provider)
	require.NoError(t, err)
	defer store.MustClose()

	require.NoError(t, store.Save(testState()))

	got, err := store.Get("0x1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.AssetID.Eq(uint256.NewInt(42)))
}
