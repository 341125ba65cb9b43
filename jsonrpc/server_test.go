package jsonrpc

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeWhizperer/TBA/chain"
	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/types"
)

func newTestServer(t *testing.T) (*Server, *registryEnv) {
	t.Helper()
	env := newRegistryEnv(t)
	return NewServer(":0", env.registry), env
}

func TestParseFelt(t *testing.T) {
	v, err := parseFelt("0xabc")
	require.NoError(t, err)
	assert.True(t, v.Eq(uint256.NewInt(0xabc)))

	for _, bad := range []string{"", "abc", "0x", "0xzz"} {
		_, err := parseFelt(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
	}
}

func TestParseCalls(t *testing.T) {
	calls, err := parseCalls([]callParam{
		{To: "0x111", Selector: "0x2", Calldata: []string{"0x3", "0x4"}},
	})
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "0x111", string(calls[0].To))
	assert.True(t, calls[0].Selector.Eq(uint256.NewInt(2)))
	require.Len(t, calls[0].Calldata, 2)

	_, err = parseCalls([]callParam{{To: "0x111", Selector: "bogus"}})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestResponsesToHex(t *testing.T) {
	out := responsesToHex([][]*uint256.Int{
		{uint256.NewInt(1), uint256.NewInt(255)},
		{},
	})
	require.Len(t, out, 2)
	assert.Equal(t, []string{"0x1", "0xff"}, out[0])
	assert.Empty(t, out[1])
}

func TestToJRPC2ErrorMapsCodes(t *testing.T) {
	err := toJRPC2Error(errors.NewError(errors.ErrCodeUnauthorized, errors.ErrMsgUnauthorized))
	var jerr *jrpc2.Error
	require.True(t, stderrors.As(err, &jerr))
	assert.Equal(t, jrpc2.Code(-32001), jerr.Code)

	err = toJRPC2Error(errors.NewError(errors.ErrCodeAccountExists, errors.ErrMsgAccountExists))
	require.True(t, stderrors.As(err, &jerr))
	assert.Equal(t, jrpc2.Code(-32012), jerr.Code)

	// Non-account errors fall back to the generic server error code
	err = toJRPC2Error(fmt.Errorf("boom"))
	require.True(t, stderrors.As(err, &jerr))
	assert.Equal(t, jrpc2.Code(-32000), jerr.Code)
}

func TestRPCCreateAccountAndQueries(t *testing.T) {
	server, _ := newTestServer(t)

	created, err := server.rpcCreateAccount(createAccountParams{
		AssetContract: string(testAsset),
		AssetID:       "0x1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.AccountID)
	assert.Equal(t, string(testOwner), created.Owner)

	ownerRes, err := server.rpcOwner(accountIDParams{AccountID: created.AccountID})
	require.NoError(t, err)
	assert.Equal(t, string(testOwner), ownerRes.Owner)

	tokenRes, err := server.rpcToken(accountIDParams{AccountID: created.AccountID})
	require.NoError(t, err)
	assert.Equal(t, string(testAsset), tokenRes.AssetContract)
	assert.Equal(t, "0x1", tokenRes.AssetID)

	lockedRes, err := server.rpcIsLocked(accountIDParams{AccountID: created.AccountID})
	require.NoError(t, err)
	assert.False(t, lockedRes.Locked)
}

func TestRPCCreateAccountReportsCreationOwner(t *testing.T) {
	server, env := newTestServer(t)

	// An asset that transfers right after the creation-time resolution: the
	// response must still carry the owner resolved at creation, matching the
	// AccountCreated event, not a later re-resolution.
	contract := types.Address("0xfee1")
	owner := types.Address("0xaaa")
	env.sim.RegisterEntryPoint(contract, chain.SelectorOwnerOfCamel, func(caller types.Address, calldata []*uint256.Int) ([]*uint256.Int, error) {
		felt, err := owner.Felt()
		if err != nil {
			return nil, err
		}
		owner = "0xbbb"
		return []*uint256.Int{felt}, nil
	})

	created, err := server.rpcCreateAccount(createAccountParams{
		AssetContract: string(contract),
		AssetID:       "0x1",
	})
	require.NoError(t, err)
	assert.Equal(t, "0xaaa", created.Owner)
}

func TestRPCCreateAccountBadParams(t *testing.T) {
	server, _ := newTestServer(t)

	_, err := server.rpcCreateAccount(createAccountParams{AssetContract: "not-hex", AssetID: "0x1"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	_, err = server.rpcCreateAccount(createAccountParams{AssetContract: string(testAsset), AssetID: "nope"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestRPCExecute(t *testing.T) {
	server, env := newTestServer(t)
	acct := env.createAccount(t)

	selector := chain.SelectorFromName("echo")
	env.registerEcho("0x111", selector)

	res, err := server.rpcExecute(executeParams{
		AccountID: string(acct.ID()),
		Caller:    string(testOwner),
		Calls: []callParam{
			{To: "0x111", Selector: selector.Hex(), Calldata: []string{"0x7"}},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.TxHash)
	require.Len(t, res.Responses, 1)
	assert.Equal(t, []string{"0x7"}, res.Responses[0])
}

func TestRPCValidateSignature(t *testing.T) {
	server, env := newTestServer(t)
	acct := env.createAccount(t)

	res, err := server.rpcValidateSignature(validateSignatureParams{
		AccountID: string(acct.ID()),
		Caller:    string(testOwner),
		Hash:      "0x123",
		Signature: []string{"0x1", "0x2"},
	})
	require.NoError(t, err)
	assert.Equal(t, chain.MagicValidated.Hex(), res.Magic)

	_, err = server.rpcValidateSignature(validateSignatureParams{
		AccountID: string(acct.ID()),
		Caller:    "0xbbb",
		Hash:      "0x123",
		Signature: []string{"0x1", "0x2"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidSignature))
}

func TestRPCLockAndUpgrade(t *testing.T) {
	server, env := newTestServer(t)
	acct := env.createAccount(t)

	require.NoError(t, server.rpcLock(lockParams{
		AccountID: string(acct.ID()),
		Caller:    string(testOwner),
		Duration:  100,
	}))

	lockedRes, err := server.rpcIsLocked(accountIDParams{AccountID: string(acct.ID())})
	require.NoError(t, err)
	assert.True(t, lockedRes.Locked)
	assert.Equal(t, uint64(100), lockedRes.Remaining)

	err = server.rpcUpgrade(upgradeParams{
		AccountID:      string(acct.ID()),
		Caller:         string(testOwner),
		Implementation: "0xdead",
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAccountLocked))

	env.sim.AdvanceTime(100)
	require.NoError(t, server.rpcUpgrade(upgradeParams{
		AccountID:      string(acct.ID()),
		Caller:         string(testOwner),
		Implementation: "0xdead",
	}))
}

func TestRPCSupportsInterface(t *testing.T) {
	server, env := newTestServer(t)
	acct := env.createAccount(t)

	res, err := server.rpcSupportsInterface(supportsInterfaceParams{
		AccountID:   string(acct.ID()),
		InterfaceID: chain.InterfaceIDSRC5.Hex(),
	})
	require.NoError(t, err)
	assert.True(t, res.Supported)

	res, err = server.rpcSupportsInterface(supportsInterfaceParams{
		AccountID:   string(acct.ID()),
		InterfaceID: "0x1234",
	})
	require.NoError(t, err)
	assert.False(t, res.Supported)
}
