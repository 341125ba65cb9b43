package jsonrpc

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"

	"github.com/codeWhizperer/TBA/errors"
	"github.com/codeWhizperer/TBA/logx"
	"github.com/codeWhizperer/TBA/monitoring"
	"github.com/codeWhizperer/TBA/types"
)

// --- Error type used by handlers ---

var rpcErrorCodes = map[errors.AccountErrorCode]int{
	errors.ErrCodeInvalidRequest:         -32600,
	errors.ErrCodeUnauthorized:           -32001,
	errors.ErrCodeInvalidSignature:       -32002,
	errors.ErrCodeInvalidSignatureLength: -32003,
	errors.ErrCodeAlreadyLocked:          -32004,
	errors.ErrCodeAccountLocked:          -32005,
	errors.ErrCodeOverflow:               -32006,
	errors.ErrCodeLockDurationTooLong:    -32007,
	errors.ErrCodeResolutionFailed:       -32008,
	errors.ErrCodeMulticallFailed:        -32009,
	errors.ErrCodeInvalidImplementation:  -32010,
	errors.ErrCodeAccountNotFound:        -32011,
	errors.ErrCodeAccountExists:          -32012,
}

func toJRPC2Error(err error) error {
	var accErr *errors.AccountError
	if stderrors.As(err, &accErr) {
		code, ok := rpcErrorCodes[accErr.Code]
		if !ok {
			code = -32000
		}
		return jrpc2.Errorf(jrpc2.Code(code), "%s", accErr.Message).WithData(accErr)
	}
	return jrpc2.Errorf(-32000, "%s", err.Error())
}

// --- Params/Results ---

type createAccountParams struct {
	AssetContract string `json:"asset_contract"`
	AssetID       string `json:"asset_id"`
}

type createAccountResponse struct {
	AccountID string `json:"account_id"`
	Owner     string `json:"owner"`
}

type validateSignatureParams struct {
	AccountID string   `json:"account_id"`
	Caller    string   `json:"caller"`
	Hash      string   `json:"hash"`
	Signature []string `json:"signature"`
}

type validateDeployParams struct {
	AccountID string   `json:"account_id"`
	Caller    string   `json:"caller"`
	ClassHash string   `json:"class_hash"`
	Salt      string   `json:"salt"`
	Hash      string   `json:"hash"`
	Signature []string `json:"signature"`
}

type validateDeclareParams struct {
	AccountID string   `json:"account_id"`
	Caller    string   `json:"caller"`
	ClassHash string   `json:"class_hash"`
	Hash      string   `json:"hash"`
	Signature []string `json:"signature"`
}

type validateTransactionParams struct {
	AccountID string      `json:"account_id"`
	Caller    string      `json:"caller"`
	Calls     []callParam `json:"calls"`
	Hash      string      `json:"hash"`
	Signature []string    `json:"signature"`
}

type validateResponse struct {
	Magic string `json:"magic"`
}

type executeParams struct {
	AccountID string      `json:"account_id"`
	Caller    string      `json:"caller"`
	Calls     []callParam `json:"calls"`
}

type executeResponse struct {
	TxHash    string     `json:"tx_hash"`
	Responses [][]string `json:"responses"`
}

type accountIDParams struct {
	AccountID string `json:"account_id"`
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

type tokenResponse struct {
	AssetContract string `json:"asset_contract"`
	AssetID       string `json:"asset_id"`
}

type upgradeParams struct {
	AccountID      string `json:"account_id"`
	Caller         string `json:"caller"`
	Implementation string `json:"implementation"`
}

type lockParams struct {
	AccountID string `json:"account_id"`
	Caller    string `json:"caller"`
	Duration  uint64 `json:"duration"`
}

type isLockedResponse struct {
	Locked    bool   `json:"locked"`
	Remaining uint64 `json:"remaining"`
}

type supportsInterfaceParams struct {
	AccountID   string `json:"account_id"`
	InterfaceID string `json:"interface_id"`
}

type supportsInterfaceResponse struct {
	Supported bool `json:"supported"`
}

type emptyResponse struct{}

// --- Server ---

type Server struct {
	addr     string
	registry *Registry
}

func NewServer(addr string, registry *Registry) *Server {
	return &Server{
		addr:     addr,
		registry: registry,
	}
}

func (s *Server) Start() {
	methods := s.buildMethodMap()
	jh := jhttp.NewBridge(methods, &jhttp.BridgeOptions{Server: &jrpc2.ServerOptions{}})

	http.Handle("/", jh)
	go func() {
		if err := http.ListenAndServe(s.addr, nil); err != nil {
			logx.Error("JSONRPC", "server stopped: ", err)
		}
	}()
	logx.Info("JSONRPC", "listening on ", s.addr)
}

// instrument records the operation and, on failure, the rejection reason.
func instrument(method string, err error) {
	monitoring.RecordOperation(method)
	if err != nil {
		monitoring.RecordRejectedOperation(string(errors.CodeOf(err)))
	}
}

// Build jrpc2 method map
func (s *Server) buildMethodMap() handler.Map {
	return handler.Map{
		MethodCreateAccount: handler.New(func(ctx context.Context, p createAccountParams) (*createAccountResponse, error) {
			res, err := s.rpcCreateAccount(p)
			instrument(MethodCreateAccount, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodValidateSignature: handler.New(func(ctx context.Context, p validateSignatureParams) (*validateResponse, error) {
			res, err := s.rpcValidateSignature(p)
			instrument(MethodValidateSignature, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodValidateDeploy: handler.New(func(ctx context.Context, p validateDeployParams) (*validateResponse, error) {
			res, err := s.rpcValidateDeploy(p)
			instrument(MethodValidateDeploy, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodValidateDeclare: handler.New(func(ctx context.Context, p validateDeclareParams) (*validateResponse, error) {
			res, err := s.rpcValidateDeclare(p)
			instrument(MethodValidateDeclare, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodValidateTransaction: handler.New(func(ctx context.Context, p validateTransactionParams) (*validateResponse, error) {
			res, err := s.rpcValidateTransaction(p)
			instrument(MethodValidateTransaction, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodExecute: handler.New(func(ctx context.Context, p executeParams) (*executeResponse, error) {
			res, err := s.rpcExecute(p)
			instrument(MethodExecute, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodOwner: handler.New(func(ctx context.Context, p accountIDParams) (*ownerResponse, error) {
			res, err := s.rpcOwner(p)
			instrument(MethodOwner, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodToken: handler.New(func(ctx context.Context, p accountIDParams) (*tokenResponse, error) {
			res, err := s.rpcToken(p)
			instrument(MethodToken, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodUpgrade: handler.New(func(ctx context.Context, p upgradeParams) (*emptyResponse, error) {
			err := s.rpcUpgrade(p)
			instrument(MethodUpgrade, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &emptyResponse{}, nil
		}),
		MethodLock: handler.New(func(ctx context.Context, p lockParams) (*emptyResponse, error) {
			err := s.rpcLock(p)
			instrument(MethodLock, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return &emptyResponse{}, nil
		}),
		MethodIsLocked: handler.New(func(ctx context.Context, p accountIDParams) (*isLockedResponse, error) {
			res, err := s.rpcIsLocked(p)
			instrument(MethodIsLocked, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
		MethodSupportsInterface: handler.New(func(ctx context.Context, p supportsInterfaceParams) (*supportsInterfaceResponse, error) {
			res, err := s.rpcSupportsInterface(p)
			instrument(MethodSupportsInterface, err)
			if err != nil {
				return nil, toJRPC2Error(err)
			}
			return res, nil
		}),
	}
}

// --- Handlers ---

func (s *Server) rpcCreateAccount(p createAccountParams) (*createAccountResponse, error) {
	assetContract, err := parseAddress(p.AssetContract)
	if err != nil {
		return nil, err
	}
	assetID, err := parseFelt(p.AssetID)
	if err != nil {
		return nil, err
	}

	acct, owner, err := s.registry.CreateAccount(assetContract, assetID)
	if err != nil {
		return nil, err
	}
	return &createAccountResponse{
		AccountID: string(acct.ID()),
		Owner:     string(owner),
	}, nil
}

func (s *Server) rpcValidateSignature(p validateSignatureParams) (*validateResponse, error) {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return nil, err
	}
	hash, err := parseFelt(p.Hash)
	if err != nil {
		return nil, err
	}
	signature, err := parseFelts(p.Signature)
	if err != nil {
		return nil, err
	}

	magic, err := s.registry.ValidateSignature(id, caller, hash, signature)
	if err != nil {
		return nil, err
	}
	return &validateResponse{Magic: magic.Hex()}, nil
}

func (s *Server) rpcValidateDeploy(p validateDeployParams) (*validateResponse, error) {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return nil, err
	}
	classHash, err := parseFelt(p.ClassHash)
	if err != nil {
		return nil, err
	}
	salt, err := parseFelt(p.Salt)
	if err != nil {
		return nil, err
	}
	hash, err := parseFelt(p.Hash)
	if err != nil {
		return nil, err
	}
	signature, err := parseFelts(p.Signature)
	if err != nil {
		return nil, err
	}

	magic, err := s.registry.ValidateDeploy(id, caller, classHash, salt, hash, signature)
	if err != nil {
		return nil, err
	}
	return &validateResponse{Magic: magic.Hex()}, nil
}

func (s *Server) rpcValidateDeclare(p validateDeclareParams) (*validateResponse, error) {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return nil, err
	}
	classHash, err := parseFelt(p.ClassHash)
	if err != nil {
		return nil, err
	}
	hash, err := parseFelt(p.Hash)
	if err != nil {
		return nil, err
	}
	signature, err := parseFelts(p.Signature)
	if err != nil {
		return nil, err
	}

	magic, err := s.registry.ValidateDeclare(id, caller, classHash, hash, signature)
	if err != nil {
		return nil, err
	}
	return &validateResponse{Magic: magic.Hex()}, nil
}

func (s *Server) rpcValidateTransaction(p validateTransactionParams) (*validateResponse, error) {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return nil, err
	}
	calls, err := parseCalls(p.Calls)
	if err != nil {
		return nil, err
	}
	hash, err := parseFelt(p.Hash)
	if err != nil {
		return nil, err
	}
	signature, err := parseFelts(p.Signature)
	if err != nil {
		return nil, err
	}

	magic, err := s.registry.ValidateTransaction(id, caller, calls, hash, signature)
	if err != nil {
		return nil, err
	}
	return &validateResponse{Magic: magic.Hex()}, nil
}

func (s *Server) rpcExecute(p executeParams) (*executeResponse, error) {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return nil, err
	}
	calls, err := parseCalls(p.Calls)
	if err != nil {
		return nil, err
	}

	txHash, responses, err := s.registry.Execute(id, caller, calls)
	if err != nil {
		return nil, err
	}
	return &executeResponse{
		TxHash:    txHash.Hex(),
		Responses: responsesToHex(responses),
	}, nil
}

func (s *Server) rpcOwner(p accountIDParams) (*ownerResponse, error) {
	id, err := parseAddress(p.AccountID)
	if err != nil {
		return nil, err
	}
	owner, err := s.registry.Owner(id)
	if err != nil {
		return nil, err
	}
	return &ownerResponse{Owner: string(owner)}, nil
}

func (s *Server) rpcToken(p accountIDParams) (*tokenResponse, error) {
	id, err := parseAddress(p.AccountID)
	if err != nil {
		return nil, err
	}
	assetContract, assetID, err := s.registry.Token(id)
	if err != nil {
		return nil, err
	}
	return &tokenResponse{
		AssetContract: string(assetContract),
		AssetID:       assetID.Hex(),
	}, nil
}

func (s *Server) rpcUpgrade(p upgradeParams) error {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return err
	}
	implementation, err := parseAddress(p.Implementation)
	if err != nil {
		return err
	}
	return s.registry.Upgrade(id, caller, implementation)
}

func (s *Server) rpcLock(p lockParams) error {
	id, caller, err := parseIDAndCaller(p.AccountID, p.Caller)
	if err != nil {
		return err
	}
	return s.registry.Lock(id, caller, p.Duration)
}

func (s *Server) rpcIsLocked(p accountIDParams) (*isLockedResponse, error) {
	id, err := parseAddress(p.AccountID)
	if err != nil {
		return nil, err
	}
	locked, remaining, err := s.registry.IsLocked(id)
	if err != nil {
		return nil, err
	}
	return &isLockedResponse{Locked: locked, Remaining: remaining}, nil
}

func (s *Server) rpcSupportsInterface(p supportsInterfaceParams) (*supportsInterfaceResponse, error) {
	id, err := parseAddress(p.AccountID)
	if err != nil {
		return nil, err
	}
	interfaceID, err := parseFelt(p.InterfaceID)
	if err != nil {
		return nil, err
	}
	supported, err := s.registry.SupportsInterface(id, interfaceID)
	if err != nil {
		return nil, err
	}
	return &supportsInterfaceResponse{Supported: supported}, nil
}

func parseIDAndCaller(accountID, caller string) (types.Address, types.Address, error) {
	id, err := parseAddress(accountID)
	if err != nil {
		return types.ZeroAddress, types.ZeroAddress, err
	}
	from, err := parseAddress(caller)
	if err != nil {
		return types.ZeroAddress, types.ZeroAddress, err
	}
	return id, from, nil
}
