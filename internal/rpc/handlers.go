package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mintgate-labs/mintgate/internal/host"
	"github.com/mintgate-labs/mintgate/internal/ledger"
	"github.com/mintgate-labs/mintgate/internal/program"
	"github.com/mintgate-labs/mintgate/pkg/instruction"
	"github.com/mintgate-labs/mintgate/pkg/types"
)

// ── Token endpoints ─────────────────────────────────────────────────────

func (s *Server) handleTokenExecute(req *Request) (interface{}, *Error) {
	var params ExecuteParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	caller, rpcErr := decodeIdentity(params.Caller, "caller")
	if rpcErr != nil {
		return nil, rpcErr
	}

	data, err := hex.DecodeString(params.Data)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid data: must be hex"}
	}

	accounts := make([]host.AccountRef, len(params.Accounts))
	for i, ref := range params.Accounts {
		key, rpcErr := decodeIdentity(ref.Key, fmt.Sprintf("accounts[%d].key", i))
		if rpcErr != nil {
			return nil, rpcErr
		}
		accounts[i].Key = key

		if ref.PubKey != "" {
			pub, err := hex.DecodeString(ref.PubKey)
			if err != nil {
				return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("accounts[%d].pubkey: must be hex", i)}
			}
			accounts[i].PubKey = pub
		}
		if ref.Signature != "" {
			sig, err := hex.DecodeString(ref.Signature)
			if err != nil {
				return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("accounts[%d].signature: must be hex", i)}
			}
			accounts[i].Signature = sig
		}
	}

	if err := s.host.Dispatch(&host.Request{
		Caller:   caller,
		Accounts: accounts,
		Data:     data,
	}); err != nil {
		return nil, executionError(err)
	}

	return &ExecuteResult{Executed: true}, nil
}

func (s *Server) handleTokenCreate(req *Request) (interface{}, *Error) {
	var params CreateTokenParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	mint, rpcErr := decodeIdentity(params.Mint, "mint")
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := s.host.CreateToken(mint, params.Decimals); err != nil {
		return nil, executionError(err)
	}

	return &CreateTokenResult{
		Mint:          mint.String(),
		ConfigAccount: host.ConfigAccountFor(mint).String(),
	}, nil
}

func (s *Server) handleTokenCreateAccount(req *Request) (interface{}, *Error) {
	var params CreateAccountParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	account, rpcErr := decodeIdentity(params.Account, "account")
	if rpcErr != nil {
		return nil, rpcErr
	}
	mint, rpcErr := decodeIdentity(params.Mint, "mint")
	if rpcErr != nil {
		return nil, rpcErr
	}
	owner, rpcErr := decodeIdentity(params.Owner, "owner")
	if rpcErr != nil {
		return nil, rpcErr
	}

	if err := s.host.CreateTokenAccount(account, mint, owner); err != nil {
		return nil, executionError(err)
	}

	return &CreateAccountResult{Account: account.String()}, nil
}

func (s *Server) handleTokenGetConfig(req *Request) (interface{}, *Error) {
	var params MintParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	mint, rpcErr := decodeIdentity(params.Mint, "mint")
	if rpcErr != nil {
		return nil, rpcErr
	}

	cfg, err := s.host.Config(mint)
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("config not found: %v", err)}
	}

	return &ConfigResult{
		Mint:          mint.String(),
		ConfigAccount: host.ConfigAccountFor(mint).String(),
		Initialized:   cfg.Initialized,
		MaxSupply:     cfg.MaxSupply,
		Admin:         cfg.Admin.String(),
	}, nil
}

func (s *Server) handleTokenGetSupply(req *Request) (interface{}, *Error) {
	var params MintParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	mint, rpcErr := decodeIdentity(params.Mint, "mint")
	if rpcErr != nil {
		return nil, rpcErr
	}

	state, err := s.host.Ledger().MintState(mint)
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("mint not found: %v", err)}
	}

	return &SupplyResult{
		Mint:     mint.String(),
		Supply:   state.Supply,
		Decimals: state.Decimals,
	}, nil
}

func (s *Server) handleTokenGetBalance(req *Request) (interface{}, *Error) {
	var params AccountParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	account, rpcErr := decodeIdentity(params.Account, "account")
	if rpcErr != nil {
		return nil, rpcErr
	}

	acct, err := s.host.Ledger().Account(account)
	if err != nil {
		return nil, &Error{Code: CodeNotFound, Message: fmt.Sprintf("account not found: %v", err)}
	}

	return &BalanceResult{
		Account: account.String(),
		Mint:    acct.Mint.String(),
		Owner:   acct.Owner.String(),
		Balance: acct.Balance,
	}, nil
}

// ── Node endpoints ──────────────────────────────────────────────────────

func (s *Server) handleNodeGetInfo(_ *Request) (interface{}, *Error) {
	return &NodeInfoResult{
		Version: Version,
		Network: s.network,
	}, nil
}

// ── Helpers ─────────────────────────────────────────────────────────────

// decodeIdentity parses a 32-byte hex identity from a param field.
func decodeIdentity(s, field string) (types.Identity, *Error) {
	if s == "" {
		return types.Identity{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("%s is required", field)}
	}
	id, err := types.HexToIdentity(s)
	if err != nil {
		return types.Identity{}, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid %s: must be 32-byte hex", field)}
	}
	return id, nil
}

// executionError maps a failed execution to a stable JSON-RPC error.
func executionError(err error) *Error {
	code := CodeInternalError
	switch {
	case errors.Is(err, instruction.ErrInvalidRequest),
		errors.Is(err, instruction.ErrInvalidAmount),
		errors.Is(err, host.ErrConfigMismatch):
		code = CodeBadRequestData
	case errors.Is(err, program.ErrMissingSignature):
		code = CodeMissingSignature
	case errors.Is(err, program.ErrUnauthorizedMint):
		code = CodeUnauthorized
	case errors.Is(err, program.ErrMaxSupplyExceeded):
		code = CodeMaxSupplyExceeded
	case errors.Is(err, program.ErrAlreadyInitialized),
		errors.Is(err, host.ErrTokenExists),
		errors.Is(err, ledger.ErrMintExists),
		errors.Is(err, ledger.ErrAccountExists):
		code = CodeAlreadyInitialized
	case errors.Is(err, program.ErrInvalidStorage),
		errors.Is(err, program.ErrInvalidConfigData):
		code = CodeBadStorage
	case errors.Is(err, ledger.ErrUnknownMint),
		errors.Is(err, ledger.ErrUnknownAccount):
		code = CodeNotFound
	case errors.Is(err, ledger.ErrMintMismatch),
		errors.Is(err, ledger.ErrNotOwner),
		errors.Is(err, ledger.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrBalanceOverflow):
		code = CodeLedgerRejected
	}
	return &Error{Code: code, Message: err.Error()}
}
