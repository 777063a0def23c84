// Package ledger implements the balance-keeping collaborator the token
// program delegates to.
//
// The ledger owns mint-state records (outstanding supply) and token
// accounts (per-holder balances bound to one mint). Its ownership
// rules are its own: the program's guards decide who may ask, the
// ledger decides whether the books allow it.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mintgate-labs/mintgate/internal/log"
	"github.com/mintgate-labs/mintgate/internal/storage"
	"github.com/mintgate-labs/mintgate/pkg/types"
	"github.com/rs/zerolog"
)

// Ledger errors. These surface to program callers unchanged.
var (
	ErrUnknownMint         = errors.New("unknown mint-state")
	ErrUnknownAccount      = errors.New("unknown token account")
	ErrMintExists          = errors.New("mint-state already exists")
	ErrAccountExists       = errors.New("token account already exists")
	ErrMintMismatch        = errors.New("token account belongs to a different mint")
	ErrNotOwner            = errors.New("authority does not own the source account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// Key prefixes.
var (
	prefixMint    = []byte("m/") // m/<mint(32)>    -> MintState JSON
	prefixAccount = []byte("t/") // t/<account(32)> -> TokenAccount JSON
)

// MintState is the per-mint supply record.
type MintState struct {
	Supply   uint64 `json:"supply"`
	Decimals uint8  `json:"decimals"`
}

// TokenAccount holds one holder's balance for one mint.
type TokenAccount struct {
	Mint    types.Identity `json:"mint"`
	Owner   types.Identity `json:"owner"`
	Balance uint64         `json:"balance"`
}

// Store is the persistent ledger.
type Store struct {
	db     storage.DB
	logger zerolog.Logger
}

// NewStore creates a ledger over the given database.
func NewStore(db storage.DB) *Store {
	return &Store{db: db, logger: log.Ledger}
}

// CreateMint registers a new mint-state with zero supply.
func (s *Store) CreateMint(mint types.Identity, decimals uint8) error {
	has, err := s.db.Has(mintKey(mint))
	if err != nil {
		return fmt.Errorf("mint lookup: %w", err)
	}
	if has {
		return fmt.Errorf("%w: %s", ErrMintExists, mint)
	}
	return s.putMintState(mint, &MintState{Decimals: decimals})
}

// CreateAccount registers an empty token account bound to a mint.
func (s *Store) CreateAccount(account, mint, owner types.Identity) error {
	if _, err := s.MintState(mint); err != nil {
		return err
	}
	has, err := s.db.Has(accountKey(account))
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	if has {
		return fmt.Errorf("%w: %s", ErrAccountExists, account)
	}
	return s.putAccount(account, &TokenAccount{Mint: mint, Owner: owner})
}

// MintState loads the supply record for a mint.
func (s *Store) MintState(mint types.Identity) (*MintState, error) {
	data, err := s.db.Get(mintKey(mint))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMint, mint)
	}
	var st MintState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("mint-state unmarshal: %w", err)
	}
	return &st, nil
}

// Supply returns the outstanding supply for a mint.
func (s *Store) Supply(mint types.Identity) (uint64, error) {
	st, err := s.MintState(mint)
	if err != nil {
		return 0, err
	}
	return st.Supply, nil
}

// Account loads a token account.
func (s *Store) Account(account types.Identity) (*TokenAccount, error) {
	data, err := s.db.Get(accountKey(account))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	var acct TokenAccount
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, fmt.Errorf("token account unmarshal: %w", err)
	}
	return &acct, nil
}

// Balance returns a token account's balance.
func (s *Store) Balance(account types.Identity) (uint64, error) {
	acct, err := s.Account(account)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// Transfer moves tokens between two accounts of the same mint. The
// authority must own the source account.
func (s *Store) Transfer(source, dest, authority types.Identity, amount uint64) error {
	src, err := s.Account(source)
	if err != nil {
		return err
	}
	dst, err := s.Account(dest)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: source %s, dest %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if authority != src.Owner {
		return fmt.Errorf("%w: authority %s", ErrNotOwner, authority)
	}
	if src.Balance < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, src.Balance, amount)
	}
	if dst.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: destination %s", ErrBalanceOverflow, dest)
	}

	src.Balance -= amount
	dst.Balance += amount
	if err := s.putAccount(source, src); err != nil {
		return err
	}
	if err := s.putAccount(dest, dst); err != nil {
		return err
	}

	s.logger.Debug().
		Str("source", source.String()).
		Str("dest", dest.String()).
		Uint64("amount", amount).
		Msg("transfer applied")
	return nil
}

// Mint credits newly created tokens to the destination account and
// increases the mint's outstanding supply.
func (s *Store) Mint(mint, dest, authority types.Identity, amount uint64) error {
	st, err := s.MintState(mint)
	if err != nil {
		return err
	}
	dst, err := s.Account(dest)
	if err != nil {
		return err
	}
	if dst.Mint != mint {
		return fmt.Errorf("%w: account %s", ErrMintMismatch, dest)
	}
	if st.Supply > math.MaxUint64-amount {
		return fmt.Errorf("%w: supply", ErrBalanceOverflow)
	}
	if dst.Balance > math.MaxUint64-amount {
		return fmt.Errorf("%w: destination %s", ErrBalanceOverflow, dest)
	}

	st.Supply += amount
	dst.Balance += amount
	if err := s.putMintState(mint, st); err != nil {
		return err
	}
	if err := s.putAccount(dest, dst); err != nil {
		return err
	}

	s.logger.Debug().
		Str("mint", mint.String()).
		Str("dest", dest.String()).
		Uint64("amount", amount).
		Uint64("supply", st.Supply).
		Msg("mint applied")
	return nil
}

// Burn removes tokens from the source account and decreases the
// mint's outstanding supply. The authority must own the source.
func (s *Store) Burn(source, mint, authority types.Identity, amount uint64) error {
	st, err := s.MintState(mint)
	if err != nil {
		return err
	}
	src, err := s.Account(source)
	if err != nil {
		return err
	}
	if src.Mint != mint {
		return fmt.Errorf("%w: account %s", ErrMintMismatch, source)
	}
	if authority != src.Owner {
		return fmt.Errorf("%w: authority %s", ErrNotOwner, authority)
	}
	if src.Balance < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, src.Balance, amount)
	}
	if st.Supply < amount {
		// Supply accounting broke; refuse rather than wrap.
		return fmt.Errorf("%w: supply %d below burn amount %d", ErrInsufficientBalance, st.Supply, amount)
	}

	st.Supply -= amount
	src.Balance -= amount
	if err := s.putMintState(mint, st); err != nil {
		return err
	}
	if err := s.putAccount(source, src); err != nil {
		return err
	}

	s.logger.Debug().
		Str("source", source.String()).
		Str("mint", mint.String()).
		Uint64("amount", amount).
		Uint64("supply", st.Supply).
		Msg("burn applied")
	return nil
}

func (s *Store) putMintState(mint types.Identity, st *MintState) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("mint-state marshal: %w", err)
	}
	return s.db.Put(mintKey(mint), data)
}

func (s *Store) putAccount(account types.Identity, acct *TokenAccount) error {
	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("token account marshal: %w", err)
	}
	return s.db.Put(accountKey(account), data)
}

func mintKey(mint types.Identity) []byte {
	key := make([]byte, len(prefixMint)+types.IdentitySize)
	copy(key, prefixMint)
	copy(key[len(prefixMint):], mint[:])
	return key
}

func accountKey(account types.Identity) []byte {
	key := make([]byte, len(prefixAccount)+types.IdentitySize)
	copy(key, prefixAccount)
	copy(key[len(prefixAccount):], account[:])
	return key
}
