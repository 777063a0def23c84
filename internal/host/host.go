// Package host is the execution environment around the token program.
//
// The host owns what the program assumes: it resolves referenced
// accounts to their persisted storage slots, verifies request
// signatures and attaches signer flags, runs the program, and writes
// mutated slots back only when the whole request succeeded. Ordering
// of conflicting requests is the caller's job; one Dispatch call sees
// a single consistent snapshot of each account.
package host

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mintgate-labs/mintgate/internal/ledger"
	"github.com/mintgate-labs/mintgate/internal/log"
	"github.com/mintgate-labs/mintgate/internal/program"
	"github.com/mintgate-labs/mintgate/internal/storage"
	"github.com/mintgate-labs/mintgate/pkg/crypto"
	"github.com/mintgate-labs/mintgate/pkg/instruction"
	"github.com/mintgate-labs/mintgate/pkg/types"
	"github.com/rs/zerolog"
)

// configTag domain-separates derived config-record identities.
const configTag = "mintgate/config/v1"

// prefixSlot keys persisted account slots: a/<identity(32)> -> raw bytes.
var prefixSlot = []byte("a/")

// LedgerProgram is the well-known identity requests reference in the
// ledger-program account position.
var LedgerProgram = crypto.DeriveIdentity("mintgate/ledger/v1", types.Identity{})

// Host errors.
var (
	ErrConfigMismatch = errors.New("config record does not belong to the referenced mint-state")
	ErrTokenExists    = errors.New("token already created")
)

// AccountRef is one referenced account in an incoming request. PubKey
// and Signature are set for accounts that co-signed the request.
type AccountRef struct {
	Key       types.Identity
	PubKey    []byte
	Signature []byte
}

// Request is one dispatchable unit of work.
type Request struct {
	Caller   types.Identity
	Accounts []AccountRef
	Data     []byte
}

// Host loads accounts, verifies signatures and runs the token program.
type Host struct {
	db      storage.DB
	ledger  *ledger.Store
	program *program.Program
	logger  zerolog.Logger
}

// New creates a host over the given database. The ledger shares the
// database; account slots live under their own key prefix.
func New(db storage.DB) *Host {
	led := ledger.NewStore(db)
	return &Host{
		db:      db,
		ledger:  led,
		program: program.New(led),
		logger:  log.Host,
	}
}

// Ledger exposes the ledger store for queries.
func (h *Host) Ledger() *ledger.Store {
	return h.ledger
}

// ConfigAccountFor derives the identity of the configuration slot
// governing a mint-state. The derivation fixes a 1:1 binding: a config
// record can only ever be resolved for its own mint.
func ConfigAccountFor(mint types.Identity) types.Identity {
	return crypto.DeriveIdentity(configTag, mint)
}

// RequestDigest computes the digest request signers commit to:
// BLAKE3(data || account keys in reference order).
func RequestDigest(data []byte, accounts []AccountRef) types.Hash {
	buf := make([]byte, 0, len(data)+len(accounts)*types.IdentitySize)
	buf = append(buf, data...)
	for _, ref := range accounts {
		buf = append(buf, ref.Key[:]...)
	}
	return crypto.Hash(buf)
}

// CreateToken registers a new mint-state and allocates its zeroed
// configuration slot. The slot is sized for the config record, per the
// record's caller-allocated lifecycle.
func (h *Host) CreateToken(mint types.Identity, decimals uint8) error {
	configAcct := ConfigAccountFor(mint)
	has, err := h.db.Has(slotKey(configAcct))
	if err != nil {
		return fmt.Errorf("config slot lookup: %w", err)
	}
	if has {
		return fmt.Errorf("%w: mint %s", ErrTokenExists, mint)
	}

	if err := h.ledger.CreateMint(mint, decimals); err != nil {
		return err
	}
	if err := h.db.Put(slotKey(configAcct), make([]byte, program.ConfigSize)); err != nil {
		return fmt.Errorf("allocate config slot: %w", err)
	}

	h.logger.Info().
		Str("mint", mint.String()).
		Str("config", configAcct.String()).
		Msg("token created")
	return nil
}

// CreateTokenAccount registers a holder account for a mint.
func (h *Host) CreateTokenAccount(account, mint, owner types.Identity) error {
	return h.ledger.CreateAccount(account, mint, owner)
}

// Config loads the configuration record governing a mint.
func (h *Host) Config(mint types.Identity) (*program.Config, error) {
	slot, err := h.db.Get(slotKey(ConfigAccountFor(mint)))
	if err != nil {
		return nil, fmt.Errorf("%w: no config slot for mint %s", program.ErrInvalidConfigData, mint)
	}
	var cfg program.Config
	if err := cfg.Unmarshal(slot); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Dispatch runs one request to a terminal outcome. Mutated account
// slots are persisted only when the program succeeded; a failure at
// any step leaves every slot untouched.
func (h *Host) Dispatch(req *Request) error {
	if err := h.checkConfigBinding(req); err != nil {
		return err
	}

	digest := RequestDigest(req.Data, req.Accounts)
	accounts := make([]*program.Account, len(req.Accounts))
	snapshots := make([][]byte, len(req.Accounts))

	for i, ref := range req.Accounts {
		slot, err := h.loadSlot(ref.Key)
		if err != nil {
			return err
		}
		snapshots[i] = slot

		acct := &program.Account{Key: ref.Key, Signer: h.verifySigner(ref, digest)}
		if slot != nil {
			acct.Data = bytes.Clone(slot)
		}
		accounts[i] = acct
	}

	if err := h.program.Execute(req.Caller, accounts, req.Data); err != nil {
		return err
	}

	// Write back slots the program mutated.
	for i, acct := range accounts {
		if acct.Data == nil || bytes.Equal(acct.Data, snapshots[i]) {
			continue
		}
		if err := h.db.Put(slotKey(acct.Key), acct.Data); err != nil {
			return fmt.Errorf("persist slot %s: %w", acct.Key, err)
		}
	}
	return nil
}

// checkConfigBinding rejects mint requests whose config-record
// reference is not the slot derived for the referenced mint-state.
func (h *Host) checkConfigBinding(req *Request) error {
	if len(req.Data) < 1 || instruction.Opcode(req.Data[0]) != instruction.OpMint {
		return nil
	}
	if len(req.Accounts) < 5 {
		return nil // The program reports the arity error.
	}
	mint, config := req.Accounts[0].Key, req.Accounts[4].Key
	if config != ConfigAccountFor(mint) {
		return fmt.Errorf("%w: mint %s, config %s", ErrConfigMismatch, mint, config)
	}
	return nil
}

// verifySigner reports whether the reference carries a valid signature
// over the request digest by the key behind the account identity.
// Anything short of that leaves the account unsigned.
func (h *Host) verifySigner(ref AccountRef, digest types.Hash) bool {
	if len(ref.PubKey) == 0 || len(ref.Signature) == 0 {
		return false
	}
	if crypto.IdentityFromPubKey(ref.PubKey) != ref.Key {
		h.logger.Warn().
			Str("account", ref.Key.String()).
			Msg("signature pubkey does not match account identity")
		return false
	}
	if !crypto.VerifySignature(digest[:], ref.Signature, ref.PubKey) {
		h.logger.Warn().
			Str("account", ref.Key.String()).
			Msg("invalid request signature")
		return false
	}
	return true
}

// loadSlot returns the persisted slot bytes for an account, or nil if
// the account has no allocated slot.
func (h *Host) loadSlot(key types.Identity) ([]byte, error) {
	has, err := h.db.Has(slotKey(key))
	if err != nil {
		return nil, fmt.Errorf("slot lookup %s: %w", key, err)
	}
	if !has {
		return nil, nil
	}
	slot, err := h.db.Get(slotKey(key))
	if err != nil {
		return nil, fmt.Errorf("slot load %s: %w", key, err)
	}
	return slot, nil
}

func slotKey(id types.Identity) []byte {
	key := make([]byte, len(prefixSlot)+types.IdentitySize)
	copy(key, prefixSlot)
	copy(key[len(prefixSlot):], id[:])
	return key
}
