// Package program implements the token authorization program: opcode
// dispatch, the one-time-initialized configuration record, signer and
// admin guards, and supply-cap enforcement. Balance mutation is
// delegated to a Ledger capability; the program never moves value
// itself.
package program

import (
	"fmt"
	"math"

	"github.com/mintgate-labs/mintgate/internal/log"
	"github.com/mintgate-labs/mintgate/pkg/instruction"
	"github.com/mintgate-labs/mintgate/pkg/types"
	"github.com/rs/zerolog"
)

// Ledger is the external balance-keeping collaborator. Implementations
// own transfer/mint/burn execution and account bookkeeping; their
// failures (insufficient balance, unknown accounts) propagate to the
// caller unchanged.
type Ledger interface {
	Transfer(source, dest, authority types.Identity, amount uint64) error
	Mint(mint, dest, authority types.Identity, amount uint64) error
	Burn(source, mint, authority types.Identity, amount uint64) error
	// Supply returns the current outstanding supply for a mint-state.
	Supply(mint types.Identity) (uint64, error)
}

// Program validates and executes token requests.
type Program struct {
	ledger Ledger
	logger zerolog.Logger
}

// New creates a Program delegating balance mutation to the given ledger.
func New(ledger Ledger) *Program {
	return &Program{
		ledger: ledger,
		logger: log.Program,
	}
}

// Execute decodes one request and runs its handler. Each request is a
// single sequential unit of work; any failure aborts the request with
// no partial effect, since nothing is mutated before the final
// configuration write or ledger delegation.
func (p *Program) Execute(caller types.Identity, accounts []*Account, data []byte) error {
	ix, err := instruction.Decode(data)
	if err != nil {
		p.logger.Debug().Err(err).Str("caller", caller.String()).Msg("request rejected at decode")
		return err
	}

	switch v := ix.(type) {
	case instruction.Transfer:
		return p.transfer(accounts, v)
	case instruction.Mint:
		return p.mint(accounts, v)
	case instruction.Burn:
		return p.burn(accounts, v)
	case instruction.Initialize:
		return p.initialize(accounts, v)
	default:
		// Decode only produces the four variants above.
		return fmt.Errorf("%w: unhandled instruction %T", instruction.ErrInvalidRequest, ix)
	}
}

// initialize writes the configuration record into the caller-provided
// slot. The record transitions Uninitialized -> Initialized exactly
// once; Admin and MaxSupply are frozen by that transition.
func (p *Program) initialize(accounts []*Account, ix instruction.Initialize) error {
	if err := requireAccounts(accounts, initializeAccounts, "initialize"); err != nil {
		return fmt.Errorf("%w: %v", instruction.ErrInvalidRequest, err)
	}
	config := accounts[0]

	if len(config.Data) < ConfigSize {
		return fmt.Errorf("%w: slot holds %d bytes, record needs %d",
			ErrInvalidStorage, len(config.Data), ConfigSize)
	}

	var cfg Config
	if err := cfg.Unmarshal(config.Data); err != nil {
		return err
	}
	if cfg.Initialized {
		return fmt.Errorf("%w: record %s", ErrAlreadyInitialized, config.Key)
	}

	cfg.Admin = ix.Admin
	cfg.MaxSupply = ix.MaxSupply
	cfg.Initialized = true
	copy(config.Data, cfg.Marshal())

	p.logger.Info().
		Str("config", config.Key.String()).
		Str("admin", ix.Admin.String()).
		Uint64("max_supply", ix.MaxSupply).
		Msg("token initialized")
	return nil
}

// transfer passes a transfer through to the ledger. Ownership and
// balance rules are the ledger's to judge; the program only requires
// that the authority co-signed the request.
func (p *Program) transfer(accounts []*Account, ix instruction.Transfer) error {
	if err := requireAccounts(accounts, transferAccounts, "transfer"); err != nil {
		return fmt.Errorf("%w: %v", instruction.ErrInvalidRequest, err)
	}
	source, dest, authority := accounts[0], accounts[1], accounts[2]

	if err := requireSigned(authority); err != nil {
		return err
	}

	p.logger.Debug().
		Str("source", source.Key.String()).
		Str("dest", dest.Key.String()).
		Uint64("amount", ix.Amount).
		Msg("delegating transfer")
	return p.ledger.Transfer(source.Key, dest.Key, authority.Key, ix.Amount)
}

// mint enforces admin authorization and the supply cap, then delegates
// the mint to the ledger. The cap check is advisory-enforcing: it
// never lets this handler request an over-cap mint, while persisted
// supply stays with the ledger.
func (p *Program) mint(accounts []*Account, ix instruction.Mint) error {
	if err := requireAccounts(accounts, mintAccounts, "mint"); err != nil {
		return fmt.Errorf("%w: %v", instruction.ErrInvalidRequest, err)
	}
	mint, dest, authority, config := accounts[0], accounts[1], accounts[2], accounts[4]

	if err := requireSigned(authority); err != nil {
		return err
	}

	var cfg Config
	if err := cfg.Unmarshal(config.Data); err != nil {
		return err
	}
	if err := requireAdmin(authority.Key, &cfg); err != nil {
		p.logger.Warn().
			Str("authority", authority.Key.String()).
			Str("mint", mint.Key.String()).
			Msg("mint rejected: not the admin")
		return err
	}

	supply, err := p.ledger.Supply(mint.Key)
	if err != nil {
		return fmt.Errorf("read supply for %s: %w", mint.Key, err)
	}

	// Checked addition: an overflowing sum exceeds any cap.
	if supply > math.MaxUint64-ix.Amount || supply+ix.Amount > cfg.MaxSupply {
		return fmt.Errorf("%w: supply %d + amount %d over cap %d",
			ErrMaxSupplyExceeded, supply, ix.Amount, cfg.MaxSupply)
	}

	p.logger.Info().
		Str("mint", mint.Key.String()).
		Str("dest", dest.Key.String()).
		Uint64("amount", ix.Amount).
		Uint64("supply", supply).
		Uint64("max_supply", cfg.MaxSupply).
		Msg("delegating mint")
	return p.ledger.Mint(mint.Key, dest.Key, authority.Key, ix.Amount)
}

// burn passes a burn through to the ledger. Burning only decreases
// supply, so the cap is not consulted.
func (p *Program) burn(accounts []*Account, ix instruction.Burn) error {
	if err := requireAccounts(accounts, burnAccounts, "burn"); err != nil {
		return fmt.Errorf("%w: %v", instruction.ErrInvalidRequest, err)
	}
	source, mint, authority := accounts[0], accounts[1], accounts[2]

	if err := requireSigned(authority); err != nil {
		return err
	}

	p.logger.Debug().
		Str("source", source.Key.String()).
		Str("mint", mint.Key.String()).
		Uint64("amount", ix.Amount).
		Msg("delegating burn")
	return p.ledger.Burn(source.Key, mint.Key, authority.Key, ix.Amount)
}
