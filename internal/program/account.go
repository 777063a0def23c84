package program

import (
	"fmt"

	"github.com/mintgate-labs/mintgate/pkg/types"
)

// Account is one referenced account for the duration of a request. The
// host resolves identities, allocates Data slots, and sets the Signer
// flag after verifying signatures; the program only inspects it.
type Account struct {
	Key    types.Identity
	Signer bool
	Data   []byte
}

// Account role positions per opcode (spec'd positional order).
const (
	// Transfer: [source, destination, authority, ledger-program]
	transferAccounts = 4
	// Mint: [mint-state, destination, mint-authority, ledger-program, config-record]
	mintAccounts = 5
	// Burn: [source, mint-state, burn-authority, ledger-program]
	burnAccounts = 4
	// Initialize: [config-record]
	initializeAccounts = 1
)

// requireAccounts checks that a handler received enough account
// references for its role table.
func requireAccounts(accounts []*Account, want int, op string) error {
	if len(accounts) < want {
		return fmt.Errorf("%s: expected %d accounts, got %d", op, want, len(accounts))
	}
	for i, acct := range accounts[:want] {
		if acct == nil {
			return fmt.Errorf("%s: account %d is nil", op, i)
		}
	}
	return nil
}

// requireSigned fails unless the host marked the account as a signer
// of the current request.
func requireSigned(acct *Account) error {
	if !acct.Signer {
		return fmt.Errorf("%w: account %s", ErrMissingSignature, acct.Key)
	}
	return nil
}

// requireAdmin fails unless the authority identity matches the
// configured admin.
func requireAdmin(authority types.Identity, cfg *Config) error {
	if authority != cfg.Admin {
		return fmt.Errorf("%w: authority %s is not the configured admin", ErrUnauthorizedMint, authority)
	}
	return nil
}
