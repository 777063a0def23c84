package ledger

import (
	"errors"
	"math"
	"testing"

	"github.com/mintgate-labs/mintgate/internal/storage"
	"github.com/mintgate-labs/mintgate/pkg/types"
)

var (
	testMint  = types.Identity{0x10}
	aliceAcct = types.Identity{0xa0}
	alice     = types.Identity{0xa1}
	bobAcct   = types.Identity{0xb0}
	bob       = types.Identity{0xb1}
)

// newTestStore builds a ledger with one mint and accounts for alice
// and bob, alice funded with the given balance.
func newTestStore(t *testing.T, funded uint64) *Store {
	t.Helper()
	s := NewStore(storage.NewMemory())
	if err := s.CreateMint(testMint, 8); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}
	if err := s.CreateAccount(aliceAcct, testMint, alice); err != nil {
		t.Fatalf("CreateAccount alice: %v", err)
	}
	if err := s.CreateAccount(bobAcct, testMint, bob); err != nil {
		t.Fatalf("CreateAccount bob: %v", err)
	}
	if funded > 0 {
		if err := s.Mint(testMint, aliceAcct, alice, funded); err != nil {
			t.Fatalf("fund alice: %v", err)
		}
	}
	return s
}

func TestCreateMint_Duplicate(t *testing.T) {
	s := NewStore(storage.NewMemory())
	if err := s.CreateMint(testMint, 8); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}
	if err := s.CreateMint(testMint, 8); !errors.Is(err, ErrMintExists) {
		t.Errorf("duplicate CreateMint = %v, want ErrMintExists", err)
	}
}

func TestCreateAccount_UnknownMint(t *testing.T) {
	s := NewStore(storage.NewMemory())
	err := s.CreateAccount(aliceAcct, testMint, alice)
	if !errors.Is(err, ErrUnknownMint) {
		t.Errorf("CreateAccount = %v, want ErrUnknownMint", err)
	}
}

func TestSupply_UnknownMint(t *testing.T) {
	s := NewStore(storage.NewMemory())
	if _, err := s.Supply(testMint); !errors.Is(err, ErrUnknownMint) {
		t.Errorf("Supply = %v, want ErrUnknownMint", err)
	}
}

func TestMint_IncreasesSupplyAndBalance(t *testing.T) {
	s := newTestStore(t, 0)

	if err := s.Mint(testMint, aliceAcct, alice, 500); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	supply, err := s.Supply(testMint)
	if err != nil {
		t.Fatalf("Supply: %v", err)
	}
	if supply != 500 {
		t.Errorf("supply = %d, want 500", supply)
	}

	balance, err := s.Balance(aliceAcct)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 500 {
		t.Errorf("balance = %d, want 500", balance)
	}
}

func TestMint_WrongMintAccount(t *testing.T) {
	s := newTestStore(t, 0)
	otherMint := types.Identity{0x11}
	if err := s.CreateMint(otherMint, 0); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}

	err := s.Mint(otherMint, aliceAcct, alice, 1)
	if !errors.Is(err, ErrMintMismatch) {
		t.Errorf("Mint = %v, want ErrMintMismatch", err)
	}
}

func TestTransfer(t *testing.T) {
	s := newTestStore(t, 1000)

	if err := s.Transfer(aliceAcct, bobAcct, alice, 300); err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	aliceBal, _ := s.Balance(aliceAcct)
	bobBal, _ := s.Balance(bobAcct)
	if aliceBal != 700 || bobBal != 300 {
		t.Errorf("balances = %d/%d, want 700/300", aliceBal, bobBal)
	}

	// Transfers do not change supply.
	supply, _ := s.Supply(testMint)
	if supply != 1000 {
		t.Errorf("supply = %d, want 1000", supply)
	}
}

func TestTransfer_NotOwner(t *testing.T) {
	s := newTestStore(t, 1000)

	err := s.Transfer(aliceAcct, bobAcct, bob, 10)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Transfer = %v, want ErrNotOwner", err)
	}
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	s := newTestStore(t, 10)

	err := s.Transfer(aliceAcct, bobAcct, alice, 11)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Transfer = %v, want ErrInsufficientBalance", err)
	}

	// No partial effect.
	aliceBal, _ := s.Balance(aliceAcct)
	bobBal, _ := s.Balance(bobAcct)
	if aliceBal != 10 || bobBal != 0 {
		t.Errorf("balances mutated by failed transfer: %d/%d", aliceBal, bobBal)
	}
}

func TestTransfer_UnknownAccounts(t *testing.T) {
	s := newTestStore(t, 10)

	if err := s.Transfer(types.Identity{0xee}, bobAcct, alice, 1); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("unknown source = %v, want ErrUnknownAccount", err)
	}
	if err := s.Transfer(aliceAcct, types.Identity{0xee}, alice, 1); !errors.Is(err, ErrUnknownAccount) {
		t.Errorf("unknown dest = %v, want ErrUnknownAccount", err)
	}
}

func TestTransfer_MintMismatch(t *testing.T) {
	s := newTestStore(t, 10)

	otherMint := types.Identity{0x11}
	otherAcct := types.Identity{0xc0}
	if err := s.CreateMint(otherMint, 0); err != nil {
		t.Fatalf("CreateMint: %v", err)
	}
	if err := s.CreateAccount(otherAcct, otherMint, bob); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	err := s.Transfer(aliceAcct, otherAcct, alice, 1)
	if !errors.Is(err, ErrMintMismatch) {
		t.Errorf("Transfer = %v, want ErrMintMismatch", err)
	}
}

func TestBurn(t *testing.T) {
	s := newTestStore(t, 1000)

	if err := s.Burn(aliceAcct, testMint, alice, 400); err != nil {
		t.Fatalf("Burn: %v", err)
	}

	supply, _ := s.Supply(testMint)
	balance, _ := s.Balance(aliceAcct)
	if supply != 600 {
		t.Errorf("supply = %d, want 600", supply)
	}
	if balance != 600 {
		t.Errorf("balance = %d, want 600", balance)
	}
}

func TestBurn_NotOwner(t *testing.T) {
	s := newTestStore(t, 100)
	if err := s.Burn(aliceAcct, testMint, bob, 1); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Burn = %v, want ErrNotOwner", err)
	}
}

func TestBurn_InsufficientBalance(t *testing.T) {
	s := newTestStore(t, 5)
	if err := s.Burn(aliceAcct, testMint, alice, 6); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("Burn = %v, want ErrInsufficientBalance", err)
	}
}

func TestMint_SupplyOverflow(t *testing.T) {
	s := newTestStore(t, 0)

	if err := s.Mint(testMint, aliceAcct, alice, math.MaxUint64); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := s.Mint(testMint, aliceAcct, alice, 1); !errors.Is(err, ErrBalanceOverflow) {
		t.Errorf("overflowing Mint = %v, want ErrBalanceOverflow", err)
	}
}
