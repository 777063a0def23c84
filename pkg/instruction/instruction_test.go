package instruction

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/mintgate-labs/mintgate/pkg/types"
)

func amountPayload(op Opcode, amount uint64) []byte {
	buf := make([]byte, 9)
	buf[0] = byte(op)
	binary.LittleEndian.PutUint64(buf[1:], amount)
	return buf
}

func TestDecode_EmptyRequest(t *testing.T) {
	_, err := Decode(nil)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Decode(nil) = %v, want ErrInvalidRequest", err)
	}

	_, err = Decode([]byte{})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Decode(empty) = %v, want ErrInvalidRequest", err)
	}
}

func TestDecode_UnknownOpcode(t *testing.T) {
	for _, op := range []byte{4, 5, 17, 0x80, 0xff} {
		_, err := Decode(append([]byte{op}, make([]byte, 8)...))
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("opcode %d: Decode = %v, want ErrInvalidRequest", op, err)
		}
	}
}

func TestDecode_Transfer(t *testing.T) {
	ix, err := Decode(amountPayload(OpTransfer, 1234))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	transfer, ok := ix.(Transfer)
	if !ok {
		t.Fatalf("Decode returned %T, want Transfer", ix)
	}
	if transfer.Amount != 1234 {
		t.Errorf("Amount = %d, want 1234", transfer.Amount)
	}
}

func TestDecode_Transfer_ZeroAmount(t *testing.T) {
	_, err := Decode(amountPayload(OpTransfer, 0))
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero transfer: Decode = %v, want ErrInvalidAmount", err)
	}
}

func TestDecode_Mint_ZeroAmountAllowed(t *testing.T) {
	// Zero-amount policy applies to Transfer only; the mint handler's
	// cap check governs mints.
	ix, err := Decode(amountPayload(OpMint, 0))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if ix.(Mint).Amount != 0 {
		t.Error("expected zero mint amount")
	}
}

func TestDecode_AmountWrongLength(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"transfer no payload", []byte{byte(OpTransfer)}},
		{"transfer short", []byte{byte(OpTransfer), 1, 2, 3}},
		{"mint long", append([]byte{byte(OpMint)}, make([]byte, 9)...)},
		{"burn short", append([]byte{byte(OpBurn)}, make([]byte, 7)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("Decode = %v, want ErrInvalidAmount", err)
			}
		})
	}
}

func TestDecode_Initialize(t *testing.T) {
	admin := types.Identity{0xaa, 0xbb}
	data := Encode(Initialize{Admin: admin, MaxSupply: 1_000_000})

	ix, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	init, ok := ix.(Initialize)
	if !ok {
		t.Fatalf("Decode returned %T, want Initialize", ix)
	}
	if init.Admin != admin {
		t.Errorf("Admin = %s, want %s", init.Admin, admin)
	}
	if init.MaxSupply != 1_000_000 {
		t.Errorf("MaxSupply = %d, want 1000000", init.MaxSupply)
	}
}

func TestDecode_Initialize_ShortPayload(t *testing.T) {
	for _, n := range []int{0, 1, 32, 39} {
		data := append([]byte{byte(OpInitialize)}, make([]byte, n)...)
		_, err := Decode(data)
		if !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("payload len %d: Decode = %v, want ErrInvalidRequest", n, err)
		}
	}
}

func TestEncode_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		ix   Instruction
	}{
		{"transfer", Transfer{Amount: 42}},
		{"mint", Mint{Amount: 1}},
		{"burn", Burn{Amount: 99999}},
		{"initialize", Initialize{Admin: types.Identity{0x01}, MaxSupply: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Encode(tt.ix))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got != tt.ix {
				t.Errorf("roundtrip = %#v, want %#v", got, tt.ix)
			}
		})
	}
}

func TestOpcode_String(t *testing.T) {
	if OpMint.String() != "mint" {
		t.Errorf("OpMint.String() = %q", OpMint.String())
	}
	if Opcode(200).String() != "opcode(200)" {
		t.Errorf("unknown opcode String() = %q", Opcode(200).String())
	}
}
