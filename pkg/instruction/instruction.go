// Package instruction defines the wire encoding of Mintgate requests.
//
// A request is [opcode:1][payload]. The payload for Transfer, Mint and
// Burn is exactly 8 bytes (little-endian uint64 amount). Initialize
// carries a 32-byte admin identity followed by the little-endian
// uint64 supply cap.
package instruction

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mintgate-labs/mintgate/pkg/types"
)

// Decode errors.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// Opcode selects the operation encoded in the first request byte.
type Opcode uint8

// Wire opcodes.
const (
	OpTransfer Opcode = iota
	OpMint
	OpBurn
	OpInitialize
)

// amountSize is the payload length for amount-carrying operations.
const amountSize = 8

// initializeSize is the minimum Initialize payload length:
// admin identity (32) + max supply (8).
const initializeSize = types.IdentitySize + 8

// String returns the opcode name.
func (op Opcode) String() string {
	switch op {
	case OpTransfer:
		return "transfer"
	case OpMint:
		return "mint"
	case OpBurn:
		return "burn"
	case OpInitialize:
		return "initialize"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
}

// Instruction is the closed set of decoded operations. Exactly one of
// Transfer, Mint, Burn or Initialize implements it.
type Instruction interface {
	Opcode() Opcode
}

// Transfer moves tokens between two ledger accounts.
type Transfer struct {
	Amount uint64
}

// Mint creates new tokens, subject to the configured supply cap.
type Mint struct {
	Amount uint64
}

// Burn destroys tokens held by a ledger account.
type Burn struct {
	Amount uint64
}

// Initialize writes the one-time token configuration record.
type Initialize struct {
	Admin     types.Identity
	MaxSupply uint64
}

// Opcode returns OpTransfer.
func (Transfer) Opcode() Opcode { return OpTransfer }

// Opcode returns OpMint.
func (Mint) Opcode() Opcode { return OpMint }

// Opcode returns OpBurn.
func (Burn) Opcode() Opcode { return OpBurn }

// Opcode returns OpInitialize.
func (Initialize) Opcode() Opcode { return OpInitialize }

// Decode parses raw request bytes into an Instruction.
//
// An empty buffer or unknown opcode fails with ErrInvalidRequest. A
// malformed amount payload fails with ErrInvalidAmount. Zero-value
// transfers are rejected by policy.
func Decode(data []byte) (Instruction, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	op, payload := Opcode(data[0]), data[1:]

	switch op {
	case OpTransfer:
		amount, err := decodeAmount(payload)
		if err != nil {
			return nil, err
		}
		if amount == 0 {
			return nil, fmt.Errorf("%w: zero-value transfer", ErrInvalidAmount)
		}
		return Transfer{Amount: amount}, nil

	case OpMint:
		amount, err := decodeAmount(payload)
		if err != nil {
			return nil, err
		}
		return Mint{Amount: amount}, nil

	case OpBurn:
		amount, err := decodeAmount(payload)
		if err != nil {
			return nil, err
		}
		return Burn{Amount: amount}, nil

	case OpInitialize:
		if len(payload) < initializeSize {
			return nil, fmt.Errorf("%w: initialize payload must be at least %d bytes, got %d",
				ErrInvalidRequest, initializeSize, len(payload))
		}
		var admin types.Identity
		copy(admin[:], payload[:types.IdentitySize])
		maxSupply := binary.LittleEndian.Uint64(payload[types.IdentitySize:initializeSize])
		return Initialize{Admin: admin, MaxSupply: maxSupply}, nil

	default:
		return nil, fmt.Errorf("%w: unknown opcode %d", ErrInvalidRequest, uint8(op))
	}
}

// decodeAmount parses a strict 8-byte little-endian uint64 payload.
func decodeAmount(payload []byte) (uint64, error) {
	if len(payload) != amountSize {
		return 0, fmt.Errorf("%w: amount must be %d bytes, got %d",
			ErrInvalidAmount, amountSize, len(payload))
	}
	return binary.LittleEndian.Uint64(payload), nil
}

// Encode serializes an Instruction into request bytes.
func Encode(ix Instruction) []byte {
	switch v := ix.(type) {
	case Transfer:
		return encodeAmount(OpTransfer, v.Amount)
	case Mint:
		return encodeAmount(OpMint, v.Amount)
	case Burn:
		return encodeAmount(OpBurn, v.Amount)
	case Initialize:
		buf := make([]byte, 1+initializeSize)
		buf[0] = byte(OpInitialize)
		copy(buf[1:], v.Admin[:])
		binary.LittleEndian.PutUint64(buf[1+types.IdentitySize:], v.MaxSupply)
		return buf
	default:
		// The Instruction set is closed; this is unreachable for
		// values produced by this package.
		return nil
	}
}

func encodeAmount(op Opcode, amount uint64) []byte {
	buf := make([]byte, 1+amountSize)
	buf[0] = byte(op)
	binary.LittleEndian.PutUint64(buf[1:], amount)
	return buf
}
