package program

import (
	"encoding/binary"
	"fmt"

	"github.com/mintgate-labs/mintgate/pkg/types"
)

// ConfigSize is the serialized size of a Config record:
// max_supply (8) | initialized (1) | admin (32).
const ConfigSize = 8 + 1 + types.IdentitySize

// Config is the persisted per-token configuration record. It is
// written exactly once by Initialize; Admin and MaxSupply are
// immutable afterwards.
type Config struct {
	MaxSupply   uint64
	Initialized bool
	Admin       types.Identity
}

// Marshal serializes the record into its fixed 41-byte layout.
func (c *Config) Marshal() []byte {
	buf := make([]byte, ConfigSize)
	binary.LittleEndian.PutUint64(buf[0:8], c.MaxSupply)
	if c.Initialized {
		buf[8] = 1
	}
	copy(buf[9:], c.Admin[:])
	return buf
}

// Unmarshal parses a record from a storage slot. The slot may be
// larger than ConfigSize; trailing bytes are ignored. A short slot or
// a corrupt initialized marker fails with ErrInvalidConfigData.
func (c *Config) Unmarshal(data []byte) error {
	if len(data) < ConfigSize {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidConfigData, ConfigSize, len(data))
	}
	switch data[8] {
	case 0:
		c.Initialized = false
	case 1:
		c.Initialized = true
	default:
		return fmt.Errorf("%w: invalid initialized marker %d", ErrInvalidConfigData, data[8])
	}
	c.MaxSupply = binary.LittleEndian.Uint64(data[0:8])
	copy(c.Admin[:], data[9:9+types.IdentitySize])
	return nil
}
