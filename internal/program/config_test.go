package program

import (
	"errors"
	"testing"

	"github.com/mintgate-labs/mintgate/pkg/types"
)

func TestConfig_MarshalUnmarshal_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero record", Config{}},
		{"initialized", Config{MaxSupply: 1000, Initialized: true, Admin: types.Identity{0xaa, 0xbb}}},
		{"max supply at limit", Config{MaxSupply: ^uint64(0), Initialized: true, Admin: types.Identity{0x01}}},
		{"uninitialized with admin", Config{MaxSupply: 5, Admin: types.Identity{0xff}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.cfg.Marshal()
			if len(data) != ConfigSize {
				t.Fatalf("Marshal() length = %d, want %d", len(data), ConfigSize)
			}

			var got Config
			if err := got.Unmarshal(data); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if got != tt.cfg {
				t.Errorf("roundtrip = %+v, want %+v", got, tt.cfg)
			}
		})
	}
}

func TestConfig_Layout(t *testing.T) {
	cfg := Config{MaxSupply: 0x0102030405060708, Initialized: true, Admin: types.Identity{0xee}}
	data := cfg.Marshal()

	// max_supply, little-endian.
	if data[0] != 0x08 || data[7] != 0x01 {
		t.Errorf("max_supply bytes = % x, want little-endian", data[:8])
	}
	if data[8] != 1 {
		t.Errorf("initialized byte = %d, want 1", data[8])
	}
	if data[9] != 0xee {
		t.Errorf("admin byte = %d, want 0xee", data[9])
	}
}

func TestConfig_Unmarshal_ShortBuffer(t *testing.T) {
	var cfg Config
	for _, n := range []int{0, 8, 40} {
		err := cfg.Unmarshal(make([]byte, n))
		if !errors.Is(err, ErrInvalidConfigData) {
			t.Errorf("len %d: Unmarshal = %v, want ErrInvalidConfigData", n, err)
		}
	}
}

func TestConfig_Unmarshal_CorruptMarker(t *testing.T) {
	data := make([]byte, ConfigSize)
	data[8] = 7

	var cfg Config
	if err := cfg.Unmarshal(data); !errors.Is(err, ErrInvalidConfigData) {
		t.Errorf("Unmarshal = %v, want ErrInvalidConfigData", err)
	}
}

func TestConfig_Unmarshal_IgnoresTrailingBytes(t *testing.T) {
	cfg := Config{MaxSupply: 9, Initialized: true, Admin: types.Identity{0x05}}
	slot := append(cfg.Marshal(), 0xde, 0xad)

	var got Config
	if err := got.Unmarshal(slot); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}
