package config

import (
	"fmt"
	"net"
)

// Validate checks runtime node config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Network != Mainnet && cfg.Network != Testnet {
		return fmt.Errorf("network must be %q or %q", Mainnet, Testnet)
	}
	if cfg.RPC.Port < 0 || cfg.RPC.Port > 65535 {
		return fmt.Errorf("rpc.port must be in range [0, 65535]")
	}
	if cfg.RPC.Enabled && cfg.RPC.Addr != "" {
		if ip := net.ParseIP(cfg.RPC.Addr); ip == nil {
			return fmt.Errorf("rpc.addr %q is not a valid IP address", cfg.RPC.Addr)
		}
	}
	for i, allowed := range cfg.RPC.AllowedIPs {
		if ip := net.ParseIP(allowed); ip == nil {
			return fmt.Errorf("rpc.allowed[%d] %q is not a valid IP address", i, allowed)
		}
	}
	return nil
}
