package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	main := DefaultMainnet()
	if main.Network != Mainnet {
		t.Errorf("network = %q, want %q", main.Network, Mainnet)
	}
	if main.RPC.Port != 9560 {
		t.Errorf("mainnet rpc port = %d, want 9560", main.RPC.Port)
	}

	test := DefaultTestnet()
	if test.Network != Testnet {
		t.Errorf("network = %q, want %q", test.Network, Testnet)
	}
	if test.RPC.Port != 9660 {
		t.Errorf("testnet rpc port = %d, want 9660", test.RPC.Port)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mintgate.conf")
	content := `# comment line
network = testnet

rpc.port = 9999
rpc.allowed = 127.0.0.1, 10.0.0.5
log.level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write conf: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	cfg := DefaultMainnet()
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig() error: %v", err)
	}

	if cfg.Network != Testnet {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	if cfg.RPC.Port != 9999 {
		t.Errorf("rpc port = %d, want 9999", cfg.RPC.Port)
	}
	if len(cfg.RPC.AllowedIPs) != 2 || cfg.RPC.AllowedIPs[1] != "10.0.0.5" {
		t.Errorf("allowed IPs = %v, want [127.0.0.1 10.0.0.5]", cfg.RPC.AllowedIPs)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug (quotes should be stripped)", cfg.Log.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	if err != nil {
		t.Fatalf("LoadFile() for missing file should not error, got: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty values for missing file, got %d", len(values))
	}
}

func TestLoadFile_InvalidLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.conf")
	os.WriteFile(path, []byte("not a key value line\n"), 0644)

	_, err := LoadFile(path)
	if err == nil {
		t.Error("LoadFile() should reject lines without =")
	}
}

func TestLoadFile_BadPort(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{"rpc.port": "not-a-number"})
	if err == nil {
		t.Error("ApplyFileConfig() should reject non-numeric port")
	}
}

func TestLoadFile_UnknownKeyIgnored(t *testing.T) {
	cfg := DefaultMainnet()
	err := ApplyFileConfig(cfg, map[string]string{"does.not.exist": "whatever"})
	if err != nil {
		t.Errorf("unknown keys should be ignored, got: %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultMainnet()
	f := &Flags{
		Network:  "testnet",
		DataDir:  "/tmp/data",
		RPCPort:  7000,
		RPC:      false,
		SetRPC:   true,
		LogLevel: "debug",
	}

	ApplyFlags(cfg, f)

	if cfg.Network != Testnet {
		t.Errorf("network = %q, want testnet", cfg.Network)
	}
	if cfg.DataDir != "/tmp/data" {
		t.Errorf("datadir = %q, want /tmp/data", cfg.DataDir)
	}
	if cfg.RPC.Port != 7000 {
		t.Errorf("rpc port = %d, want 7000", cfg.RPC.Port)
	}
	if cfg.RPC.Enabled {
		t.Error("rpc should be disabled by explicit --rpc=false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad network", func(c *Config) { c.Network = "devnet" }, true},
		{"negative port", func(c *Config) { c.RPC.Port = -1 }, true},
		{"port too large", func(c *Config) { c.RPC.Port = 70000 }, true},
		{"bad rpc addr", func(c *Config) { c.RPC.Addr = "not-an-ip" }, true},
		{"bad allowed ip", func(c *Config) { c.RPC.AllowedIPs = []string{"abc"} }, true},
		{"empty addr ok", func(c *Config) { c.RPC.Addr = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultMainnet()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("Validate(nil) should fail")
	}
}

func TestEnsureDataDirs(t *testing.T) {
	cfg := DefaultMainnet()
	cfg.DataDir = filepath.Join(t.TempDir(), "mintgate")

	if err := EnsureDataDirs(cfg); err != nil {
		t.Fatalf("EnsureDataDirs() error: %v", err)
	}

	for _, dir := range []string{cfg.LedgerDir(), cfg.KeystoreDir(), cfg.LogsDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("expected directory %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}

	// Default config file written.
	if _, err := os.Stat(cfg.ConfigFile()); err != nil {
		t.Errorf("expected default config file: %v", err)
	}

	// Idempotent.
	if err := EnsureDataDirs(cfg); err != nil {
		t.Errorf("second EnsureDataDirs() error: %v", err)
	}
}
