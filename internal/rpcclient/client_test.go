package rpcclient

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/mintgate-labs/mintgate/internal/host"
	mlog "github.com/mintgate-labs/mintgate/internal/log"
	"github.com/mintgate-labs/mintgate/internal/rpc"
	"github.com/mintgate-labs/mintgate/internal/storage"
	"github.com/mintgate-labs/mintgate/pkg/crypto"
	"github.com/mintgate-labs/mintgate/pkg/instruction"
	"github.com/mintgate-labs/mintgate/pkg/types"
)

type testEnv struct {
	client  *Client
	admin   *crypto.PrivateKey
	adminID types.Identity
	mint    types.Identity
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mlog.Init("error", false, "")

	admin, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	h := host.New(storage.NewMemory())
	srv := rpc.New("127.0.0.1:0", h, "testnet")
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return &testEnv{
		client:  New(fmt.Sprintf("http://%s/", srv.Addr())),
		admin:   admin,
		adminID: crypto.IdentityFromPubKey(admin.PublicKey()),
		mint:    types.Identity{0xC4},
	}
}

// initToken creates the env's token and initializes its config record.
func (env *testEnv) initToken(t *testing.T, maxSupply uint64) {
	t.Helper()
	if _, err := env.client.CreateToken(env.mint.String(), 6); err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	data := instruction.Encode(instruction.Initialize{Admin: env.adminID, MaxSupply: maxSupply})
	_, err := env.client.Execute(rpc.ExecuteParam{
		Caller: env.adminID.String(),
		Accounts: []rpc.AccountRefParam{
			{Key: host.ConfigAccountFor(env.mint).String()},
		},
		Data: hex.EncodeToString(data),
	})
	if err != nil {
		t.Fatalf("Execute initialize: %v", err)
	}
}

func TestNodeInfo(t *testing.T) {
	env := setupTestEnv(t)

	info, err := env.client.NodeInfo()
	if err != nil {
		t.Fatalf("NodeInfo() error: %v", err)
	}
	if info.Network != "testnet" {
		t.Errorf("network = %q, want testnet", info.Network)
	}
}

func TestCreateAndQueryToken(t *testing.T) {
	env := setupTestEnv(t)
	env.initToken(t, 9000)

	cfg, err := env.client.GetConfig(env.mint.String())
	if err != nil {
		t.Fatalf("GetConfig() error: %v", err)
	}
	if !cfg.Initialized || cfg.MaxSupply != 9000 || cfg.Admin != env.adminID.String() {
		t.Errorf("config = %+v", cfg)
	}

	supply, err := env.client.GetSupply(env.mint.String())
	if err != nil {
		t.Fatalf("GetSupply() error: %v", err)
	}
	if supply.Supply != 0 || supply.Decimals != 6 {
		t.Errorf("supply = %+v", supply)
	}
}

func TestMintThroughClient(t *testing.T) {
	env := setupTestEnv(t)
	env.initToken(t, 9000)

	dest := types.Identity{0xD5}
	if _, err := env.client.CreateTokenAccount(dest.String(), env.mint.String(), dest.String()); err != nil {
		t.Fatalf("CreateTokenAccount: %v", err)
	}

	data := instruction.Encode(instruction.Mint{Amount: 1234})
	refs := []host.AccountRef{
		{Key: env.mint},
		{Key: dest},
		{Key: env.adminID},
		{Key: types.Identity{0x30}},
		{Key: host.ConfigAccountFor(env.mint)},
	}
	digest := host.RequestDigest(data, refs)
	sig, err := env.admin.Sign(digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	accounts := make([]rpc.AccountRefParam, len(refs))
	for i, ref := range refs {
		accounts[i] = rpc.AccountRefParam{Key: ref.Key.String()}
	}
	accounts[2].PubKey = hex.EncodeToString(env.admin.PublicKey())
	accounts[2].Signature = hex.EncodeToString(sig)

	result, err := env.client.Execute(rpc.ExecuteParam{
		Caller:   env.adminID.String(),
		Accounts: accounts,
		Data:     hex.EncodeToString(data),
	})
	if err != nil {
		t.Fatalf("Execute mint: %v", err)
	}
	if !result.Executed {
		t.Error("expected executed = true")
	}

	balance, err := env.client.GetBalance(dest.String())
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Balance != 1234 {
		t.Errorf("balance = %d, want 1234", balance.Balance)
	}
}

func TestRPCErrorSurface(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.client.GetSupply(types.Identity{0xEE}.String())
	if err == nil {
		t.Fatal("expected error for unknown mint")
	}

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error type = %T, want *RPCError", err)
	}
	if rpcErr.Code != rpc.CodeNotFound {
		t.Errorf("code = %d, want %d", rpcErr.Code, rpc.CodeNotFound)
	}
}

func TestClientUnreachable(t *testing.T) {
	c := New("http://127.0.0.1:1/")
	if _, err := c.NodeInfo(); err == nil {
		t.Error("expected transport error for unreachable endpoint")
	}
}
