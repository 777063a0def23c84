// mintgate-cli is a command-line client for interacting with a mintgated node.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mintgate-labs/mintgate/config"
	"github.com/mintgate-labs/mintgate/internal/host"
	"github.com/mintgate-labs/mintgate/internal/rpc"
	"github.com/mintgate-labs/mintgate/internal/rpcclient"
	"github.com/mintgate-labs/mintgate/internal/wallet"
	"github.com/mintgate-labs/mintgate/pkg/crypto"
	"github.com/mintgate-labs/mintgate/pkg/instruction"
	"github.com/mintgate-labs/mintgate/pkg/types"
	"golang.org/x/term"
)

// keystoreDir returns the keystore path matching mintgated's layout:
// <datadir>/<network>/keystore
func keystoreDir(dataDir, network string) string {
	return filepath.Join(dataDir, network, "keystore")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	rpcURL := "http://127.0.0.1:9560"
	dataDir := config.DefaultDataDir()
	network := "mainnet"

	args := os.Args[1:]
scan:
	for len(args) > 0 {
		switch {
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		default:
			break scan
		}
	}

	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	ksDir := keystoreDir(dataDir, network)
	client := rpcclient.New(rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "wallet":
		cmdWallet(cmdArgs, ksDir)
	case "create-token":
		cmdCreateToken(client, cmdArgs)
	case "create-account":
		cmdCreateAccount(client, cmdArgs)
	case "init":
		cmdInit(client, cmdArgs, ksDir)
	case "mint":
		cmdMint(client, cmdArgs, ksDir)
	case "transfer":
		cmdTransfer(client, cmdArgs, ksDir)
	case "burn":
		cmdBurn(client, cmdArgs, ksDir)
	case "supply":
		cmdSupply(client, cmdArgs)
	case "balance":
		cmdBalance(client, cmdArgs)
	case "config":
		cmdConfig(client, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: mintgate-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:9560)
  --datadir <path>    Data directory (default: ~/.mintgate)
  --network <net>     mainnet (default) or testnet

Commands:
  status                          Show node status
  create-token --mint <hex> [--decimals <n>]
                                  Register a new token mint
  create-account --account <hex> --mint <hex> --owner <hex>
                                  Register a token holder account
  init --mint <hex> --max-supply <n> --wallet <w> [--authority <i>]
                                  Initialize the token config (admin = authority)
  mint --mint <hex> --dest <hex> --amount <n> --wallet <w> [--authority <i>]
                                  Mint tokens (requires admin authority)
  transfer --source <hex> --dest <hex> --amount <n> --wallet <w> [--authority <i>]
                                  Transfer tokens between accounts
  burn --source <hex> --mint <hex> --amount <n> --wallet <w> [--authority <i>]
                                  Burn tokens from an account
  supply --mint <hex>             Show a mint's current supply
  balance --account <hex>         Show a token account's balance
  config --mint <hex>             Show a mint's config record
  wallet <create|import|list|authorities|new-authority|delete> [flags]
                                  Manage encrypted wallets
`)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	info, err := client.NodeInfo()
	if err != nil {
		fatal("node_getInfo: %v", err)
	}
	fmt.Println("Node:")
	fmt.Printf("  Version: %s\n", info.Version)
	fmt.Printf("  Network: %s\n", info.Network)
}

// ── token lifecycle ─────────────────────────────────────────────────────

func cmdCreateToken(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("create-token", flag.ExitOnError)
	mint := fs.String("mint", "", "Mint identity (32-byte hex)")
	decimals := fs.Uint("decimals", 8, "Token decimals")
	fs.Parse(args)

	if *mint == "" {
		fatal("Usage: mintgate-cli create-token --mint <hex> [--decimals <n>]")
	}
	if *decimals > 255 {
		fatal("decimals must fit in a byte")
	}

	result, err := client.CreateToken(*mint, uint8(*decimals))
	if err != nil {
		fatal("token_create: %v", err)
	}

	fmt.Println("Token created:")
	fmt.Printf("  Mint:           %s\n", result.Mint)
	fmt.Printf("  Config account: %s\n", result.ConfigAccount)
}

func cmdCreateAccount(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("create-account", flag.ExitOnError)
	account := fs.String("account", "", "Account identity (32-byte hex)")
	mint := fs.String("mint", "", "Mint identity (32-byte hex)")
	owner := fs.String("owner", "", "Owner identity (32-byte hex)")
	fs.Parse(args)

	if *account == "" || *mint == "" || *owner == "" {
		fatal("Usage: mintgate-cli create-account --account <hex> --mint <hex> --owner <hex>")
	}

	result, err := client.CreateTokenAccount(*account, *mint, *owner)
	if err != nil {
		fatal("token_createAccount: %v", err)
	}

	fmt.Printf("Account created: %s\n", result.Account)
}

func cmdInit(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	mintHex := fs.String("mint", "", "Mint identity (32-byte hex)")
	maxSupply := fs.Uint64("max-supply", 0, "Maximum token supply")
	walletName := fs.String("wallet", "", "Wallet name")
	authority := fs.Uint("authority", 0, "Authority derivation index")
	fs.Parse(args)

	if *mintHex == "" || *walletName == "" {
		fatal("Usage: mintgate-cli init --mint <hex> --max-supply <n> --wallet <w> [--authority <i>]")
	}

	mint, err := types.HexToIdentity(*mintHex)
	if err != nil {
		fatal("invalid mint: %v", err)
	}

	key, adminID := loadSigner(ksDir, *walletName, uint32(*authority))
	defer key.Zero()

	data := instruction.Encode(instruction.Initialize{Admin: adminID, MaxSupply: *maxSupply})
	refs := []host.AccountRef{{Key: host.ConfigAccountFor(mint)}}

	execute(client, adminID, data, refs, -1, nil)

	fmt.Println("Token initialized:")
	fmt.Printf("  Mint:       %s\n", mint)
	fmt.Printf("  Admin:      %s\n", adminID)
	fmt.Printf("  Max supply: %d\n", *maxSupply)
}

func cmdMint(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("mint", flag.ExitOnError)
	mintHex := fs.String("mint", "", "Mint identity (32-byte hex)")
	destHex := fs.String("dest", "", "Destination account (32-byte hex)")
	amount := fs.Uint64("amount", 0, "Amount to mint")
	walletName := fs.String("wallet", "", "Wallet name")
	authority := fs.Uint("authority", 0, "Authority derivation index")
	fs.Parse(args)

	if *mintHex == "" || *destHex == "" || *walletName == "" {
		fatal("Usage: mintgate-cli mint --mint <hex> --dest <hex> --amount <n> --wallet <w> [--authority <i>]")
	}

	mint, err := types.HexToIdentity(*mintHex)
	if err != nil {
		fatal("invalid mint: %v", err)
	}
	dest, err := types.HexToIdentity(*destHex)
	if err != nil {
		fatal("invalid dest: %v", err)
	}

	key, adminID := loadSigner(ksDir, *walletName, uint32(*authority))
	defer key.Zero()

	data := instruction.Encode(instruction.Mint{Amount: *amount})
	refs := []host.AccountRef{
		{Key: mint},
		{Key: dest},
		{Key: adminID},
		{Key: host.LedgerProgram},
		{Key: host.ConfigAccountFor(mint)},
	}

	execute(client, adminID, data, refs, 2, key)

	fmt.Printf("Minted %d to %s\n", *amount, dest)
}

func cmdTransfer(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	sourceHex := fs.String("source", "", "Source account (32-byte hex)")
	destHex := fs.String("dest", "", "Destination account (32-byte hex)")
	amount := fs.Uint64("amount", 0, "Amount to transfer")
	walletName := fs.String("wallet", "", "Wallet name")
	authority := fs.Uint("authority", 0, "Authority derivation index")
	fs.Parse(args)

	if *sourceHex == "" || *destHex == "" || *walletName == "" {
		fatal("Usage: mintgate-cli transfer --source <hex> --dest <hex> --amount <n> --wallet <w> [--authority <i>]")
	}

	source, err := types.HexToIdentity(*sourceHex)
	if err != nil {
		fatal("invalid source: %v", err)
	}
	dest, err := types.HexToIdentity(*destHex)
	if err != nil {
		fatal("invalid dest: %v", err)
	}

	key, authorityID := loadSigner(ksDir, *walletName, uint32(*authority))
	defer key.Zero()

	data := instruction.Encode(instruction.Transfer{Amount: *amount})
	refs := []host.AccountRef{
		{Key: source},
		{Key: dest},
		{Key: authorityID},
		{Key: host.LedgerProgram},
	}

	execute(client, authorityID, data, refs, 2, key)

	fmt.Printf("Transferred %d from %s to %s\n", *amount, source, dest)
}

func cmdBurn(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("burn", flag.ExitOnError)
	sourceHex := fs.String("source", "", "Source account (32-byte hex)")
	mintHex := fs.String("mint", "", "Mint identity (32-byte hex)")
	amount := fs.Uint64("amount", 0, "Amount to burn")
	walletName := fs.String("wallet", "", "Wallet name")
	authority := fs.Uint("authority", 0, "Authority derivation index")
	fs.Parse(args)

	if *sourceHex == "" || *mintHex == "" || *walletName == "" {
		fatal("Usage: mintgate-cli burn --source <hex> --mint <hex> --amount <n> --wallet <w> [--authority <i>]")
	}

	source, err := types.HexToIdentity(*sourceHex)
	if err != nil {
		fatal("invalid source: %v", err)
	}
	mint, err := types.HexToIdentity(*mintHex)
	if err != nil {
		fatal("invalid mint: %v", err)
	}

	key, authorityID := loadSigner(ksDir, *walletName, uint32(*authority))
	defer key.Zero()

	data := instruction.Encode(instruction.Burn{Amount: *amount})
	refs := []host.AccountRef{
		{Key: source},
		{Key: mint},
		{Key: authorityID},
		{Key: host.LedgerProgram},
	}

	execute(client, authorityID, data, refs, 2, key)

	fmt.Printf("Burned %d from %s\n", *amount, source)
}

// ── queries ─────────────────────────────────────────────────────────────

func cmdSupply(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("supply", flag.ExitOnError)
	mint := fs.String("mint", "", "Mint identity (32-byte hex)")
	fs.Parse(args)

	if *mint == "" {
		fatal("Usage: mintgate-cli supply --mint <hex>")
	}

	result, err := client.GetSupply(*mint)
	if err != nil {
		fatal("token_getSupply: %v", err)
	}

	fmt.Printf("Mint:     %s\n", result.Mint)
	fmt.Printf("Supply:   %d\n", result.Supply)
	fmt.Printf("Decimals: %d\n", result.Decimals)
}

func cmdBalance(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	account := fs.String("account", "", "Account identity (32-byte hex)")
	fs.Parse(args)

	if *account == "" {
		fatal("Usage: mintgate-cli balance --account <hex>")
	}

	result, err := client.GetBalance(*account)
	if err != nil {
		fatal("token_getBalance: %v", err)
	}

	fmt.Printf("Account: %s\n", result.Account)
	fmt.Printf("Mint:    %s\n", result.Mint)
	fmt.Printf("Owner:   %s\n", result.Owner)
	fmt.Printf("Balance: %d\n", result.Balance)
}

func cmdConfig(client *rpcclient.Client, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	mint := fs.String("mint", "", "Mint identity (32-byte hex)")
	fs.Parse(args)

	if *mint == "" {
		fatal("Usage: mintgate-cli config --mint <hex>")
	}

	result, err := client.GetConfig(*mint)
	if err != nil {
		fatal("token_getConfig: %v", err)
	}

	fmt.Printf("Mint:           %s\n", result.Mint)
	fmt.Printf("Config account: %s\n", result.ConfigAccount)
	fmt.Printf("Initialized:    %v\n", result.Initialized)
	fmt.Printf("Max supply:     %d\n", result.MaxSupply)
	fmt.Printf("Admin:          %s\n", result.Admin)
}

// ── wallet ──────────────────────────────────────────────────────────────

func cmdWallet(args []string, ksDir string) {
	if len(args) < 1 {
		fatal("Usage: mintgate-cli wallet <create|import|list|authorities|new-authority|delete> [flags]")
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], ksDir)
	case "import":
		cmdWalletImport(args[1:], ksDir)
	case "list":
		cmdWalletList(ksDir)
	case "authorities":
		cmdWalletAuthorities(args[1:], ksDir)
	case "new-authority":
		cmdWalletNewAuthority(args[1:], ksDir)
	case "delete":
		cmdWalletDelete(args[1:], ksDir)
	default:
		fatal("Unknown wallet command: %s\nUsage: mintgate-cli wallet <create|import|list|authorities|new-authority|delete> [flags]", args[0])
	}
}

func cmdWalletCreate(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: mintgate-cli wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	createWalletFromMnemonic(*name, mnemonic, ksDir)
}

func cmdWalletImport(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: mintgate-cli wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	createWalletFromMnemonic(*name, *mnemonic, ksDir)
}

// createWalletFromMnemonic prompts for a password, encrypts the seed
// and records authority 0.
func createWalletFromMnemonic(name, mnemonic, ksDir string) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}

	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}

	// Derive authority 0 before encrypting.
	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveAuthority(0)
	if err != nil {
		fatal("derive authority: %v", err)
	}
	id := hdKey.Identity()

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("create keystore: %v", err)
	}

	if err := ks.Create(name, seed, password, wallet.DefaultKDFParams()); err != nil {
		fatal("create wallet: %v", err)
	}

	for i := range seed {
		seed[i] = 0
	}

	if err := ks.AddAuthority(name, wallet.AuthorityEntry{
		Index:    0,
		Name:     "Default",
		Identity: id.String(),
	}); err != nil {
		fatal("add authority: %v", err)
	}

	fmt.Printf("\nWallet created: %s\n", name)
	fmt.Printf("Authority: %s\n", id)
}

func cmdWalletList(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No wallets.")
		return
	}
	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAuthorities(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet authorities", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: mintgate-cli wallet authorities --name <name>")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	authorities, err := ks.ListAuthorities(*name)
	if err != nil {
		fatal("list authorities: %v", err)
	}
	for _, a := range authorities {
		fmt.Printf("%d\t%s\t%s\n", a.Index, a.Name, a.Identity)
	}
}

func cmdWalletNewAuthority(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet new-authority", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	label := fs.String("label", "", "Authority label")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: mintgate-cli wallet new-authority --name <name> [--label <label>]")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	index, err := ks.NextIndex(*name)
	if err != nil {
		fatal("next index: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	seed, err := ks.Load(*name, password)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveAuthority(index)
	if err != nil {
		fatal("derive authority: %v", err)
	}
	id := hdKey.Identity()

	if err := ks.AddAuthority(*name, wallet.AuthorityEntry{
		Index:    index,
		Name:     *label,
		Identity: id.String(),
	}); err != nil {
		fatal("add authority: %v", err)
	}

	fmt.Printf("Authority %d: %s\n", index, id)
}

func cmdWalletDelete(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet delete", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: mintgate-cli wallet delete --name <name>")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	if err := ks.Delete(*name); err != nil {
		fatal("delete wallet: %v", err)
	}
	fmt.Printf("Wallet deleted: %s\n", *name)
}

// ── Request helpers ─────────────────────────────────────────────────────

// loadSigner unlocks a wallet and derives the authority signing key.
func loadSigner(ksDir, walletName string, index uint32) (*crypto.PrivateKey, types.Identity) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	seed, err := ks.Load(walletName, password)
	if err != nil {
		fatal("unlock wallet: %v", err)
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	master, err := wallet.NewMasterKey(seed)
	if err != nil {
		fatal("derive master key: %v", err)
	}
	hdKey, err := master.DeriveAuthority(index)
	if err != nil {
		fatal("derive authority: %v", err)
	}
	key, err := hdKey.Signer()
	if err != nil {
		fatal("derive signer: %v", err)
	}

	return key, hdKey.Identity()
}

// execute signs (when signerIdx >= 0) and submits one token request.
func execute(client *rpcclient.Client, caller types.Identity, data []byte,
	refs []host.AccountRef, signerIdx int, key *crypto.PrivateKey) {

	accounts := make([]rpc.AccountRefParam, len(refs))
	for i, ref := range refs {
		accounts[i] = rpc.AccountRefParam{Key: ref.Key.String()}
	}

	if signerIdx >= 0 {
		digest := host.RequestDigest(data, refs)
		sig, err := key.Sign(digest[:])
		if err != nil {
			fatal("sign request: %v", err)
		}
		accounts[signerIdx].PubKey = hex.EncodeToString(key.PublicKey())
		accounts[signerIdx].Signature = hex.EncodeToString(sig)
	}

	_, err := client.Execute(rpc.ExecuteParam{
		Caller:   caller.String(),
		Accounts: accounts,
		Data:     hex.EncodeToString(data),
	})
	if err != nil {
		fatal("token_execute: %v", err)
	}
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
