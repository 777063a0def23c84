package rpc

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
)

// Domain error codes. These are stable: clients match on them to tell
// a rejected request apart from a transport problem.
const (
	CodeBadRequestData     = -32010 // malformed opcode or payload
	CodeMissingSignature   = -32011
	CodeUnauthorized       = -32012
	CodeMaxSupplyExceeded  = -32013
	CodeAlreadyInitialized = -32014
	CodeBadStorage         = -32015 // undersized or corrupt account slot
	CodeLedgerRejected     = -32016 // ledger refused the balance change
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// AccountRefParam is one referenced account in token_execute.
// PubKey and Signature are present for accounts that co-signed.
type AccountRefParam struct {
	Key       string `json:"key"`
	PubKey    string `json:"pubkey,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// ExecuteParam is used by token_execute.
type ExecuteParam struct {
	Caller   string            `json:"caller"`
	Accounts []AccountRefParam `json:"accounts"`
	Data     string            `json:"data"` // hex-encoded request payload
}

// CreateTokenParam is used by token_create.
type CreateTokenParam struct {
	Mint     string `json:"mint"`
	Decimals uint8  `json:"decimals"`
}

// CreateAccountParam is used by token_createAccount.
type CreateAccountParam struct {
	Account string `json:"account"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
}

// MintParam is used by endpoints that take a single mint identity.
type MintParam struct {
	Mint string `json:"mint"`
}

// AccountParam is used by token_getBalance.
type AccountParam struct {
	Account string `json:"account"`
}

// ── Result types ────────────────────────────────────────────────────────

// ExecuteResult is returned by token_execute.
type ExecuteResult struct {
	Executed bool `json:"executed"`
}

// CreateTokenResult is returned by token_create.
type CreateTokenResult struct {
	Mint          string `json:"mint"`
	ConfigAccount string `json:"config_account"`
}

// CreateAccountResult is returned by token_createAccount.
type CreateAccountResult struct {
	Account string `json:"account"`
}

// ConfigResult is returned by token_getConfig.
type ConfigResult struct {
	Mint          string `json:"mint"`
	ConfigAccount string `json:"config_account"`
	Initialized   bool   `json:"initialized"`
	MaxSupply     uint64 `json:"max_supply"`
	Admin         string `json:"admin"`
}

// SupplyResult is returned by token_getSupply.
type SupplyResult struct {
	Mint     string `json:"mint"`
	Supply   uint64 `json:"supply"`
	Decimals uint8  `json:"decimals"`
}

// BalanceResult is returned by token_getBalance.
type BalanceResult struct {
	Account string `json:"account"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

// NodeInfoResult is returned by node_getInfo.
type NodeInfoResult struct {
	Version string `json:"version"`
	Network string `json:"network"`
}
