package program

import "errors"

// Execution errors. Together with the decode errors in pkg/instruction
// these form the stable failure taxonomy callers can match on; ledger
// failures pass through unchanged.
var (
	ErrInvalidStorage     = errors.New("config storage too small")
	ErrInvalidConfigData  = errors.New("invalid config data")
	ErrAlreadyInitialized = errors.New("config already initialized")
	ErrMissingSignature   = errors.New("missing required signature")
	ErrUnauthorizedMint   = errors.New("unauthorized mint")
	ErrMaxSupplyExceeded  = errors.New("max supply exceeded")
)
