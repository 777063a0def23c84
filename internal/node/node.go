// Package node provides a reusable mintgate node that can be embedded
// in any binary.
package node

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mintgate-labs/mintgate/config"
	"github.com/mintgate-labs/mintgate/internal/host"
	mlog "github.com/mintgate-labs/mintgate/internal/log"
	"github.com/mintgate-labs/mintgate/internal/rpc"
	"github.com/mintgate-labs/mintgate/internal/storage"
	"github.com/rs/zerolog"
)

// Node is a fully-initialized mintgate node.
type Node struct {
	cfg    *config.Config
	logger zerolog.Logger

	db        storage.DB
	host      *host.Host
	rpcServer *rpc.Server
}

// New creates and initializes a new Node. It performs all setup steps
// (logger, storage, host, RPC server) but does not begin serving.
// Call Start() for that.
func New(cfg *config.Config) (*Node, error) {
	logFile := cfg.Log.File
	if logFile == "" {
		logsDir := cfg.LogsDir()
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return nil, fmt.Errorf("creating logs dir: %w", err)
		}
		logFile = filepath.Join(logsDir, "mintgate.log")
	}
	if err := mlog.Init(cfg.Log.Level, cfg.Log.JSON, logFile); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	logger := mlog.WithComponent("node")

	logger.Info().
		Str("network", string(cfg.Network)).
		Msg("Starting Mintgate Node")

	db, err := storage.NewBadger(cfg.LedgerDir())
	if err != nil {
		return nil, fmt.Errorf("open database at %s: %w", cfg.LedgerDir(), err)
	}
	logger.Info().Str("path", cfg.LedgerDir()).Msg("Database opened")

	n := &Node{
		cfg:    cfg,
		logger: logger,
		db:     db,
		host:   host.New(db),
	}

	if cfg.RPC.Enabled {
		addr := fmt.Sprintf("%s:%d", cfg.RPC.Addr, cfg.RPC.Port)
		n.rpcServer = rpc.New(addr, n.host, string(cfg.Network), cfg.RPC)
	}

	return n, nil
}

// Start begins serving RPC requests.
func (n *Node) Start() error {
	if n.rpcServer != nil {
		if err := n.rpcServer.Start(); err != nil {
			return err
		}
		n.logger.Info().Str("addr", n.rpcServer.Addr()).Msg("RPC server listening")
	}

	n.logger.Info().Msg("Node started successfully")
	return nil
}

// Stop performs graceful shutdown in reverse order.
func (n *Node) Stop() {
	if n.rpcServer != nil {
		n.rpcServer.Stop()
	}
	if n.db != nil {
		n.db.Close()
	}

	n.logger.Info().Msg("Goodbye!")
}

// Host exposes the token host for embedding binaries.
func (n *Node) Host() *host.Host {
	return n.host
}

// RPCAddr returns the address the RPC server is listening on.
func (n *Node) RPCAddr() string {
	if n.rpcServer == nil {
		return ""
	}
	return n.rpcServer.Addr()
}
