// Package config loads and validates the nftraded daemon configuration.
package config

import (
	"path/filepath"
)

// Config represents the complete nftraded configuration.
type Config struct {
	// Server section (JSON-RPC over HTTP)
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// GRPC section
	GRPC GRPCConfig `toml:"grpc" mapstructure:"grpc"`

	// Database section (offer ledger state)
	Database DatabaseConfig `toml:"database" mapstructure:"database"`

	// History section (relational mirror of accepted offers)
	History HistoryConfig `toml:"history" mapstructure:"history"`

	// Engine section (trade engine identity and parties)
	Engine EngineConfig `toml:"engine" mapstructure:"engine"`

	// Contracts section (in-memory contracts seeded in standalone mode)
	Contracts []ContractConfig `toml:"contracts" mapstructure:"contracts"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
}

// ServerConfig holds the JSON-RPC HTTP server settings.
type ServerConfig struct {
	// Bind is the interface to listen on
	Bind string `toml:"bind" mapstructure:"bind"`

	// Port is the TCP port for the JSON-RPC endpoint
	Port int `toml:"port" mapstructure:"port"`
}

// Address returns the host:port the HTTP server listens on.
func (s ServerConfig) Address() string {
	return joinHostPort(s.Bind, s.Port)
}

// GRPCConfig holds the gRPC server settings.
type GRPCConfig struct {
	// Enabled controls whether the gRPC server is started
	Enabled bool `toml:"enabled" mapstructure:"enabled"`

	// Address is the listen address, e.g. "127.0.0.1:50051"
	Address string `toml:"address" mapstructure:"address"`

	// MaxRecvMsgSize is the maximum inbound message size in bytes
	MaxRecvMsgSize int `toml:"max_recv_msg_size" mapstructure:"max_recv_msg_size"`

	// MaxSendMsgSize is the maximum outbound message size in bytes
	MaxSendMsgSize int `toml:"max_send_msg_size" mapstructure:"max_send_msg_size"`
}

// DatabaseConfig holds the key-value store settings for engine state.
type DatabaseConfig struct {
	// Backend selects the KV engine: "pebble", "leveldb" or "memory"
	Backend string `toml:"backend" mapstructure:"backend"`

	// Path is the on-disk database directory. Ignored for "memory".
	Path string `toml:"path" mapstructure:"path"`

	// Compression selects the value codec: "lz4" or "none"
	Compression string `toml:"compression" mapstructure:"compression"`
}

// HistoryConfig holds the relational accepted-offer mirror settings.
type HistoryConfig struct {
	// Driver selects the SQL driver: "postgres", "sqlite" or "off"
	Driver string `toml:"driver" mapstructure:"driver"`

	// DSN is the driver-specific connection string
	DSN string `toml:"dsn" mapstructure:"dsn"`

	// MaxOpenConns bounds the connection pool. Zero means driver default.
	MaxOpenConns int `toml:"max_open_conns" mapstructure:"max_open_conns"`
}

// EngineConfig holds the trade engine's fixed parties. Addresses are
// 20-byte hex strings, with or without a 0x prefix.
type EngineConfig struct {
	// PaymentToken is the fungible contract flat fees are charged in
	PaymentToken string `toml:"payment_token" mapstructure:"payment_token"`

	// FeeRecipient is the default recipient seeded into new class configs
	FeeRecipient string `toml:"fee_recipient" mapstructure:"fee_recipient"`

	// Admin is the only address allowed to mutate class configs
	Admin string `toml:"admin" mapstructure:"admin"`

	// Operator is the escrow operator address holders approve for
	// transfers
	Operator string `toml:"operator" mapstructure:"operator"`
}

// ContractConfig declares one in-memory contract the daemon deploys at
// startup when running standalone. Real deployments resolve contracts
// through an external registry instead of seeding them here.
type ContractConfig struct {
	// Address is the 20-byte hex address the contract is deployed at
	Address string `toml:"address" mapstructure:"address"`

	// Standard selects the contract kind: "unique", "multi_unit" or
	// "fungible"
	Standard string `toml:"standard" mapstructure:"standard"`
}

// ConfigPaths holds the paths to configuration files.
type ConfigPaths struct {
	Main string // Path to main config file (nftraded.toml)
}

// DefaultConfigPaths returns the default configuration file paths.
func DefaultConfigPaths() ConfigPaths {
	return ConfigPaths{
		Main: "nftraded.toml",
	}
}

// ConfigPathsFromDir returns configuration paths for a specific directory.
func ConfigPathsFromDir(configDir string) ConfigPaths {
	return ConfigPaths{
		Main: filepath.Join(configDir, "nftraded.toml"),
	}
}

// GetConfigPath returns the path to the main configuration file.
func (c *Config) GetConfigPath() string {
	return c.configPath
}
