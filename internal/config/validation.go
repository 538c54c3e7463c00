package config

import (
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// ValidateConfig validates the complete configuration.
func ValidateConfig(c *Config) error {
	if err := validateServer(&c.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateGRPC(&c.GRPC); err != nil {
		return fmt.Errorf("grpc: %w", err)
	}
	if err := validateDatabase(&c.Database); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := validateHistory(&c.History); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := validateEngine(&c.Engine); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := validateContracts(c.Contracts); err != nil {
		return fmt.Errorf("contracts: %w", err)
	}
	return nil
}

func validateServer(s *ServerConfig) error {
	if s.Bind == "" {
		return fmt.Errorf("bind is required")
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port %d out of range", s.Port)
	}
	return nil
}

func validateGRPC(g *GRPCConfig) error {
	if !g.Enabled {
		return nil
	}
	if g.Address == "" {
		return fmt.Errorf("address is required when enabled")
	}
	if g.MaxRecvMsgSize <= 0 {
		return fmt.Errorf("max_recv_msg_size must be positive")
	}
	if g.MaxSendMsgSize <= 0 {
		return fmt.Errorf("max_send_msg_size must be positive")
	}
	return nil
}

func validateDatabase(d *DatabaseConfig) error {
	switch d.Backend {
	case "pebble", "leveldb":
		if d.Path == "" {
			return fmt.Errorf("path is required for backend %q", d.Backend)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown backend %q", d.Backend)
	}

	switch d.Compression {
	case "lz4", "none", "":
	default:
		return fmt.Errorf("unknown compression %q", d.Compression)
	}
	return nil
}

func validateHistory(h *HistoryConfig) error {
	switch h.Driver {
	case "off", "":
	case "postgres", "sqlite":
		if h.DSN == "" {
			return fmt.Errorf("dsn is required for driver %q", h.Driver)
		}
	default:
		return fmt.Errorf("unknown driver %q", h.Driver)
	}
	if h.MaxOpenConns < 0 {
		return fmt.Errorf("max_open_conns cannot be negative")
	}
	return nil
}

func validateContracts(contracts []ContractConfig) error {
	seen := make(map[asset.Address]bool, len(contracts))
	for i, c := range contracts {
		addr, err := asset.ParseAddress(c.Address)
		if err != nil {
			return fmt.Errorf("contract %d address: %w", i, err)
		}
		if seen[addr] {
			return fmt.Errorf("contract %d: duplicate address %s", i, addr)
		}
		seen[addr] = true

		switch c.Standard {
		case "unique", "multi_unit", "fungible":
		default:
			return fmt.Errorf("contract %d: unknown standard %q", i, c.Standard)
		}
	}
	return nil
}

func validateEngine(e *EngineConfig) error {
	required := map[string]string{
		"payment_token": e.PaymentToken,
		"fee_recipient": e.FeeRecipient,
		"admin":         e.Admin,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := asset.ParseAddress(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if e.Operator != "" {
		if _, err := asset.ParseAddress(e.Operator); err != nil {
			return fmt.Errorf("operator: %w", err)
		}
	}
	return nil
}

// Addresses returns the engine parties parsed into addresses. It assumes
// the config has already passed validation.
func (e EngineConfig) Addresses() (paymentToken, feeRecipient, admin, operator asset.Address, err error) {
	if paymentToken, err = asset.ParseAddress(e.PaymentToken); err != nil {
		return
	}
	if feeRecipient, err = asset.ParseAddress(e.FeeRecipient); err != nil {
		return
	}
	if admin, err = asset.ParseAddress(e.Admin); err != nil {
		return
	}
	if e.Operator != "" {
		operator, err = asset.ParseAddress(e.Operator)
	}
	return
}
