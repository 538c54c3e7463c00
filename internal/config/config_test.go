package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddrA = "0x00000000000000000000000000000000000000aa"
const testAddrB = "0x00000000000000000000000000000000000000bb"
const testAddrC = "0x00000000000000000000000000000000000000cc"

func TestLoadConfig(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "nftraded_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	mainConfigContent := `
[server]
bind = "0.0.0.0"
port = 8080

[grpc]
enabled = true
address = "127.0.0.1:9090"

[database]
backend = "leveldb"
path = "/tmp/test/db"
compression = "none"

[history]
driver = "sqlite"
dsn = "file:/tmp/test/history.db"

[engine]
payment_token = "` + testAddrA + `"
fee_recipient = "` + testAddrB + `"
admin = "` + testAddrC + `"

[[contracts]]
address = "0x00000000000000000000000000000000000000dd"
standard = "unique"

[[contracts]]
address = "0x00000000000000000000000000000000000000ee"
standard = "fungible"
`

	mainConfigPath := filepath.Join(tempDir, "test_config.toml")
	err = os.WriteFile(mainConfigPath, []byte(mainConfigContent), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(ConfigPaths{Main: mainConfigPath})
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, "0.0.0.0", config.Server.Bind)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", config.Server.Address())

	assert.True(t, config.GRPC.Enabled)
	assert.Equal(t, "127.0.0.1:9090", config.GRPC.Address)
	// Message size defaults survive a partial [grpc] section
	assert.Equal(t, 4*1024*1024, config.GRPC.MaxRecvMsgSize)

	assert.Equal(t, "leveldb", config.Database.Backend)
	assert.Equal(t, "/tmp/test/db", config.Database.Path)
	assert.Equal(t, "none", config.Database.Compression)

	assert.Equal(t, "sqlite", config.History.Driver)
	assert.Equal(t, "file:/tmp/test/history.db", config.History.DSN)

	require.Len(t, config.Contracts, 2)
	assert.Equal(t, "unique", config.Contracts[0].Standard)
	assert.Equal(t, "fungible", config.Contracts[1].Standard)

	paymentToken, feeRecipient, admin, operator, err := config.Engine.Addresses()
	require.NoError(t, err)
	assert.Equal(t, testAddrA, paymentToken.String())
	assert.Equal(t, testAddrB, feeRecipient.String())
	assert.Equal(t, testAddrC, admin.String())
	assert.True(t, operator.IsZero())
}

func TestLoadConfigMissingFile(t *testing.T) {
	// A missing config file falls back to defaults, which fail engine
	// validation because the party addresses are unset.
	_, err := LoadConfig(ConfigPaths{Main: "/nonexistent/nftraded.toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment_token")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "nftraded_config_test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	mainConfigContent := `
[database]
backend = "memory"

[engine]
payment_token = "` + testAddrA + `"
fee_recipient = "` + testAddrB + `"
admin = "` + testAddrC + `"
`
	mainConfigPath := filepath.Join(tempDir, "test_config.toml")
	require.NoError(t, os.WriteFile(mainConfigPath, []byte(mainConfigContent), 0644))

	t.Setenv("NFTRADED_SERVER_PORT", "7100")

	config, err := LoadConfig(ConfigPaths{Main: mainConfigPath})
	require.NoError(t, err)
	assert.Equal(t, 7100, config.Server.Port)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Bind: "127.0.0.1", Port: 5005},
			GRPC: GRPCConfig{
				Enabled:        true,
				Address:        "127.0.0.1:50051",
				MaxRecvMsgSize: 1 << 20,
				MaxSendMsgSize: 1 << 20,
			},
			Database: DatabaseConfig{Backend: "memory"},
			History:  HistoryConfig{Driver: "off"},
			Engine: EngineConfig{
				PaymentToken: testAddrA,
				FeeRecipient: testAddrB,
				Admin:        testAddrC,
			},
		}
	}

	require.NoError(t, ValidateConfig(valid()))

	t.Run("bad port", func(t *testing.T) {
		c := valid()
		c.Server.Port = 0
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("unknown backend", func(t *testing.T) {
		c := valid()
		c.Database.Backend = "rocksdb"
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("disk backend needs path", func(t *testing.T) {
		c := valid()
		c.Database.Backend = "pebble"
		c.Database.Path = ""
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("history driver needs dsn", func(t *testing.T) {
		c := valid()
		c.History.Driver = "postgres"
		c.History.DSN = ""
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("bad admin address", func(t *testing.T) {
		c := valid()
		c.Engine.Admin = "not-an-address"
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("grpc disabled skips address check", func(t *testing.T) {
		c := valid()
		c.GRPC = GRPCConfig{Enabled: false}
		assert.NoError(t, ValidateConfig(c))
	})

	t.Run("seeded contracts", func(t *testing.T) {
		c := valid()
		c.Contracts = []ContractConfig{
			{Address: "0x00000000000000000000000000000000000000dd", Standard: "unique"},
			{Address: "0x00000000000000000000000000000000000000ee", Standard: "fungible"},
		}
		assert.NoError(t, ValidateConfig(c))
	})

	t.Run("contract with unknown standard", func(t *testing.T) {
		c := valid()
		c.Contracts = []ContractConfig{
			{Address: "0x00000000000000000000000000000000000000dd", Standard: "erc721"},
		}
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("contract with bad address", func(t *testing.T) {
		c := valid()
		c.Contracts = []ContractConfig{
			{Address: "0x123", Standard: "unique"},
		}
		assert.Error(t, ValidateConfig(c))
	})

	t.Run("duplicate contract address", func(t *testing.T) {
		c := valid()
		c.Contracts = []ContractConfig{
			{Address: "0x00000000000000000000000000000000000000dd", Standard: "unique"},
			{Address: "0x00000000000000000000000000000000000000dd", Standard: "fungible"},
		}
		assert.Error(t, ValidateConfig(c))
	})
}
