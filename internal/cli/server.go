package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/genecyber/goNFTraded/internal/config"
	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
	enginegrpc "github.com/genecyber/goNFTraded/internal/grpc"
	"github.com/genecyber/goNFTraded/internal/server/api/jsonrpc"
	"github.com/genecyber/goNFTraded/internal/storage/database"
	"github.com/genecyber/goNFTraded/internal/storage/database/leveldb"
	"github.com/genecyber/goNFTraded/internal/storage/database/memory"
	"github.com/genecyber/goNFTraded/internal/storage/database/pebble"
	"github.com/genecyber/goNFTraded/internal/storage/relationaldb"
	"github.com/genecyber/goNFTraded/internal/storage/relationaldb/postgres"
	"github.com/genecyber/goNFTraded/internal/storage/relationaldb/sqlite"
	"github.com/genecyber/goNFTraded/internal/storage/statestore"
	"github.com/genecyber/goNFTraded/internal/tokens"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the exchange engine daemon",
	Long: `Start the nftraded server which provides:
- HTTP JSON-RPC API for offer and configuration operations
- gRPC API with health checking
- Durable offer ledger state
- Optional relational mirror of accepted offers

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = serverCmd.RunE
}

func runServer(cmd *cobra.Command, args []string) error {
	paths := config.DefaultConfigPaths()
	if configFile != "" {
		paths.Main = configFile
	}

	cfg, err := config.LoadConfig(paths)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var storeOpts []statestore.Option
	if cfg.Database.Compression == "none" {
		storeOpts = append(storeOpts, statestore.WithoutCompression())
	}
	store := statestore.New(db, storeOpts...)

	snapshot, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger state: %w", err)
	}

	engineOpts := []trade.Option{
		trade.WithPersister(store),
		trade.WithSnapshot(snapshot),
	}

	repo, err := openHistory(&cfg.History)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if repo != nil {
		if err := repo.Open(ctx); err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer repo.Close()
		engineOpts = append(engineOpts, trade.WithHistorySink(relationaldb.NewSink(repo)))
	}

	paymentToken, feeRecipient, admin, operator, err := cfg.Engine.Addresses()
	if err != nil {
		return err
	}

	// The daemon runs against its own in-process asset registry, seeded
	// with the configured contracts and the payment token. External chain
	// resolvers plug in through the asset.Resolver interface.
	registry := tokens.NewRegistry()
	if err := seedRegistry(registry, cfg.Contracts, paymentToken); err != nil {
		return fmt.Errorf("seed contracts: %w", err)
	}
	handler := asset.NewHandler(registry, operator)
	engine := trade.New(handler, paymentToken, feeRecipient, admin, engineOpts...)

	rpcServer := jsonrpc.NewServer(jsonrpc.NewTradeHandler(engine))

	mux := http.NewServeMux()
	mux.Handle("/", rpcServer)
	mux.Handle("/rpc", rpcServer)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"nftraded"}`))
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
	}

	var grpcServer *enginegrpc.Server
	if cfg.GRPC.Enabled {
		grpcServer, err = enginegrpc.NewServer(&enginegrpc.ServerConfig{
			Address:        cfg.GRPC.Address,
			MaxRecvMsgSize: cfg.GRPC.MaxRecvMsgSize,
			MaxSendMsgSize: cfg.GRPC.MaxSendMsgSize,
		}, engine)
		if err != nil {
			return fmt.Errorf("configure grpc: %w", err)
		}
	}

	if !quiet {
		fmt.Println("Starting nftraded - peer-to-peer asset exchange engine")
		fmt.Printf("  - HTTP JSON-RPC: http://%s/\n", cfg.Server.Address())
		fmt.Printf("  - Health check:  http://%s/health\n", cfg.Server.Address())
		if grpcServer != nil {
			fmt.Printf("  - gRPC:          %s\n", cfg.GRPC.Address)
		}
		fmt.Printf("  - State backend: %s\n", cfg.Database.Backend)
		if repo != nil {
			fmt.Printf("  - History:       %s\n", cfg.History.Driver)
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if grpcServer != nil {
		g.Go(func() error {
			return grpcServer.Start()
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
		if grpcServer != nil {
			grpcServer.Stop()
		}
		return nil
	})

	return g.Wait()
}

// seedRegistry deploys the configured in-memory contracts and makes sure a
// fungible contract exists at the payment token address, so flat fees have
// something to charge against.
func seedRegistry(registry *tokens.Registry, contracts []config.ContractConfig, paymentToken asset.Address) error {
	for _, c := range contracts {
		addr, err := asset.ParseAddress(c.Address)
		if err != nil {
			return fmt.Errorf("contract %q: %w", c.Address, err)
		}

		var contract asset.Contract
		switch c.Standard {
		case "unique":
			contract = tokens.NewUnique()
		case "multi_unit":
			contract = tokens.NewMultiUnit()
		case "fungible":
			contract = tokens.NewFungible()
		default:
			return fmt.Errorf("contract %s: unknown standard %q", addr, c.Standard)
		}

		if err := registry.DeployAt(addr, contract); err != nil {
			return err
		}
	}

	if existing, err := registry.Contract(paymentToken); err == nil {
		if !existing.SupportsCapability(asset.CapFungible) {
			return fmt.Errorf("payment token %s is not a fungible contract", paymentToken)
		}
		return nil
	}
	return registry.DeployAt(paymentToken, tokens.NewFungible())
}

// openDatabase opens the configured key-value backend.
func openDatabase(cfg *config.DatabaseConfig) (database.DB, error) {
	switch cfg.Backend {
	case "pebble":
		return pebble.Open(cfg.Path)
	case "leveldb":
		return leveldb.Open(cfg.Path)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
	}
}

// openHistory builds the configured relational history repository, nil when
// the mirror is disabled.
func openHistory(cfg *config.HistoryConfig) (relationaldb.HistoryRepository, error) {
	switch cfg.Driver {
	case "off", "":
		return nil, nil
	case "postgres":
		return postgres.NewHistoryRepository(&relationaldb.Config{
			Driver:       relationaldb.DriverPostgres,
			DSN:          cfg.DSN,
			MaxOpenConns: cfg.MaxOpenConns,
		})
	case "sqlite":
		return sqlite.NewHistoryRepository(&relationaldb.Config{
			Driver:       relationaldb.DriverSQLite,
			DSN:          cfg.DSN,
			MaxOpenConns: cfg.MaxOpenConns,
		})
	default:
		return nil, fmt.Errorf("unknown history driver %q", cfg.Driver)
	}
}
