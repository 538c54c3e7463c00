package grpc

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/genecyber/goNFTraded/internal/core/asset"
	"github.com/genecyber/goNFTraded/internal/core/trade"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// TradeServiceInterface defines the interface for trade operations needed by
// gRPC handlers. This interface is implemented by *trade.Engine.
type TradeServiceInterface interface {
	// AddOffer records a new offer and returns its slot
	AddOffer(ctx context.Context, maker asset.Address, offered, requested trade.AssetRef, class trade.CollectionClass) (trade.OfferSlot, error)

	// WithdrawOffer tombstones the caller's own offer
	WithdrawOffer(ctx context.Context, caller asset.Address, key trade.AssetKey, slot int) error

	// RejectOffer lets the requested asset's holder tombstone an offer
	RejectOffer(ctx context.Context, caller asset.Address, key trade.AssetKey, slot int) error

	// AcceptOffer executes the swap addressed by (key, slot)
	AcceptOffer(ctx context.Context, caller asset.Address, key trade.AssetKey, slot int, quantity uint64, class trade.CollectionClass) (*trade.SwapResult, error)

	// GetOffer returns the offer at (key, slot), zero if tombstoned or absent
	GetOffer(key trade.AssetKey, slot int) trade.Offer

	// GetOfferCount returns the number of live offers under key
	GetOfferCount(key trade.AssetKey) int

	// GetOffered returns maker's live offers collateralized by key
	GetOffered(key trade.AssetKey, maker asset.Address) []trade.Offer

	// GetAcceptedOffers returns the historical swap log for key
	GetAcceptedOffers(key trade.AssetKey) []trade.Offer

	// GetConfig returns the fee/permission configuration for a class
	GetConfig(class trade.CollectionClass) trade.CollectionConfig

	// Version returns the engine semantics version
	Version() uint32

	// Handler returns the asset handler used by the engine
	Handler() *asset.Handler
}

// Server represents the gRPC server for trade operations.
type Server struct {
	mu sync.RWMutex

	// grpcServer is the underlying gRPC server
	grpcServer *grpc.Server

	// tradeService provides access to trade operations
	tradeService TradeServiceInterface

	// health reports serving status to gRPC health checkers
	health *health.Server

	// config holds the server configuration
	config *ServerConfig

	// listener is the network listener
	listener net.Listener

	// running indicates if the server is currently running
	running bool
}

// NewServer creates a new gRPC server with the given configuration.
func NewServer(cfg *ServerConfig, tradeSvc TradeServiceInterface) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
	}

	grpcServer := grpc.NewServer(opts...)

	healthSvc := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSvc)

	server := &Server{
		grpcServer:   grpcServer,
		tradeService: tradeSvc,
		health:       healthSvc,
		config:       cfg,
		running:      false,
	}

	return server, nil
}

// Start starts the gRPC server and begins accepting connections.
// This method blocks until the server is stopped or an error occurs.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	return s.grpcServer.Serve(listener)
}

// StartAsync starts the gRPC server in a goroutine and returns immediately.
// Returns an error if the server is already running or fails to start.
func (s *Server) StartAsync() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		_ = s.grpcServer.Serve(listener)
	}()

	return nil
}

// Stop gracefully stops the gRPC server.
// It stops accepting new connections and waits for existing connections to complete.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.grpcServer.GracefulStop()
	s.running = false
}

// StopNow immediately stops the gRPC server without waiting for connections.
func (s *Server) StopNow() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.grpcServer.Stop()
	s.running = false
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// GetGRPCServer returns the underlying grpc.Server.
// This can be used to register additional services.
func (s *Server) GetGRPCServer() *grpc.Server {
	return s.grpcServer
}
