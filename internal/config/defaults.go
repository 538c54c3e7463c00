package config

import "github.com/spf13/viper"

// setDefaults sets all default values for the daemon configuration.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5005)

	// gRPC defaults
	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.address", "127.0.0.1:50051")
	v.SetDefault("grpc.max_recv_msg_size", 4*1024*1024)
	v.SetDefault("grpc.max_send_msg_size", 4*1024*1024)

	// Database defaults
	v.SetDefault("database.backend", "pebble")
	v.SetDefault("database.path", "/var/lib/nftraded/db")
	v.SetDefault("database.compression", "lz4")

	// History defaults
	v.SetDefault("history.driver", "off")
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.max_open_conns", 0)

	// Engine defaults. Addresses have no sensible defaults and must be
	// supplied; the operator defaults to the zero address, meaning the
	// engine itself is the approved party.
	v.SetDefault("engine.payment_token", "")
	v.SetDefault("engine.fee_recipient", "")
	v.SetDefault("engine.admin", "")
	v.SetDefault("engine.operator", "")
}
