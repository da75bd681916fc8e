package main

import (
	"context"
	"crypto/tls"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/arrowlane/flightsql/flightsql"
	"github.com/arrowlane/flightsql/sqlbackend/sqlite"
)

func main() {
	configFile := flag.String("config", os.Getenv("FLIGHTSQL_CONFIG"), "Path to YAML config file (env: FLIGHTSQL_CONFIG)")
	host := flag.String("host", "", "Host to bind to (env: FLIGHTSQL_HOST)")
	port := flag.Int("port", 0, "Port to listen on (env: FLIGHTSQL_PORT)")
	sqliteDSN := flag.String("sqlite-dsn", "", "SQLite DSN backing the engine (env: FLIGHTSQL_SQLITE_DSN)")
	certFile := flag.String("cert", "", "TLS certificate file (env: FLIGHTSQL_CERT)")
	keyFile := flag.String("key", "", "TLS private key file (env: FLIGHTSQL_KEY)")
	seed := flag.Bool("seed", false, "Populate the reference intTable/foreignTable fixture schema on startup")
	showHelp := flag.Bool("help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "flightsql - Arrow Flight SQL protocol engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: flightsql [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPrecedence: CLI flags > environment variables > config file > defaults\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	shutdownLogging := initLogging()
	defer shutdownLogging()
	shutdownTracing := initTracing()
	defer shutdownTracing()

	cfg := defaultConfig()

	if *configFile != "" {
		fileCfg, err := loadConfigFile(*configFile)
		if err != nil {
			slog.Error("Failed to load config file", "path", *configFile, "error", err)
			os.Exit(1)
		}
		applyFileConfig(&cfg, fileCfg)
		slog.Info("Loaded configuration file", "path", *configFile)
	}

	applyEnv(&cfg)

	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *sqliteDSN != "" {
		cfg.SqliteDSN = *sqliteDSN
	}
	if *certFile != "" {
		cfg.TLSCertFile = *certFile
	}
	if *keyFile != "" {
		cfg.TLSKeyFile = *keyFile
	}

	backend, err := sqlite.Open(cfg.SqliteDSN)
	if err != nil {
		slog.Error("Failed to open SQLite backend", "dsn", cfg.SqliteDSN, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	if *seed {
		if err := backend.Seed(context.Background()); err != nil {
			slog.Error("Failed to seed fixture schema", "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded reference intTable/foreignTable fixture schema.")
	}

	server := flightsql.NewServer(backend, flightsql.Config{
		PreparedStatementCacheSize: cfg.PreparedStatementCacheSize,
		PreparedStatementIdleTTL:   cfg.PreparedStatementIdleTTL,
		AdHocStatementCacheSize:    cfg.AdHocStatementCacheSize,
		AdHocStatementIdleTTL:      cfg.AdHocStatementIdleTTL,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		slog.Error("Failed to listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(flightsql.MaxGRPCMessageSize),
		grpc.MaxSendMsgSize(flightsql.MaxGRPCMessageSize),
	}
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			slog.Error("Failed to load TLS certificate", "error", err)
			os.Exit(1)
		}
		opts = append(opts, grpc.Creds(credentials.NewTLS(&tls.Config{Certificates: []tls.Certificate{cert}})))
	}

	flightSrv := flight.NewServerWithMiddleware(nil, opts...)
	flightSrv.RegisterFlightService(server)
	flightSrv.InitListener(listener)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Shutting down...")
		flightSrv.Shutdown()
	}()

	slog.Info("Starting flightsql server", "addr", addr, "tls", cfg.TLSCertFile != "")
	if err := flightSrv.Serve(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
