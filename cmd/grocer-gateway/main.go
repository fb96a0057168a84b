// Command grocer-gateway runs a local push gateway simulator.
//
// It speaks the gateway side of the binary push protocol: it accepts TLS
// connections, reads notifications and never acknowledges them. It can be
// told to reject or drop notifications to exercise client error handling.
//
// Usage:
//
//	grocer-gateway [flags]
//
// Flags:
//
//	-addr string          Listen address (default ":2195")
//	-cert string          Server certificate and key (PEM); generated when empty
//	-write-cert string    Write the generated certificate (PEM) to this path
//	-client-ca string     Require client certificates signed by this PEM bundle
//	-reject-every int     Reject every Nth notification per session
//	-reject-status int    Status sent with rejections (default 1)
//	-drop-every int       Hang up without an error frame on every Nth notification
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-log-format string    Console protocol events via slog, zerolog or logrus (default "slog")
//	-protocol-log string  File path for protocol event logging (CBOR format)
//
// Examples:
//
//	# Simulator that rejects every third notification with INVALID_TOKEN
//	grocer-gateway -addr :2195 -reject-every 3 -reject-status 8 -write-cert gw.pem
//
//	# Client against it
//	grocer-send -gateway localhost -ca gw.pem -cert client.pem n1.bin
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/santthosh/grocer/internal/config"
	"github.com/santthosh/grocer/internal/gatewaysim"
	"github.com/santthosh/grocer/pkg/cert"
	grocerlog "github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/transport"
	"github.com/santthosh/grocer/pkg/wire"
)

// Options holds the simulator settings taken from the command line.
type Options struct {
	Addr         string
	CertFile     string
	WriteCert    string
	ClientCA     string
	RejectEvery  int
	RejectStatus int
	DropEvery    int
	LogLevel     string
	LogFormat    string
	ProtocolLog  string
}

var opts Options

func init() {
	flag.StringVar(&opts.Addr, "addr", fmt.Sprintf(":%d", transport.DefaultPort), "Listen address")
	flag.StringVar(&opts.CertFile, "cert", "", "Server certificate and key (PEM); generated when empty")
	flag.StringVar(&opts.WriteCert, "write-cert", "", "Write the generated certificate (PEM) to this path")
	flag.StringVar(&opts.ClientCA, "client-ca", "", "Require client certificates signed by this PEM bundle")
	flag.IntVar(&opts.RejectEvery, "reject-every", 0, "Reject every Nth notification per session")
	flag.IntVar(&opts.RejectStatus, "reject-status", int(wire.StatusProcessingError), "Status sent with rejections")
	flag.IntVar(&opts.DropEvery, "drop-every", 0, "Hang up without an error frame on every Nth notification")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&opts.LogFormat, "log-format", grocerlog.FormatSlog, "Console protocol events via slog, zerolog or logrus")
	flag.StringVar(&opts.ProtocolLog, "protocol-log", "", "File path for protocol event logging (CBOR format)")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the exit code. Deferred cleanup runs before main exits.
func run() int {
	level, err := config.ParseLevel(opts.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	simConfig, err := buildConfig(opts, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	protocolLogger, closeLog, err := newProtocolLogger(opts, os.Stderr, level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create protocol logger: %v\n", err)
		return 1
	}
	defer closeLog()
	simConfig.ProtocolLogger = protocolLogger

	server, err := gatewaysim.New(simConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := server.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info("gateway simulator listening", "addr", server.Addr().String(),
		"reject_every", opts.RejectEvery, "reject_status", wire.Status(opts.RejectStatus).String(),
		"drop_every", opts.DropEvery)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutting down", "signal", sig.String())

	if err := server.Stop(); err != nil {
		logger.Warn("stop failed", "error", err)
	}
	stats := server.Stats()
	logger.Info("gateway simulator stopped",
		"sessions", stats.Sessions, "notifications", stats.Notifications,
		"rejections", stats.Rejections, "drops", stats.Drops)
	return 0
}

// newProtocolLogger prints protocol events to console in the chosen format,
// adding a CBOR log file when one is configured.
func newProtocolLogger(o Options, console io.Writer, level slog.Level) (grocerlog.Logger, func(), error) {
	consoleLogger, err := grocerlog.NewConsoleLogger(o.LogFormat, console, level)
	if err != nil {
		return nil, nil, err
	}
	if o.ProtocolLog == "" {
		return consoleLogger, func() {}, nil
	}

	file, err := grocerlog.NewFileLogger(o.ProtocolLog)
	if err != nil {
		return nil, nil, err
	}
	return grocerlog.NewMultiLogger(file, consoleLogger), func() { file.Close() }, nil
}

// buildConfig turns command-line options into a simulator configuration,
// generating a certificate when none is given.
func buildConfig(o Options, logger *slog.Logger) (gatewaysim.Config, error) {
	if o.RejectStatus < 0 || o.RejectStatus > 255 {
		return gatewaysim.Config{}, fmt.Errorf("reject-status must be 0-255, got %d", o.RejectStatus)
	}
	if o.RejectEvery < 0 || o.DropEvery < 0 {
		return gatewaysim.Config{}, fmt.Errorf("reject-every and drop-every must not be negative")
	}

	var cred *cert.Credential
	if o.CertFile != "" {
		c, err := cert.LoadCredentialFile(o.CertFile, "")
		if err != nil {
			return gatewaysim.Config{}, fmt.Errorf("load certificate: %w", err)
		}
		cred = c
	} else {
		c, certPEM, _, err := cert.GenerateSelfSigned(cert.SelfSignedConfig{
			CommonName: "grocer-gateway",
			Hosts:      []string{"localhost", "127.0.0.1", "::1"},
		})
		if err != nil {
			return gatewaysim.Config{}, fmt.Errorf("generate certificate: %w", err)
		}
		if o.WriteCert != "" {
			if err := os.WriteFile(o.WriteCert, certPEM, 0o644); err != nil {
				return gatewaysim.Config{}, fmt.Errorf("write certificate: %w", err)
			}
		}
		cred = c
	}

	tlsConfig := &transport.TLSConfig{Certificate: cred.TLSCertificate()}
	if o.ClientCA != "" {
		data, err := os.ReadFile(o.ClientCA)
		if err != nil {
			return gatewaysim.Config{}, fmt.Errorf("read client CA: %w", err)
		}
		pool, err := cert.LoadRootCAs(data)
		if err != nil {
			return gatewaysim.Config{}, fmt.Errorf("load client CA: %w", err)
		}
		tlsConfig.ClientCAs = pool
	}

	return gatewaysim.Config{
		TLSConfig: tlsConfig,
		Address:   o.Addr,
		Policy: gatewaysim.Policy{
			RejectEvery:  o.RejectEvery,
			RejectStatus: wire.Status(o.RejectStatus),
			DropEvery:    o.DropEvery,
		},
		Logger: logger,
		OnReject: func(sessionID string, status wire.Status, identifier uint32) {
			logger.Info("rejected notification", "session", sessionID, "status", status.String(), "identifier", identifier)
		},
		OnError: func(err error) {
			logger.Warn("session error", "error", err)
		},
	}, nil
}
