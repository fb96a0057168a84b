// Command grocer-send writes notifications to a push gateway over a
// resilient TLS connection.
//
// Each payload file is written as-is, one write per file. With no files the
// payload is read from standard input. A rejected payload is reported with
// its status and identifier and the command exits non-zero.
//
// Usage:
//
//	grocer-send [flags] [payload-file...]
//
// Flags:
//
//	-config string        YAML configuration file
//	-gateway string       Gateway host (default gateway.push.apple.com)
//	-port int             Gateway port (default 2195)
//	-cert string          Client credential (PEM or PKCS#12)
//	-passphrase string    Credential passphrase
//	-ca string            PEM bundle of trusted gateway CAs
//	-insecure             Skip gateway certificate verification
//	-retries int          Attempts per operation (default 3)
//	-select-wait duration Wait for an error frame after each write (default 500ms)
//	-backoff              Space out reconnect attempts exponentially
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-log-format string    Console protocol events via slog, zerolog or logrus (default "slog")
//	-protocol-log string  File path for protocol event logging (CBOR format)
//	-interactive          Start an interactive shell
//
// Settings are applied in order: defaults, config file, GROCER_* environment
// variables, flags.
//
// Examples:
//
//	# Send two notifications to the sandbox gateway
//	grocer-send -gateway gateway.sandbox.push.apple.com -cert push.pem n1.bin n2.bin
//
//	# Interactive session against a local simulator
//	grocer-send -gateway localhost -insecure -cert client.pem -interactive
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
	"time"

	"github.com/santthosh/grocer/cmd/grocer-send/interactive"
	"github.com/santthosh/grocer/internal/config"
	"github.com/santthosh/grocer/pkg/connection"
	grocerlog "github.com/santthosh/grocer/pkg/log"
)

var (
	configFile  = flag.String("config", "", "YAML configuration file")
	gateway     = flag.String("gateway", "", "Gateway host")
	port        = flag.Int("port", 0, "Gateway port")
	certFile    = flag.String("cert", "", "Client credential (PEM or PKCS#12)")
	passphrase  = flag.String("passphrase", "", "Credential passphrase")
	caFile      = flag.String("ca", "", "PEM bundle of trusted gateway CAs")
	insecure    = flag.Bool("insecure", false, "Skip gateway certificate verification")
	retries     = flag.Int("retries", 0, "Attempts per operation")
	selectWait  = flag.Duration("select-wait", 0, "Wait for an error frame after each write")
	useBackoff  = flag.Bool("backoff", false, "Space out reconnect attempts exponentially")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFormat   = flag.String("log-format", "", "Console protocol events via slog, zerolog or logrus")
	protocolLog = flag.String("protocol-log", "", "File path for protocol event logging (CBOR format)")
	interact    = flag.Bool("interactive", false, "Start an interactive shell")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run returns the exit code. Deferred cleanup runs before main exits.
func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	protocolLogger, closeLog, err := newProtocolLogger(cfg, os.Stderr, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create protocol logger: %v\n", err)
		return 1
	}
	defer closeLog()

	connCfg, err := cfg.ConnectionConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	opts := []connection.Option{
		connection.WithLogger(logger),
		connection.WithProtocolLogger(protocolLogger),
	}
	if cfg.Backoff {
		opts = append(opts, connection.WithBackoff(connection.NewBackoff()))
	}

	conn, err := connection.New(connCfg, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer conn.Close()

	if *interact {
		shell, err := interactive.New(conn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		runUntilSignal(shell, sigCh)
		return 0
	}

	if err := sendAll(conn, flag.Args(), os.Stdout); err != nil {
		return 1
	}
	return 0
}

// loadConfig layers flags that were set on the command line over the
// file and environment configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "gateway":
			cfg.Gateway = *gateway
		case "port":
			cfg.Port = *port
		case "cert":
			cfg.Certificate = *certFile
		case "passphrase":
			cfg.Passphrase = *passphrase
		case "ca":
			cfg.CAFile = *caFile
		case "insecure":
			cfg.InsecureSkipVerify = *insecure
		case "retries":
			cfg.Retries = *retries
		case "select-wait":
			cfg.SelectWait = *selectWait
		case "backoff":
			cfg.Backoff = *useBackoff
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "protocol-log":
			cfg.ProtocolLog = *protocolLog
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newProtocolLogger prints protocol events to console in the configured
// format and, when a protocol log path is set, also writes them to a CBOR
// log file.
func newProtocolLogger(cfg *config.Config, console io.Writer, logger *slog.Logger) (grocerlog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	consoleLogger, err := grocerlog.NewConsoleLogger(cfg.LogFormat, console, level)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ProtocolLog == "" {
		return consoleLogger, func() {}, nil
	}

	file, err := grocerlog.NewFileLogger(cfg.ProtocolLog)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("protocol logging", "path", cfg.ProtocolLog)
	return grocerlog.NewMultiLogger(file, consoleLogger), func() { file.Close() }, nil
}

// sendAll writes each payload file, or standard input when none are given.
// It keeps going after a rejection and returns the first error.
func sendAll(conn interactive.Sender, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		paths = []string{"-"}
	}

	var firstErr error
	for _, path := range paths {
		content, err := readPayload(path)
		if err == nil {
			start := time.Now()
			err = conn.Write(content)
			if err == nil {
				fmt.Fprintf(out, "%s: sent %d bytes in %s\n", path, len(content), time.Since(start).Round(time.Millisecond))
				continue
			}
		}
		fmt.Fprintf(out, "%s: %s\n", path, interactive.Describe(err))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func readPayload(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// shellRunner is the part of the interactive shell that main drives.
type shellRunner interface {
	Run(ctx context.Context, cancel context.CancelFunc)
	Stop()
}

// runUntilSignal runs the shell until it exits or a signal arrives. It
// returns only after the shell loop has returned, so a command in flight
// finishes before the caller closes the connection.
func runUntilSignal(shell shellRunner, sigCh <-chan os.Signal) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		shell.Run(ctx, cancel)
	}()

	select {
	case <-sigCh:
		cancel()
		shell.Stop()
	case <-ctx.Done():
	}
	<-done
}
