// Package log provides structured protocol logging for gateway connections.
//
// It is separate from operational logging (slog): protocol capture is a
// machine-readable trace of what a Connection did on the wire, including
// every retry and every rejection the gateway sent back.
//
// # Basic Usage
//
//	// Console, via slog
//	conn, _ := connection.New(cfg, connection.WithProtocolLogger(log.NewSlogAdapter(slog.Default())))
//
//	// Binary file for grocer-log
//	fl, _ := log.NewFileLogger("/var/log/grocer/push.glog")
//	defer fl.Close()
//
//	// Both
//	pl := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// Adapters exist for zerolog and logrus as well.
//
// # File Format
//
// Log files are a sequence of CBOR-encoded Events with integer keys, using the
// .glog extension. Reader streams them back with an optional Filter.
package log
