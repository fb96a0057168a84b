// Package wire defines the binary frames exchanged with a push gateway.
//
// The gateway never acknowledges a notification it accepted. When it rejects
// one it sends a single fixed-size error frame and closes the connection:
//
//	┌─────────┬────────┬──────────────────────────┐
//	│ command │ status │ identifier (big endian)  │
//	│  1 byte │ 1 byte │         4 bytes          │
//	└─────────┴────────┴──────────────────────────┘
//
// The command byte is always 8. The identifier echoes the identifier of the
// notification that was rejected, so callers can correlate the frame with
// the content they sent.
package wire
