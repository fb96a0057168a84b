// Package transport provides the encrypted socket used to talk to a push
// gateway.
//
// The transport layer handles:
//   - TLS client connections authenticated with a client certificate
//   - Full writes of caller-framed notification bytes
//   - A bounded readiness wait so callers can detect an early error frame
//   - Non-blocking reads of whatever the gateway already sent
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│   Notification frames (opaque) │
//	├────────────────────────────────┤
//	│   6-byte error frames (in)     │
//	├────────────────────────────────┤
//	│         TLS 1.2+               │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// The gateway never acknowledges a good notification. It answers only on
// failure, with a single error frame, and then closes the connection.
// Socket.Wait is how callers tell the two apart.
package transport
