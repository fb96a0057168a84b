// Package connection provides the gateway Connection: a lazily established,
// self-healing socket with bounded retries and error frame detection.
//
// # Retry Envelope
//
// Connect, Read and Write run inside the same envelope:
//
//  1. Create the socket if there is none, connect it unless connected.
//  2. Run the operation.
//  3. On a transient fault, tear the socket down and start over at 1,
//     up to Config.Retries attempts in total.
//
// Two outcomes are never retried:
//   - A handshake refused because the client certificate expired. It is
//     returned as *CertificateExpiredError.
//   - Anything Write detects after the bytes went out (an error frame, an
//     error condition on the socket, a truncated frame). Retrying would
//     resend a notification the gateway may already have acted on.
//
// # Error Frames
//
// The gateway never acknowledges a good notification. After a write the
// Connection waits up to Config.SelectWait (500ms by default):
//
//	silence      -> success, the socket is kept
//	readable     -> read 6 bytes, return *wire.ErrorResponse
//	error        -> return ErrUnexpectedSelect
//
// Either failure tears the socket down; the gateway closes it anyway.
//
// # Backoff
//
// By default attempts follow each other immediately. WithBackoff accepts any
// backoff.BackOff; Backoff provides exponential delays with jitter:
//
//	actual_delay = random(base_delay * 0.75, base_delay * 1.25)
//
// The backoff is reset at the start of every operation.
package connection
