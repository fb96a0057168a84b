package connection

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/santthosh/grocer/pkg/wire"
)

// withConnection runs body against a connected socket.
//
// Outcomes per attempt:
//   - success: return nil.
//   - expired client certificate: return *CertificateExpiredError.
//   - permanent (error frame, unexpected select, end of stream): return
//     the cause.
//   - anything else: tear down, wait for the backoff, and try again,
//     returning the fault unchanged after Retries attempts.
func (c *Connection) withConnection(op string, body func() error) error {
	c.backoff.Reset()

	for attempt := 1; ; attempt++ {
		err := c.ensureConnection()
		if err == nil {
			err = body()
		}
		if err == nil {
			return nil
		}

		if expired := asCertificateExpired(err); expired != nil {
			c.warnLog("client certificate expired", "op", op, "error", err)
			c.logError(op, expired, "certificate_expired")
			return expired
		}

		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}

		if attempt >= c.config.Retries {
			c.warnLog("giving up", "op", op, "attempts", attempt, "error", err)
			c.logError(op, err, "retries_exhausted")
			return err
		}

		c.destroyConnection("retry")

		delay := c.backoff.NextBackOff()
		if delay == backoff.Stop {
			c.warnLog("backoff stopped retrying", "op", op, "attempts", attempt, "error", err)
			c.logError(op, err, "backoff_stopped")
			return err
		}

		c.debugLog("retrying", "op", op, "attempt", attempt, "max_attempts", c.config.Retries, "delay", delay, "error", err)
		c.logRetry(op, attempt, delay, err)
		if delay > 0 {
			time.Sleep(delay)
		}
	}
}

// ensureConnection creates the socket on first use and connects it unless
// it is already connected.
func (c *Connection) ensureConnection() error {
	if c.socket == nil {
		c.socket = c.newSocket(c.socketConfig())
	}
	if c.socket.Connected() {
		return nil
	}
	if err := c.socket.Connect(); err != nil {
		return err
	}
	c.setState(StateConnected, "")
	return nil
}

// destroyConnection disconnects and drops the socket. Disconnect errors are
// logged and suppressed. It is a no-op without a socket.
func (c *Connection) destroyConnection(reason string) {
	if c.socket == nil {
		return
	}
	if err := c.socket.Disconnect(); err != nil {
		c.debugLog("disconnect failed", "error", err)
	}
	c.socket = nil
	c.setState(StateDisconnected, reason)
}

// awaitErrorResponse waits up to SelectWait after a write. An error
// condition or an error frame tears the connection down and is returned as
// a permanent failure.
func (c *Connection) awaitErrorResponse(content []byte) error {
	ready := c.socket.Wait(c.config.SelectWait)

	switch {
	case ready.Errored:
		c.destroyConnection("unexpected select")
		c.warnLog("socket errored after write")
		c.logError("write", ErrUnexpectedSelect, "unexpected_select")
		return backoff.Permanent(ErrUnexpectedSelect)

	case ready.Readable:
		frame, readErr := c.socket.ReadNonBlocking(wire.ErrorResponseSize)
		c.destroyConnection("error response")

		resp, err := wire.NewErrorResponse(frame, content)
		if err != nil {
			short := fmt.Errorf("%w: got %d of %d bytes", ErrShortErrorFrame, len(frame), wire.ErrorResponseSize)
			if readErr != nil {
				short = fmt.Errorf("%w: %w", short, readErr)
			}
			c.warnLog("incomplete error frame", "bytes", len(frame), "error", readErr)
			c.logError("write", short, "short_error_frame")
			return backoff.Permanent(short)
		}

		c.warnLog("gateway rejected notification",
			"status", resp.Status.String(),
			"identifier", resp.Identifier)
		c.logErrorResponse(resp)
		return backoff.Permanent(resp)
	}

	return nil
}
