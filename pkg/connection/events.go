package connection

import (
	"time"

	"github.com/santthosh/grocer/pkg/log"
	"github.com/santthosh/grocer/pkg/wire"
)

// setState records a state transition and emits it as a protocol event.
func (c *Connection) setState(state State, reason string) {
	old := c.state
	c.state = state
	if old == state {
		return
	}
	c.debugLog("state changed", "from", old.String(), "to", state.String(), "reason", reason)
	c.logEvent(log.Event{
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: old.String(),
			NewState: state.String(),
			Reason:   reason,
		},
	})
}

func (c *Connection) logErrorResponse(resp *wire.ErrorResponse) {
	c.logEvent(log.Event{
		Direction: log.DirectionIn,
		Category:  log.CategoryErrorResponse,
		ErrorResponse: &log.ErrorResponseEvent{
			Status:      resp.Status,
			Identifier:  resp.Identifier,
			Raw:         resp.Raw[:],
			ContentSize: len(resp.Content),
		},
	})
}

func (c *Connection) logRetry(op string, attempt int, delay time.Duration, cause error) {
	c.logEvent(log.Event{
		Category: log.CategoryRetry,
		Retry: &log.RetryEvent{
			Operation:   op,
			Attempt:     attempt,
			MaxAttempts: c.config.Retries,
			Delay:       delay,
			Cause:       cause.Error(),
		},
	})
}

func (c *Connection) logError(op string, err error, kind string) {
	c.logEvent(log.Event{
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerConnection,
			Message: err.Error(),
			Kind:    kind,
			Context: op,
		},
	})
}

// logEvent fills in the common fields and sends the event to the protocol
// logger, if any.
func (c *Connection) logEvent(event log.Event) {
	if c.protocolLogger == nil {
		return
	}
	event.Timestamp = time.Now()
	event.ConnectionID = c.id
	event.Layer = log.LayerConnection
	event.Gateway = c.Address()
	c.protocolLogger.Log(event)
}
