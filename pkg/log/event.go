package log

import (
	"time"

	"github.com/santthosh/grocer/pkg/wire"
)

// Event represents a protocol log event captured by a gateway connection.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the Connection (UUID) that produced the event.
	// It is stable across reconnects of the same Connection.
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates data flow for frame events.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Gateway is the gateway address (host:port).
	Gateway string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame         *FrameEvent         `cbor:"10,keyasint,omitempty"`
	StateChange   *StateChangeEvent   `cbor:"11,keyasint,omitempty"`
	ErrorResponse *ErrorResponseEvent `cbor:"12,keyasint,omitempty"`
	Retry         *RetryEvent         `cbor:"13,keyasint,omitempty"`
	Error         *ErrorEventData     `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data read from the gateway.
	DirectionIn Direction = 0
	// DirectionOut indicates data written to the gateway.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the encrypted socket (raw bytes, handshake).
	LayerTransport Layer = 0
	// LayerConnection is the retry and error-detection layer above the socket.
	LayerConnection Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerConnection:
		return "CONNECTION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates bytes written to or read from the gateway.
	CategoryFrame Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryErrorResponse indicates the gateway rejected written content.
	CategoryErrorResponse Category = 2
	// CategoryRetry indicates a failed attempt that will be retried.
	CategoryRetry Category = 3
	// CategoryError indicates an error returned to the caller.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryState:
		return "STATE"
	case CategoryErrorResponse:
		return "ERROR_RESPONSE"
	case CategoryRetry:
		return "RETRY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes at the transport layer.
type FrameEvent struct {
	// Size is the number of bytes transferred.
	Size int `cbor:"1,keyasint"`

	// Data is the raw bytes (may be truncated for large writes).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MaxFrameCapture is the number of bytes of a frame kept in a FrameEvent.
const MaxFrameCapture = 256

// NewFrameEvent captures data, truncating it to MaxFrameCapture bytes.
func NewFrameEvent(data []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(data)}
	if len(data) > MaxFrameCapture {
		fe.Data = append([]byte(nil), data[:MaxFrameCapture]...)
		fe.Truncated = true
	} else {
		fe.Data = append([]byte(nil), data...)
	}
	return fe
}

// StateChangeEvent captures socket lifecycle transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorResponseEvent captures a decoded gateway error frame.
type ErrorResponseEvent struct {
	// Status is the rejection status.
	Status wire.Status `cbor:"1,keyasint"`

	// Identifier is the identifier of the rejected notification.
	Identifier uint32 `cbor:"2,keyasint"`

	// Raw is the 6-byte frame.
	Raw []byte `cbor:"3,keyasint"`

	// ContentSize is the size of the rejected content.
	ContentSize int `cbor:"4,keyasint"`
}

// RetryEvent captures a failed attempt inside the retry envelope.
type RetryEvent struct {
	// Operation is the wrapped operation (connect, read, write).
	Operation string `cbor:"1,keyasint"`

	// Attempt is the 1-based attempt that failed.
	Attempt int `cbor:"2,keyasint"`

	// MaxAttempts is the configured retry budget.
	MaxAttempts int `cbor:"3,keyasint"`

	// Delay is the wait before the next attempt.
	Delay time.Duration `cbor:"4,keyasint,omitempty"`

	// Cause is the error message of the failed attempt.
	Cause string `cbor:"5,keyasint"`
}

// ErrorEventData captures errors returned to the caller.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Kind classifies the error (e.g. "certificate_expired", "retries_exhausted").
	Kind string `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
