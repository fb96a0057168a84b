package connection

// State represents the connection state.
type State uint8

const (
	// StateDisconnected indicates no established socket.
	StateDisconnected State = iota

	// StateConnected indicates an established socket.
	StateConnected

	// StateClosed indicates Close was called. The next operation
	// reconnects lazily.
	StateClosed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnected:
		return "CONNECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
