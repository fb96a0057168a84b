package wire

// Status represents the status code carried by a gateway error frame.
type Status uint8

const (
	// StatusNoErrors is sent by some gateways on clean shutdown.
	StatusNoErrors Status = 0

	// StatusProcessingError indicates the gateway failed to process the notification.
	StatusProcessingError Status = 1

	// StatusMissingDeviceToken indicates the notification had no device token.
	StatusMissingDeviceToken Status = 2

	// StatusMissingTopic indicates the notification had no topic.
	StatusMissingTopic Status = 3

	// StatusMissingPayload indicates the notification had no payload.
	StatusMissingPayload Status = 4

	// StatusInvalidTokenSize indicates the device token has the wrong length.
	StatusInvalidTokenSize Status = 5

	// StatusInvalidTopicSize indicates the topic has the wrong length.
	StatusInvalidTopicSize Status = 6

	// StatusInvalidPayloadSize indicates the payload exceeds the gateway limit.
	StatusInvalidPayloadSize Status = 7

	// StatusInvalidToken indicates the device token is not valid for this gateway.
	StatusInvalidToken Status = 8

	// StatusShutdown indicates the gateway is closing the connection for maintenance.
	// The rejected identifier is the last notification that was accepted.
	StatusShutdown Status = 10

	// StatusUnknown is the catch-all status.
	StatusUnknown Status = 255
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusNoErrors:
		return "NO_ERRORS"
	case StatusProcessingError:
		return "PROCESSING_ERROR"
	case StatusMissingDeviceToken:
		return "MISSING_DEVICE_TOKEN"
	case StatusMissingTopic:
		return "MISSING_TOPIC"
	case StatusMissingPayload:
		return "MISSING_PAYLOAD"
	case StatusInvalidTokenSize:
		return "INVALID_TOKEN_SIZE"
	case StatusInvalidTopicSize:
		return "INVALID_TOPIC_SIZE"
	case StatusInvalidPayloadSize:
		return "INVALID_PAYLOAD_SIZE"
	case StatusInvalidToken:
		return "INVALID_TOKEN"
	case StatusShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human-readable description of the status.
func (s Status) Description() string {
	switch s {
	case StatusNoErrors:
		return "No errors encountered"
	case StatusProcessingError:
		return "Processing error"
	case StatusMissingDeviceToken:
		return "Missing device token"
	case StatusMissingTopic:
		return "Missing topic"
	case StatusMissingPayload:
		return "Missing payload"
	case StatusInvalidTokenSize:
		return "Invalid token size"
	case StatusInvalidTopicSize:
		return "Invalid topic size"
	case StatusInvalidPayloadSize:
		return "Invalid payload size"
	case StatusInvalidToken:
		return "Invalid token"
	case StatusShutdown:
		return "Shutdown"
	default:
		return "None (unknown)"
	}
}

// Retryable reports whether content rejected with this status can be
// resent unchanged on a fresh connection.
func (s Status) Retryable() bool {
	switch s {
	case StatusProcessingError, StatusShutdown:
		return true
	default:
		return false
	}
}
