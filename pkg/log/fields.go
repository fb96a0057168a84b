package log

import "encoding/hex"

// field is a key/value pair shared by the structured logger adapters.
type field struct {
	key   string
	value any
}

// eventFields flattens an event into ordered key/value pairs.
func eventFields(event Event) []field {
	fields := []field{
		{"conn_id", event.ConnectionID},
		{"direction", event.Direction.String()},
		{"layer", event.Layer.String()},
		{"category", event.Category.String()},
	}
	if event.Gateway != "" {
		fields = append(fields, field{"gateway", event.Gateway})
	}

	switch {
	case event.Frame != nil:
		fields = append(fields,
			field{"frame_size", event.Frame.Size},
			field{"truncated", event.Frame.Truncated},
		)
	case event.StateChange != nil:
		fields = append(fields,
			field{"old_state", event.StateChange.OldState},
			field{"new_state", event.StateChange.NewState},
		)
		if event.StateChange.Reason != "" {
			fields = append(fields, field{"reason", event.StateChange.Reason})
		}
	case event.ErrorResponse != nil:
		fields = append(fields,
			field{"status", event.ErrorResponse.Status.String()},
			field{"identifier", event.ErrorResponse.Identifier},
			field{"raw", hex.EncodeToString(event.ErrorResponse.Raw)},
			field{"content_size", event.ErrorResponse.ContentSize},
		)
	case event.Retry != nil:
		fields = append(fields,
			field{"operation", event.Retry.Operation},
			field{"attempt", event.Retry.Attempt},
			field{"max_attempts", event.Retry.MaxAttempts},
			field{"delay", event.Retry.Delay},
			field{"cause", event.Retry.Cause},
		)
	case event.Error != nil:
		fields = append(fields,
			field{"error_layer", event.Error.Layer.String()},
			field{"error_msg", event.Error.Message},
		)
		if event.Error.Kind != "" {
			fields = append(fields, field{"error_kind", event.Error.Kind})
		}
		if event.Error.Context != "" {
			fields = append(fields, field{"error_context", event.Error.Context})
		}
	}
	return fields
}

// isWarning reports whether an event should be logged above debug level.
func isWarning(event Event) bool {
	return event.Category == CategoryError || event.Category == CategoryErrorResponse
}
