package log

import "github.com/rs/zerolog"

// ZerologAdapter writes protocol events to a zerolog.Logger.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a ZerologAdapter writing to logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn for errors and rejections.
func (a *ZerologAdapter) Log(event Event) {
	e := a.logger.Debug()
	if isWarning(event) {
		e = a.logger.Warn()
	}
	for _, f := range eventFields(event) {
		e = e.Interface(f.key, f.value)
	}
	e.Time("event_time", event.Timestamp).Msg("protocol")
}

var _ Logger = (*ZerologAdapter)(nil)
