package log

import "github.com/sirupsen/logrus"

// LogrusAdapter writes protocol events to a logrus logger or entry.
type LogrusAdapter struct {
	logger logrus.FieldLogger
}

// NewLogrusAdapter creates a LogrusAdapter writing to logger.
func NewLogrusAdapter(logger logrus.FieldLogger) *LogrusAdapter {
	return &LogrusAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn for errors and rejections.
func (a *LogrusAdapter) Log(event Event) {
	fields := make(logrus.Fields)
	for _, f := range eventFields(event) {
		fields[f.key] = f.value
	}
	entry := a.logger.WithFields(fields)
	if isWarning(event) {
		entry.Warn("protocol")
		return
	}
	entry.Debug("protocol")
}

var _ Logger = (*LogrusAdapter)(nil)
