package logger

import (
	"github.com/rs/zerolog"
)

// LogProgressChange logs a completion toggle on a resource to l, or to the
// global logger when l is nil
func LogProgressChange(l Logger, action, id, category string, changed bool) {
	if l == nil {
		l = GetLogger()
	}
	fields := map[string]interface{}{
		"action":   action,
		"id":       id,
		"category": category,
		"changed":  changed,
	}

	if changed {
		l.InfoWithFields("Progress updated", fields)
	} else {
		l.DebugWithFields("Progress unchanged", fields)
	}
}

// LogAnalyticsEvent logs the outcome of a wallpaper analytics write to l,
// or to the global logger when l is nil
func LogAnalyticsEvent(l Logger, kind, wallpaperID string, err error) {
	if l == nil {
		l = GetLogger()
	}
	log := l.WithFields(map[string]interface{}{
		"tipo":    kind,
		"fondoId": wallpaperID,
	})

	if err != nil {
		log.WithError(err).Error("Error guardando evento")
		return
	}
	log.Info("Evento guardado")
}

// LogComponentStart logs when a component starts
func LogComponentStart(component string, config map[string]interface{}) {
	logger := GetLogger().WithField("component", component)

	if len(config) > 0 {
		logger = logger.WithFields(config)
	}

	logger.Debug("Component started")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
