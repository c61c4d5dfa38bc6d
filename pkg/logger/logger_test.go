package logger

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excesoluz/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "console output with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "file output",
			cfg:     &config.LoggingConfig{Level: "warn", File: filepath.Join(t.TempDir(), "logs", "excesoluz.log")},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestNewWithWriterFields(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	log, err := NewWithWriter("debug", &buf)
	require.NoError(t, err)

	log.WithField("id", "libro-1").
		WithFields(map[string]interface{}{"categoria": "libros", "total": 3}).
		Debug("marked")

	output := buf.String()
	assert.Contains(t, output, "marked")
	assert.Contains(t, output, `"id":"libro-1"`)
	assert.Contains(t, output, `"categoria":"libros"`)
	assert.Contains(t, output, `"total":3`)
	assert.Contains(t, output, `"app":"excesoluz"`)
}

func TestNewWithWriterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("error", &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.WithError(errors.New("disk full")).Error("visible")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "visible")
	assert.Contains(t, output, "disk full")
}

func TestWithErrorNil(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", &buf)
	require.NoError(t, err)

	assert.Same(t, log, log.WithError(nil))
}

func TestTestLoggerCapturesDerivedFields(t *testing.T) {
	tl := NewTestLogger()

	tl.WithField("id", "app-3").WithError(errors.New("boom")).WarnWithFields("unmark failed", map[string]interface{}{
		"categoria": "aplicaciones",
	})
	tl.Info("plain")

	msgs := tl.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "WARN", msgs[0].Level)
	assert.Equal(t, "app-3", msgs[0].Fields["id"])
	assert.Equal(t, "aplicaciones", msgs[0].Fields["categoria"])
	assert.EqualError(t, msgs[0].Error, "boom")
	assert.Nil(t, msgs[1].Fields)

	assert.True(t, tl.HasMessage("plain"))
	assert.False(t, tl.HasError())

	tl.Clear()
	assert.Empty(t, tl.GetMessages())
}

func TestHelpersUseGivenLogger(t *testing.T) {
	tl := NewTestLogger()

	LogProgressChange(tl, "mark", "libro-1", "libros", true)
	LogProgressChange(tl, "mark", "libro-1", "libros", false)
	LogAnalyticsEvent(tl, "download", "fondo-7", errors.New("offline"))
	LogAnalyticsEvent(tl, "view", "fondo-7", nil)

	assert.True(t, tl.HasMessage("Progress updated"))
	assert.True(t, tl.HasMessage("Progress unchanged"))
	assert.True(t, tl.HasMessage("Evento guardado"))

	errs := tl.GetMessagesByLevel("ERROR")
	require.Len(t, errs, 1)
	assert.Equal(t, "Error guardando evento", errs[0].Message)
	assert.Equal(t, "fondo-7", errs[0].Fields["fondoId"])
	assert.True(t, strings.Contains(errs[0].Error.Error(), "offline"))
}

func TestHelpersFallBackToGlobalLogger(t *testing.T) {
	tl := NewTestLogger()
	previous := GetLogger()
	SetLogger(tl)
	defer SetLogger(previous)

	LogProgressChange(nil, "unmark", "app-3", "aplicaciones", true)
	LogAnalyticsEvent(nil, "view", "fondo-1", errors.New("offline"))

	assert.True(t, tl.HasMessage("Progress updated"))
	assert.True(t, tl.HasMessage("Error guardando evento"))
}
