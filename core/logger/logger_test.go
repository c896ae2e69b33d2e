package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promomark/website/core/logger"
)

func TestNew_JSONWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithProduction("website"),
		logger.WithOutput(&buf),
	)

	log.Info("contact submitted", logger.Component("contact"), logger.Error(nil))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "contact submitted", record["msg"])
	assert.Equal(t, "website", record["service"])
	assert.Equal(t, "production", record["env"])
	assert.Equal(t, "contact", record["component"])
	assert.NotContains(t, record, "error")
}

func TestNew_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithFormat(logger.FormatText),
		logger.WithLevel(slog.LevelWarn),
		logger.WithOutput(&buf),
	)

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown", logger.Error(errors.New("boom")))
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "boom")
}

func TestNew_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("website"), logger.WithOutput(&buf))
	log.Debug("debug visible")
	assert.Contains(t, buf.String(), "debug visible")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestAttrHelpers_ZeroValues(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.ClientIP("").Equal(slog.Attr{}))
	assert.True(t, logger.Template("").Equal(slog.Attr{}))
	assert.Equal(t, "emails/contact_form", logger.Template("emails/contact_form").Value.String())
}
