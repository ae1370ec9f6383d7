package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseLevel("INFO")
	assert.Error(t, err)
	_, err = ParseLevel("trace")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "info", LogFormatJSONValue)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Str("RequestID", "r-1").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, "shown", gjson.Get(out, "message").String())
	assert.Equal(t, "r-1", gjson.Get(out, "RequestID").String())
	assert.True(t, gjson.Get(out, "time").Exists())
}

func TestNew_DebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", LogFormatJSONValue)
	require.NoError(t, err)

	l.Debug().Msg("x")
	assert.True(t, gjson.Get(buf.String(), "caller").Exists())
	assert.True(t, gjson.Get(buf.String(), "pid").Exists())
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", LogFormatTextValue)
	require.NoError(t, err)

	l.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.NotContains(t, buf.String(), "\x1b[", "no colors off a terminal")
	assert.False(t, gjson.Valid(buf.String()))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", LogFormatJSONValue)
	assert.Error(t, err)
	_, err = New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestSetLogOutput_InstallsContextDefault(t *testing.T) {
	prevLogger, prevDefault := log.Logger, zerolog.DefaultContextLogger
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.DefaultContextLogger = prevDefault
	})

	var buf bytes.Buffer
	require.NoError(t, SetLogOutput(&buf, "info", LogFormatJSONValue))

	log.Ctx(context.Background()).Info().Msg("via context")
	assert.Equal(t, "via context", gjson.Get(buf.String(), "message").String())
}
