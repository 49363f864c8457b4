package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buffer bytes.Buffer
	log := New(&buffer, zerolog.WarnLevel)

	log.Info().Msg("hidden")
	log.Warn().Str("sound", "bell.wav").Msg("play alert")

	output := buffer.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "play alert")
	assert.Contains(t, output, "bell.wav")
}
