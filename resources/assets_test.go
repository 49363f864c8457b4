package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAlertIsWav(t *testing.T) {
	resource, err := Sound(DefaultAlert)
	require.NoError(t, err)
	require.Greater(t, len(resource.Content()), 44)
	assert.Equal(t, "RIFF", string(resource.Content()[:4]))
	assert.Equal(t, "WAVE", string(resource.Content()[8:12]))

	again := MustSound(DefaultAlert)
	assert.Same(t, resource, again)
}

func TestUnknownSound(t *testing.T) {
	_, err := Sound("missing.wav")
	assert.Error(t, err)
	assert.Panics(t, func() { MustSound("missing.wav") })
}
