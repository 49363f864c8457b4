package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat indicates a sound file that is neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported sound format")

const resampleQuality = 4

// Output is the audio device.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(streamers ...beep.Streamer)
}

type speakerOutput struct{}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(streamers ...beep.Streamer) {
	speaker.Play(streamers...)
}

// SpeakerOutput returns the system speaker.
func SpeakerOutput() Output {
	return speakerOutput{}
}

// Player plays alert sounds without blocking the caller.
type Player struct {
	mu         sync.Mutex
	output     Output
	fallback   []byte
	sampleRate beep.SampleRate
}

// NewPlayer creates a player. fallback is WAV data used when no source is given.
func NewPlayer(output Output, fallback []byte) *Player {
	return &Player{output: output, fallback: fallback}
}

// PlayOnce decodes the source and queues it on the output. An empty source
// plays the fallback alert.
func (player *Player) PlayOnce(source string) error {
	name, reader, err := player.open(source)
	if err != nil {
		return err
	}

	streamer, format, err := decode(name, reader)
	if err != nil {
		_ = reader.Close()
		return err
	}

	player.mu.Lock()
	defer player.mu.Unlock()

	if player.sampleRate == 0 {
		if err := player.output.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		player.sampleRate = format.SampleRate
	}

	var playable beep.Streamer = streamer
	if format.SampleRate != player.sampleRate {
		playable = beep.Resample(resampleQuality, format.SampleRate, player.sampleRate, streamer)
	}

	player.output.Play(beep.Seq(playable, beep.Callback(func() {
		_ = streamer.Close()
	})))
	return nil
}

func (player *Player) open(source string) (string, io.ReadCloser, error) {
	if source == "" {
		if len(player.fallback) == 0 {
			return "", nil, fmt.Errorf("play alert: no source and no fallback")
		}
		return "fallback.wav", io.NopCloser(bytes.NewReader(player.fallback)), nil
	}

	file, err := os.Open(source)
	if err != nil {
		return "", nil, fmt.Errorf("open sound: %w", err)
	}
	return source, file, nil
}

func decode(name string, reader io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		streamer, format, err := wav.Decode(reader)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode wav %s: %w", name, err)
		}
		return streamer, format, nil
	case ".mp3":
		streamer, format, err := mp3.Decode(reader)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("decode mp3 %s: %w", name, err)
		}
		return streamer, format, nil
	default:
		return nil, beep.Format{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}
