package resources

import (
	"embed"
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	soundDir = "sounds/"

	// DefaultAlert is the bundled sound played when no alert is configured.
	DefaultAlert = "alert.wav"
)

//go:embed sounds/*.wav
var soundFS embed.FS

var soundCache sync.Map

// Sound returns a Fyne resource for the given bundled sound file.
func Sound(fileName string) (fyne.Resource, error) {
	path := soundDir + fileName
	if cached, ok := soundCache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := soundFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(fileName, data)
	soundCache.Store(path, resource)
	return resource, nil
}

// MustSound returns a bundled sound or panics on error.
func MustSound(fileName string) fyne.Resource {
	resource, err := Sound(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}
