package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"pomodoro/internal/ui/preferences"
)

const (
	settingsFileName = "settings.yaml"
	historyFileName  = "history.db"
)

// SettingsLoadError reports a settings file that could not be read or parsed.
type SettingsLoadError struct {
	Path string
	Err  error
}

func (err *SettingsLoadError) Error() string {
	return fmt.Sprintf("load settings %s: %v", err.Path, err.Err)
}

func (err *SettingsLoadError) Unwrap() error {
	return err.Err
}

type yamlSettings struct {
	WorkMinutes       int    `yaml:"work_minutes"`
	ShortBreakMinutes int    `yaml:"short_break_minutes"`
	LongBreakMinutes  int    `yaml:"long_break_minutes"`
	Sound             string `yaml:"sound,omitempty"`
	Compact           bool   `yaml:"compact"`
}

// SettingsStore persists user preferences as YAML.
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store backed by the file at path.
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// DefaultSettingsPath returns the settings file location for the app.
func DefaultSettingsPath(appName string) (string, error) {
	return resolveConfigPath(appName, settingsFileName)
}

// DefaultHistoryPath returns the history database location for the app.
func DefaultHistoryPath(appName string) (string, error) {
	return resolveConfigPath(appName, historyFileName)
}

// Path returns the backing file path.
func (store *SettingsStore) Path() string {
	return store.path
}

// Load reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func (store *SettingsStore) Load() (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, &SettingsLoadError{Path: store.path, Err: fmt.Errorf("read settings file: %w", err)}
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, &SettingsLoadError{Path: store.path, Err: fmt.Errorf("parse settings yaml: %w", err)}
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user preferences to YAML.
func (store *SettingsStore) Save(settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(store.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkMinutes:       settings.WorkMinutes,
		ShortBreakMinutes: settings.ShortBreakMinutes,
		LongBreakMinutes:  settings.LongBreakMinutes,
		Sound:             settings.Sound,
		Compact:           settings.Compact,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(store.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsSource keeps the last good settings across failed reloads.
type SettingsSource struct {
	mu      sync.Mutex
	store   *SettingsStore
	current preferences.Settings
	logger  zerolog.Logger
}

// NewSettingsSource creates a source starting from the default settings.
func NewSettingsSource(store *SettingsStore, logger zerolog.Logger) *SettingsSource {
	return &SettingsSource{
		store:   store,
		current: preferences.DefaultSettings(),
		logger:  logger.With().Str("component", "settings").Logger(),
	}
}

// Current returns the last successfully loaded settings.
func (source *SettingsSource) Current() preferences.Settings {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.current
}

// Reload reads the settings file. On failure the previous settings are kept,
// a warning is logged and the error is returned alongside them.
func (source *SettingsSource) Reload() (preferences.Settings, error) {
	settings, err := source.store.Load()

	source.mu.Lock()
	defer source.mu.Unlock()
	if err != nil {
		source.logger.Warn().Err(err).Msg("keeping previous settings")
		return source.current, err
	}
	source.current = settings
	return settings, nil
}

// Save persists settings and makes them current. Settings with a
// non-positive duration are rejected and nothing is written.
func (source *SettingsSource) Save(settings preferences.Settings) error {
	if err := settings.DurationConfig().Validate(); err != nil {
		return err
	}
	if err := source.store.Save(settings); err != nil {
		return err
	}
	source.mu.Lock()
	source.current = settings
	source.mu.Unlock()
	return nil
}

func resolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes > 0 {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.ShortBreakMinutes = fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes > 0 {
		settings.LongBreakMinutes = fileData.LongBreakMinutes
	}

	settings.Sound = fileData.Sound
	settings.Compact = fileData.Compact
}
