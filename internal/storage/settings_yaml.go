// Package storage persists user settings as YAML in the OS config directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"resthawk/internal/core/model"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type yamlRange struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type yamlDayHours struct {
	Enabled bool        `yaml:"enabled"`
	Ranges  []yamlRange `yaml:"ranges"`
}

type yamlSettings struct {
	BreaksEnabled         bool   `yaml:"breaks_enabled"`
	BreakFrequencyMinutes int    `yaml:"break_frequency_minutes"`
	BreakLengthMinutes    int    `yaml:"break_length_minutes"`
	BreakTitle            string `yaml:"break_title"`
	BreakMessage          string `yaml:"break_message"`

	PostponeLengthMinutes int `yaml:"postpone_length_minutes"`
	PostponeLimit         int `yaml:"postpone_limit"`

	IdleResetEnabled      bool `yaml:"idle_reset_enabled"`
	IdleResetMinutes      int  `yaml:"idle_reset_minutes"`
	IdleResetNotification bool `yaml:"idle_reset_notification"`

	WorkingHoursEnabled bool                    `yaml:"working_hours_enabled"`
	WorkingHours        map[string]yamlDayHours `yaml:"working_hours"`

	NotificationType string `yaml:"notification_type"`
	SoundType        string `yaml:"sound_type"`
	Autostart        bool   `yaml:"autostart"`
}

// Store holds the current settings in memory and writes changes through to
// the YAML file. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	appName  string
	settings model.Settings
	logger   *zap.Logger
}

// NewStore loads settings from disk, falling back to defaults when the file
// does not exist yet.
func NewStore(appName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings, err := loadSettings(appName)
	if err != nil {
		return nil, err
	}

	return &Store{
		appName:  appName,
		settings: settings,
		logger:   logger,
	}, nil
}

// Get returns the current settings.
func (store *Store) Get() model.Settings {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.settings
}

// Set normalizes, applies and persists new settings.
func (store *Store) Set(settings model.Settings) error {
	settings.Normalize()

	store.mu.Lock()
	store.settings = settings
	store.mu.Unlock()

	if err := saveSettings(store.appName, settings); err != nil {
		return err
	}
	store.logger.Info("settings saved")
	return nil
}

func loadSettings(appName string) (model.Settings, error) {
	settings := model.Default()

	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	settings = fromYamlSettings(fileData)
	settings.Normalize()
	return settings, nil
}

func saveSettings(appName string, settings model.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(toYamlSettings(settings))
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func toYamlSettings(settings model.Settings) yamlSettings {
	fileData := yamlSettings{
		BreaksEnabled:         settings.BreaksEnabled,
		BreakFrequencyMinutes: int(settings.BreakFrequency / time.Minute),
		BreakLengthMinutes:    int(settings.BreakLength / time.Minute),
		BreakTitle:            settings.BreakTitle,
		BreakMessage:          settings.BreakMessage,

		PostponeLengthMinutes: int(settings.PostponeLength / time.Minute),
		PostponeLimit:         settings.PostponeLimit,

		IdleResetEnabled:      settings.IdleResetEnabled,
		IdleResetMinutes:      int(settings.IdleResetLength / time.Minute),
		IdleResetNotification: settings.IdleResetNotification,

		WorkingHoursEnabled: settings.WorkingHoursEnabled,
		WorkingHours:        map[string]yamlDayHours{},

		NotificationType: string(settings.NotificationType),
		SoundType:        string(settings.SoundType),
		Autostart:        settings.Autostart,
	}

	for name, weekday := range weekdayNames {
		day := settings.WorkingHours[weekday]
		yamlDay := yamlDayHours{Enabled: day.Enabled}
		for _, span := range day.Ranges {
			yamlDay.Ranges = append(yamlDay.Ranges, yamlRange{
				From: formatMinutes(span.FromMinutes),
				To:   formatMinutes(span.ToMinutes),
			})
		}
		fileData.WorkingHours[name] = yamlDay
	}

	return fileData
}

func fromYamlSettings(fileData yamlSettings) model.Settings {
	settings := model.Default()

	settings.BreaksEnabled = fileData.BreaksEnabled
	if fileData.BreakFrequencyMinutes > 0 {
		settings.BreakFrequency = time.Duration(fileData.BreakFrequencyMinutes) * time.Minute
	}
	if fileData.BreakLengthMinutes > 0 {
		settings.BreakLength = time.Duration(fileData.BreakLengthMinutes) * time.Minute
	}
	if fileData.BreakTitle != "" {
		settings.BreakTitle = fileData.BreakTitle
	}
	if fileData.BreakMessage != "" {
		settings.BreakMessage = fileData.BreakMessage
	}

	if fileData.PostponeLengthMinutes > 0 {
		settings.PostponeLength = time.Duration(fileData.PostponeLengthMinutes) * time.Minute
	}
	if fileData.PostponeLimit >= 0 {
		settings.PostponeLimit = fileData.PostponeLimit
	}

	settings.IdleResetEnabled = fileData.IdleResetEnabled
	if fileData.IdleResetMinutes > 0 {
		settings.IdleResetLength = time.Duration(fileData.IdleResetMinutes) * time.Minute
	}
	settings.IdleResetNotification = fileData.IdleResetNotification

	settings.WorkingHoursEnabled = fileData.WorkingHoursEnabled
	for name, yamlDay := range fileData.WorkingHours {
		weekday, ok := weekdayNames[strings.ToLower(name)]
		if !ok {
			continue
		}
		day := model.DayHours{Enabled: yamlDay.Enabled}
		for _, span := range yamlDay.Ranges {
			from, fromOK := parseMinutes(span.From)
			to, toOK := parseMinutes(span.To)
			if !fromOK || !toOK {
				continue
			}
			day.Ranges = append(day.Ranges, model.MinuteRange{FromMinutes: from, ToMinutes: to})
		}
		settings.WorkingHours[weekday] = day
	}

	settings.NotificationType = model.NotificationType(fileData.NotificationType)
	settings.SoundType = model.SoundType(fileData.SoundType)
	settings.Autostart = fileData.Autostart

	return settings
}

func formatMinutes(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

func parseMinutes(value string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	var hours, minutes int
	if _, err := fmt.Sscanf(parts[0]+" "+parts[1], "%d %d", &hours, &minutes); err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
