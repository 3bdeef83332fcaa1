// Package config loads layered JSONC configuration for handled.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
	_ "time/tzdata" // timezone names must resolve on hosts without zoneinfo

	"github.com/calvinalkan/handled/internal/agenda"
	"github.com/calvinalkan/handled/internal/capture"
	"github.com/calvinalkan/handled/internal/nudge"

	"github.com/tailscale/hujson"
)

// Error variables for configuration.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrInvalidTimezone    = errors.New("invalid timezone")
	ErrInvalidLogLevel    = errors.New("invalid log_level (must be debug|info|warn|error)")
	ErrNegativeValue      = errors.New("value must not be negative")
)

// ConfigFileName is the default project config file name.
const ConfigFileName = ".handled.json"

// Log levels.
var logLevels = []string{"debug", "info", "warn", "error"}

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Timezone       string                 `json:"timezone,omitempty"`
	CaptureLimit   Duration               `json:"capture_limit,omitempty"`
	UpcomingDays   int                    `json:"upcoming_days,omitempty"`
	ReminderWindow Duration               `json:"reminder_window,omitempty"`
	Seed           uint64                 `json:"seed,omitempty"`
	LogFile        string                 `json:"log_file,omitempty"`
	LogLevel       string                 `json:"log_level,omitempty"`
	HistoryFile    string                 `json:"history_file,omitempty"`
	Nudges         map[string]NudgePolicy `json:"nudges,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd string         `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	Location     *time.Location `json:"-"` // Loaded Timezone
	Sources      ConfigSources  `json:"-"`
}

// NudgePolicy overrides part of a nudge policy. Zero fields keep the default.
type NudgePolicy struct {
	Cooldown      Duration `json:"cooldown,omitempty"`
	Suppression   Duration `json:"suppression,omitempty"`
	MaxDismissals int      `json:"max_dismissals,omitempty"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Timezone:       "Local",
		CaptureLimit:   Duration(capture.DefaultLimit),
		UpcomingDays:   agenda.DefaultUpcomingDays,
		ReminderWindow: Duration(agenda.DefaultReminderWindow),
		LogLevel:       "info",
	}
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride  string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath       string            // -c/--config flag value
	TimezoneOverride string            // --tz flag value; empty means no override
	SeedOverride     uint64            // --seed flag value; 0 means no override
	Env              map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/handled/config.json or $XDG_CONFIG_HOME/handled/config.json)
// 3. Project config file at default location (.handled.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.TimezoneOverride != "" {
		cfg.Timezone = input.TimezoneOverride
	}

	if input.SeedOverride != 0 {
		cfg.Seed = input.SeedOverride
	}

	cfg.EffectiveCwd = workDir

	loc, err := loadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, err
	}

	cfg.Location = loc

	if cfg.LogFile != "" && !filepath.IsAbs(cfg.LogFile) {
		cfg.LogFile = filepath.Join(workDir, cfg.LogFile)
	}

	if cfg.HistoryFile != "" && !filepath.IsAbs(cfg.HistoryFile) {
		cfg.HistoryFile = filepath.Join(workDir, cfg.HistoryFile)
	}

	err = validateConfig(cfg)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// NudgePolicies returns the default nudge policies with configured overrides
// applied.
func (c Config) NudgePolicies() map[nudge.Type]nudge.Policy {
	policies := nudge.DefaultPolicies()

	for name, override := range c.Nudges {
		typ, err := nudge.ParseType(name)
		if err != nil {
			continue
		}

		p := policies[typ]

		if override.Cooldown > 0 {
			p.Cooldown = time.Duration(override.Cooldown)
		}

		if override.Suppression > 0 {
			p.Suppression = time.Duration(override.Suppression)
		}

		if override.MaxDismissals > 0 {
			p.MaxDismissals = override.MaxDismissals
		}

		policies[typ] = p
	}

	return policies
}

// getGlobalConfigPath returns the path to the global config file.
// Returns empty string if home directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "handled", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "handled", "config.json")
	}

	return ""
}

// loadGlobalConfig loads the global user config file if it exists.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.handled.json) or an explicit config file.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		// Check existence first to provide a clear "not found" error
		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files return zero config.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Zero means "not set" when merging, so negatives are the only values a
	// single file can get wrong on its own.
	for field, negative := range map[string]bool{
		"capture_limit":   cfg.CaptureLimit < 0,
		"upcoming_days":   cfg.UpcomingDays < 0,
		"reminder_window": cfg.ReminderWindow < 0,
	} {
		if negative {
			return Config{}, fmt.Errorf("%w: %s", ErrNegativeValue, field)
		}
	}

	for name, p := range cfg.Nudges {
		_, err := nudge.ParseType(name)
		if err != nil {
			return Config{}, fmt.Errorf("nudges: %w", err)
		}

		if p.Cooldown < 0 || p.Suppression < 0 || p.MaxDismissals < 0 {
			return Config{}, fmt.Errorf("%w: nudges.%s", ErrNegativeValue, name)
		}
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Timezone != "" {
		base.Timezone = overlay.Timezone
	}

	if overlay.CaptureLimit != 0 {
		base.CaptureLimit = overlay.CaptureLimit
	}

	if overlay.UpcomingDays != 0 {
		base.UpcomingDays = overlay.UpcomingDays
	}

	if overlay.ReminderWindow != 0 {
		base.ReminderWindow = overlay.ReminderWindow
	}

	if overlay.Seed != 0 {
		base.Seed = overlay.Seed
	}

	if overlay.LogFile != "" {
		base.LogFile = overlay.LogFile
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}

	for name, p := range overlay.Nudges {
		if base.Nudges == nil {
			base.Nudges = make(map[string]NudgePolicy)
		}

		merged := base.Nudges[name]

		if p.Cooldown != 0 {
			merged.Cooldown = p.Cooldown
		}

		if p.Suppression != 0 {
			merged.Suppression = p.Suppression
		}

		if p.MaxDismissals != 0 {
			merged.MaxDismissals = p.MaxDismissals
		}

		base.Nudges[name] = merged
	}

	return base
}

func validateConfig(cfg Config) error {
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, cfg.LogLevel)
	}

	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}

	return loc, nil
}

// Format returns the effective configuration as key=value lines.
func Format(cfg Config) []string {
	lines := []string{
		"effective_cwd=" + cfg.EffectiveCwd,
		"timezone=" + cfg.Timezone,
		"capture_limit=" + cfg.CaptureLimit.String(),
		fmt.Sprintf("upcoming_days=%d", cfg.UpcomingDays),
		"reminder_window=" + cfg.ReminderWindow.String(),
		"log_level=" + cfg.LogLevel,
	}

	if cfg.Seed != 0 {
		lines = append(lines, fmt.Sprintf("seed=%d", cfg.Seed))
	}

	if cfg.LogFile != "" {
		lines = append(lines, "log_file="+cfg.LogFile)
	}

	if cfg.HistoryFile != "" {
		lines = append(lines, "history_file="+cfg.HistoryFile)
	}

	policies := cfg.NudgePolicies()
	for _, typ := range nudge.Types {
		p := policies[typ]
		lines = append(lines, fmt.Sprintf("nudge.%s=cooldown:%s suppression:%s max_dismissals:%d",
			typ, p.Cooldown, p.Suppression, p.MaxDismissals))
	}

	return lines
}
