package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for an automation session
type Config struct {
	// Session quota ceilings
	Limits LimitsConfig `yaml:"limits" json:"limits"`

	// Allowed time-of-day windows
	WorkingHours WorkingHoursConfig `yaml:"working_hours" json:"working_hours"`

	// List harvesting behaviour
	Harvest HarvestConfig `yaml:"harvest" json:"harvest"`

	// Per-item interaction policy
	Interaction InteractionConfig `yaml:"interaction" json:"interaction"`

	// Pacing between device actions
	Pacing PacingConfig `yaml:"pacing" json:"pacing"`

	// Storage paths
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// LimitsConfig holds per-session quota ceilings. A session ends once
// the aggregate limit check trips.
type LimitsConfig struct {
	TotalLikes        int `yaml:"total_likes" json:"total_likes"`
	TotalFollows      int `yaml:"total_follows" json:"total_follows"`
	TotalComments     int `yaml:"total_comments" json:"total_comments"`
	TotalWatches      int `yaml:"total_watches" json:"total_watches"`
	TotalSuccessful   int `yaml:"total_successful" json:"total_successful"`
	TotalInteractions int `yaml:"total_interactions" json:"total_interactions"`
	TotalScraped      int `yaml:"total_scraped" json:"total_scraped"`
}

// WorkingHoursConfig holds the allowed working windows. Ranges use the
// "HH.MM-HH.MM" form and may wrap midnight. An empty list means the
// session may run at any time.
type WorkingHoursConfig struct {
	Ranges       []string `yaml:"ranges" json:"ranges"`
	DeltaMinutes int      `yaml:"delta_minutes" json:"delta_minutes"`
}

// HarvestConfig tunes scroll-end detection
type HarvestConfig struct {
	RepeatsToEnd int `yaml:"repeats_to_end" json:"repeats_to_end"`
	SkipCeiling  int `yaml:"skip_ceiling" json:"skip_ceiling"`
}

// InteractionConfig tunes the per-item interaction policy
type InteractionConfig struct {
	ReinteractionCooldown time.Duration `yaml:"reinteraction_cooldown" json:"reinteraction_cooldown"`
	PostsToCheck          int           `yaml:"posts_to_check" json:"posts_to_check"`
	MaxPerList            int           `yaml:"max_per_list" json:"max_per_list"`
}

// PacingConfig bounds the rate of device actions
type PacingConfig struct {
	ActionsPerMinute int           `yaml:"actions_per_minute" json:"actions_per_minute"`
	MinDelay         time.Duration `yaml:"min_delay" json:"min_delay"`
	MaxDelay         time.Duration `yaml:"max_delay" json:"max_delay"`
}

// StorageConfig holds filesystem locations for the history database and
// session reports
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" json:"database_path"`
	ReportDir    string `yaml:"report_dir" json:"report_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with the documented defaults
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			TotalLikes:        300,
			TotalFollows:      50,
			TotalComments:     10,
			TotalWatches:      50,
			TotalSuccessful:   100,
			TotalInteractions: 1000,
			TotalScraped:      200,
		},
		WorkingHours: WorkingHoursConfig{
			Ranges:       nil,
			DeltaMinutes: 0,
		},
		Harvest: HarvestConfig{
			RepeatsToEnd: 2,
			SkipCeiling:  15,
		},
		Interaction: InteractionConfig{
			ReinteractionCooldown: 0,
			PostsToCheck:          3,
			MaxPerList:            10,
		},
		Pacing: PacingConfig{
			ActionsPerMinute: 40,
			MinDelay:         1 * time.Second,
			MaxDelay:         4 * time.Second,
		},
		Storage: StorageConfig{
			DatabasePath: "./igpilot.db",
			ReportDir:    "./reports",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration overrides from environment variables
func (c *Config) LoadFromEnv() error {
	intVar := func(name string, dst *int) {
		if raw := os.Getenv(name); raw != "" {
			if val, err := strconv.Atoi(raw); err == nil && val >= 0 {
				*dst = val
			}
		}
	}

	intVar("IGPILOT_TOTAL_LIKES_LIMIT", &c.Limits.TotalLikes)
	intVar("IGPILOT_TOTAL_FOLLOWS_LIMIT", &c.Limits.TotalFollows)
	intVar("IGPILOT_TOTAL_COMMENTS_LIMIT", &c.Limits.TotalComments)
	intVar("IGPILOT_TOTAL_WATCHES_LIMIT", &c.Limits.TotalWatches)
	intVar("IGPILOT_TOTAL_SUCCESSFUL_LIMIT", &c.Limits.TotalSuccessful)
	intVar("IGPILOT_TOTAL_INTERACTIONS_LIMIT", &c.Limits.TotalInteractions)
	intVar("IGPILOT_TOTAL_SCRAPED_LIMIT", &c.Limits.TotalScraped)
	intVar("IGPILOT_REPEATS_TO_END", &c.Harvest.RepeatsToEnd)
	intVar("IGPILOT_SKIP_CEILING", &c.Harvest.SkipCeiling)
	intVar("IGPILOT_WORKING_HOURS_DELTA", &c.WorkingHours.DeltaMinutes)
	intVar("IGPILOT_ACTIONS_PER_MINUTE", &c.Pacing.ActionsPerMinute)

	if raw := os.Getenv("IGPILOT_WORKING_HOURS"); raw != "" {
		c.WorkingHours.Ranges = strings.Split(raw, ",")
	}
	if raw := os.Getenv("IGPILOT_REINTERACTION_COOLDOWN"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			c.Interaction.ReinteractionCooldown = d
		}
	}
	if dbPath := os.Getenv("IGPILOT_DATABASE_PATH"); dbPath != "" {
		c.Storage.DatabasePath = dbPath
	}
	if reportDir := os.Getenv("IGPILOT_REPORT_DIR"); reportDir != "" {
		c.Storage.ReportDir = reportDir
	}
	if logLevel := os.Getenv("IGPILOT_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".igpilot.yaml",
		".igpilot.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "igpilot", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "igpilot", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".igpilot.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	limits := map[string]int{
		"total likes limit":        c.Limits.TotalLikes,
		"total follows limit":      c.Limits.TotalFollows,
		"total comments limit":     c.Limits.TotalComments,
		"total watches limit":      c.Limits.TotalWatches,
		"total successful limit":   c.Limits.TotalSuccessful,
		"total interactions limit": c.Limits.TotalInteractions,
		"total scraped limit":      c.Limits.TotalScraped,
	}
	for name, v := range limits {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative", name))
		}
	}

	for _, r := range c.WorkingHours.Ranges {
		if err := validateRange(r); err != nil {
			errs = append(errs, err)
		}
	}
	if c.WorkingHours.DeltaMinutes < 0 {
		errs = append(errs, errors.New("working hours delta cannot be negative"))
	}

	if c.Harvest.RepeatsToEnd < 1 {
		errs = append(errs, errors.New("repeats to end must be at least 1"))
	}
	if c.Harvest.SkipCeiling < 1 {
		errs = append(errs, errors.New("skip ceiling must be at least 1"))
	}

	if c.Interaction.ReinteractionCooldown < 0 {
		errs = append(errs, errors.New("reinteraction cooldown cannot be negative"))
	}
	if c.Interaction.PostsToCheck < 1 {
		errs = append(errs, errors.New("posts to check must be at least 1"))
	}
	if c.Interaction.MaxPerList < 1 {
		errs = append(errs, errors.New("max per list must be at least 1"))
	}

	if c.Pacing.ActionsPerMinute <= 0 {
		errs = append(errs, errors.New("actions per minute must be positive"))
	}
	if c.Pacing.MinDelay < 0 || c.Pacing.MaxDelay < c.Pacing.MinDelay {
		errs = append(errs, errors.New("pacing delays must satisfy 0 <= min <= max"))
	}

	if c.Storage.DatabasePath == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.Storage.ReportDir == "" {
		errs = append(errs, errors.New("report directory is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// validateRange checks the "HH.MM-HH.MM" syntax without resolving the
// range against a clock; pkg/workhours owns the semantics.
func validateRange(r string) error {
	parts := strings.Split(strings.TrimSpace(r), "-")
	if len(parts) != 2 {
		return fmt.Errorf("invalid working hours range %q: want HH.MM-HH.MM", r)
	}
	for _, part := range parts {
		hm := strings.Split(part, ".")
		if len(hm) != 2 {
			return fmt.Errorf("invalid working hours boundary %q in %q", part, r)
		}
		hour, err := strconv.Atoi(hm[0])
		if err != nil || hour < 0 || hour > 23 {
			return fmt.Errorf("invalid hour %q in range %q", hm[0], r)
		}
		minute, err := strconv.Atoi(hm[1])
		if err != nil || minute < 0 || minute > 59 {
			return fmt.Errorf("invalid minute %q in range %q", hm[1], r)
		}
	}
	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if likes, ok := flags["total-likes-limit"].(int); ok && likes >= 0 {
		c.Limits.TotalLikes = likes
	}
	if follows, ok := flags["total-follows-limit"].(int); ok && follows >= 0 {
		c.Limits.TotalFollows = follows
	}
	if hours, ok := flags["working-hours"].([]string); ok && len(hours) > 0 {
		c.WorkingHours.Ranges = hours
	}
	if cooldown, ok := flags["reinteraction-cooldown"].(time.Duration); ok && cooldown > 0 {
		c.Interaction.ReinteractionCooldown = cooldown
	}
	if dbPath, ok := flags["database"].(string); ok && dbPath != "" {
		c.Storage.DatabasePath = dbPath
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env
// file > config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igpilot.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
