package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Limits.TotalLikes != 300 {
		t.Errorf("Expected default likes limit to be 300, got %d", config.Limits.TotalLikes)
	}
	if config.Limits.TotalFollows != 50 {
		t.Errorf("Expected default follows limit to be 50, got %d", config.Limits.TotalFollows)
	}
	if config.Limits.TotalInteractions != 1000 {
		t.Errorf("Expected default interactions limit to be 1000, got %d", config.Limits.TotalInteractions)
	}
	if config.Harvest.RepeatsToEnd != 2 {
		t.Errorf("Expected default repeats to end to be 2, got %d", config.Harvest.RepeatsToEnd)
	}
	if config.Harvest.SkipCeiling != 15 {
		t.Errorf("Expected default skip ceiling to be 15, got %d", config.Harvest.SkipCeiling)
	}
	if len(config.WorkingHours.Ranges) != 0 {
		t.Errorf("Expected no default working hours restriction, got %v", config.WorkingHours.Ranges)
	}
	if config.Interaction.ReinteractionCooldown != 0 {
		t.Errorf("Expected default cooldown to be 0, got %v", config.Interaction.ReinteractionCooldown)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("IGPILOT_TOTAL_LIKES_LIMIT", "100")
	os.Setenv("IGPILOT_WORKING_HOURS", "09.00-12.00,14.00-18.00")
	os.Setenv("IGPILOT_REINTERACTION_COOLDOWN", "72h")
	os.Setenv("IGPILOT_DATABASE_PATH", "/tmp/test-igpilot.db")
	os.Setenv("IGPILOT_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("IGPILOT_TOTAL_LIKES_LIMIT")
		os.Unsetenv("IGPILOT_WORKING_HOURS")
		os.Unsetenv("IGPILOT_REINTERACTION_COOLDOWN")
		os.Unsetenv("IGPILOT_DATABASE_PATH")
		os.Unsetenv("IGPILOT_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Limits.TotalLikes != 100 {
		t.Errorf("Expected likes limit to be 100, got %d", config.Limits.TotalLikes)
	}
	if len(config.WorkingHours.Ranges) != 2 || config.WorkingHours.Ranges[0] != "09.00-12.00" {
		t.Errorf("Expected two working hours ranges, got %v", config.WorkingHours.Ranges)
	}
	if config.Interaction.ReinteractionCooldown != 72*time.Hour {
		t.Errorf("Expected cooldown to be 72h, got %v", config.Interaction.ReinteractionCooldown)
	}
	if config.Storage.DatabasePath != "/tmp/test-igpilot.db" {
		t.Errorf("Expected database path override, got %s", config.Storage.DatabasePath)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	os.Setenv("IGPILOT_TOTAL_LIKES_LIMIT", "not-a-number")
	os.Setenv("IGPILOT_REINTERACTION_COOLDOWN", "-5h")
	defer func() {
		os.Unsetenv("IGPILOT_TOTAL_LIKES_LIMIT")
		os.Unsetenv("IGPILOT_REINTERACTION_COOLDOWN")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Limits.TotalLikes != 300 {
		t.Errorf("Invalid env value should keep the default, got %d", config.Limits.TotalLikes)
	}
	if config.Interaction.ReinteractionCooldown != 0 {
		t.Errorf("Negative cooldown should keep the default, got %v", config.Interaction.ReinteractionCooldown)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
limits:
  total_likes: 42
  total_follows: 7
working_hours:
  ranges:
    - "22.00-06.00"
  delta_minutes: 15
interaction:
  posts_to_check: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Limits.TotalLikes != 42 {
		t.Errorf("Expected likes limit 42 from file, got %d", config.Limits.TotalLikes)
	}
	if config.Limits.TotalFollows != 7 {
		t.Errorf("Expected follows limit 7 from file, got %d", config.Limits.TotalFollows)
	}
	if config.Limits.TotalInteractions != 1000 {
		t.Errorf("Unset file fields should keep defaults, got %d", config.Limits.TotalInteractions)
	}
	if len(config.WorkingHours.Ranges) != 1 || config.WorkingHours.Ranges[0] != "22.00-06.00" {
		t.Errorf("Expected wrap-around range from file, got %v", config.WorkingHours.Ranges)
	}
	if config.WorkingHours.DeltaMinutes != 15 {
		t.Errorf("Expected delta minutes 15, got %d", config.WorkingHours.DeltaMinutes)
	}
	if config.Interaction.PostsToCheck != 5 {
		t.Errorf("Expected posts to check 5, got %d", config.Interaction.PostsToCheck)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")

	original := DefaultConfig()
	original.Limits.TotalLikes = 123
	original.WorkingHours.Ranges = []string{"08.30-20.00"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	reloaded := DefaultConfig()
	if err := reloaded.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}

	if reloaded.Limits.TotalLikes != 123 {
		t.Errorf("Expected likes limit 123 after reload, got %d", reloaded.Limits.TotalLikes)
	}
	if len(reloaded.WorkingHours.Ranges) != 1 || reloaded.WorkingHours.Ranges[0] != "08.30-20.00" {
		t.Errorf("Expected working hours to survive reload, got %v", reloaded.WorkingHours.Ranges)
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()
	config.MergeCommandLineFlags(map[string]interface{}{
		"total-likes-limit": 20,
		"working-hours":     []string{"10.00-18.00"},
		"database":          "/tmp/flags.db",
		"log-level":         "warn",
	})

	if config.Limits.TotalLikes != 20 {
		t.Errorf("Expected likes limit 20 from flag, got %d", config.Limits.TotalLikes)
	}
	if len(config.WorkingHours.Ranges) != 1 || config.WorkingHours.Ranges[0] != "10.00-18.00" {
		t.Errorf("Expected working hours from flag, got %v", config.WorkingHours.Ranges)
	}
	if config.Storage.DatabasePath != "/tmp/flags.db" {
		t.Errorf("Expected database path from flag, got %s", config.Storage.DatabasePath)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("Expected log level from flag, got %s", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero limits allowed", func(c *Config) { c.Limits.TotalLikes = 0 }, false},
		{"negative limit", func(c *Config) { c.Limits.TotalFollows = -1 }, true},
		{"bad range syntax", func(c *Config) { c.WorkingHours.Ranges = []string{"9-17"} }, true},
		{"bad hour", func(c *Config) { c.WorkingHours.Ranges = []string{"25.00-26.00"} }, true},
		{"bad minute", func(c *Config) { c.WorkingHours.Ranges = []string{"09.60-17.00"} }, true},
		{"wrap range ok", func(c *Config) { c.WorkingHours.Ranges = []string{"22.00-06.00"} }, false},
		{"negative delta", func(c *Config) { c.WorkingHours.DeltaMinutes = -5 }, true},
		{"zero repeats", func(c *Config) { c.Harvest.RepeatsToEnd = 0 }, true},
		{"zero skip ceiling", func(c *Config) { c.Harvest.SkipCeiling = 0 }, true},
		{"negative cooldown", func(c *Config) { c.Interaction.ReinteractionCooldown = -time.Hour }, true},
		{"zero posts to check", func(c *Config) { c.Interaction.PostsToCheck = 0 }, true},
		{"max delay below min", func(c *Config) {
			c.Pacing.MinDelay = 2 * time.Second
			c.Pacing.MaxDelay = time.Second
		}, true},
		{"empty database path", func(c *Config) { c.Storage.DatabasePath = "" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
		})
	}
}
