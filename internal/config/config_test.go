package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/carecal/pkg/core/model"
)

func validConfig() *Config {
	cfg := &Config{SnapshotPath: "snapshot.yaml"}
	cfg.ApplyDefaults()
	return cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "care_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidate_MinimalConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "09:00", cfg.LeaveDisplayStart)
	assert.Equal(t, "17:00", cfg.LeaveDisplayEnd)
	assert.Equal(t, 3, cfg.CalendarPageSize)
	assert.Equal(t, UnknownRecurrenceFallback, cfg.UnknownRecurrence)
	assert.Equal(t, 4, cfg.MaxConcurrentFetches)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.False(t, cfg.RejectUnknownRecurrence())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		contains string
	}{
		{"no store configured", func(c *Config) { c.SnapshotPath = "" }, "validation failed"},
		{"page size too large", func(c *Config) { c.CalendarPageSize = 8 }, "validation failed"},
		{"negative concurrency", func(c *Config) { c.MaxConcurrentFetches = -1 }, "validation failed"},
		{"unknown policy", func(c *Config) { c.UnknownRecurrence = "ignore" }, "validation failed"},
		{"bad leave start", func(c *Config) { c.LeaveDisplayStart = "9am" }, "invalid leaveDisplayStart"},
		{"leave end before start", func(c *Config) { c.LeaveDisplayEnd = "08:00" }, "must be after"},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "invalid timezone"},
		{"unknown rule kind", func(c *Config) {
			c.RecurrenceVisibilityRules = map[string]string{"fortnightly": "FREQ=WEEKLY;INTERVAL=2"}
		}, "validation failed"},
		{"invalid rrule", func(c *Config) {
			c.RecurrenceVisibilityRules = map[string]string{"weekly": "INVALID_RRULE"}
		}, "invalid rrule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestValidate_VisibilityRules(t *testing.T) {
	cfg := validConfig()
	cfg.RecurrenceVisibilityRules = map[string]string{
		"weekly":  "FREQ=WEEKLY;BYDAY=SU",
		"monthly": "FREQ=MONTHLY;BYDAY=1SU",
	}
	require.NoError(t, Validate(cfg))

	calc, err := cfg.Calculator()
	require.NoError(t, err)
	// 2025-06-11 is a Wednesday
	assert.Equal(t, "2025-06-15", calc.NextVisibleFrom(model.RecurrenceWeekly, model.MustParseDate("2025-06-11")).String())
}

func TestLeaveWindow(t *testing.T) {
	cfg := validConfig()
	cfg.LeaveDisplayStart = "08:30"
	cfg.LeaveDisplayEnd = "16:00"

	start, end, err := cfg.LeaveWindow()
	require.NoError(t, err)
	assert.Equal(t, model.MustParseTimeOfDay("08:30"), start)
	assert.Equal(t, model.MustParseTimeOfDay("16:00"), end)
}

func TestLoadFromPath_FullConfig(t *testing.T) {
	path := writeConfig(t, `
databaseURL: "postgres://localhost:5432/carecal"
leaveDisplayStart: "08:00"
leaveDisplayEnd: "18:00"
timezone: "Europe/London"
calendarPageSize: 7
unknownRecurrence: reject
maxConcurrentFetches: 2
calendarSheetID: "sheet123"
recurrenceVisibilityRules:
  weekly: "FREQ=WEEKLY;BYDAY=SU"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost:5432/carecal", cfg.DatabaseURL)
	assert.Empty(t, cfg.SnapshotPath)
	assert.Equal(t, "08:00", cfg.LeaveDisplayStart)
	assert.Equal(t, 7, cfg.CalendarPageSize)
	assert.True(t, cfg.RejectUnknownRecurrence())
	assert.Equal(t, 2, cfg.MaxConcurrentFetches)
	assert.Equal(t, "sheet123", cfg.CalendarSheetID)
	assert.Equal(t, "Europe/London", cfg.Location().String())
	require.Len(t, cfg.RecurrenceVisibilityRules, 1)
}

func TestLoadFromPath_MinimalConfigGetsDefaults(t *testing.T) {
	path := writeConfig(t, `snapshotPath: "fixtures/care.yaml"`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "fixtures/care.yaml", cfg.SnapshotPath)
	assert.Equal(t, DefaultCalendarPageSize, cfg.CalendarPageSize)
	assert.Equal(t, DefaultMaxConcurrentFetches, cfg.MaxConcurrentFetches)
	assert.Empty(t, cfg.RecurrenceVisibilityRules)
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	path := writeConfig(t, `
snapshotPath: "care.yaml"
recurrenceVisibilityRules:
  daily: "INVALID_RRULE_SYNTAX"
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_MissingStore(t *testing.T) {
	path := writeConfig(t, `calendarPageSize: 2`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, `
snapshotPath: "care.yaml"
  invalid indentation
calendarPageSize: 2
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/care_config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv_FindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "care_config.test.yaml"), []byte(`snapshotPath: "care.yaml"`), 0644))
	t.Chdir(dir)

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "care.yaml", cfg.SnapshotPath)

	t.Setenv("HOME", dir)
	_, err = LoadWithEnv("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "care_config.missing.yaml not found")
}
