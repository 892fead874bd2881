package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/core/recurrence"
)

// Policies for recurring instances whose recurrence kind is not recognised
const (
	UnknownRecurrenceFallback = "fallback" // treat as daily
	UnknownRecurrenceReject   = "reject"   // fail the completion
)

const (
	DefaultLeaveDisplayStart    = "09:00"
	DefaultLeaveDisplayEnd      = "17:00"
	DefaultCalendarPageSize     = 3
	DefaultMaxConcurrentFetches = 4
	DefaultTimezone             = "UTC"
)

// Config represents the application configuration
type Config struct {
	DatabaseURL  string `yaml:"databaseURL,omitempty" validate:"required_without=SnapshotPath"`
	SnapshotPath string `yaml:"snapshotPath,omitempty" validate:"required_without=DatabaseURL"`

	LeaveDisplayStart string `yaml:"leaveDisplayStart,omitempty"`
	LeaveDisplayEnd   string `yaml:"leaveDisplayEnd,omitempty"`
	Timezone          string `yaml:"timezone,omitempty"`

	CalendarPageSize     int    `yaml:"calendarPageSize,omitempty" validate:"min=1,max=7"`
	UnknownRecurrence    string `yaml:"unknownRecurrence,omitempty" validate:"oneof=fallback reject"`
	MaxConcurrentFetches int    `yaml:"maxConcurrentFetches,omitempty" validate:"min=1,max=64"`

	CalendarSheetID string `yaml:"calendarSheetID,omitempty"`

	// RecurrenceVisibilityRules overrides the visible-from RRULE per recurrence kind
	RecurrenceVisibilityRules map[string]string `yaml:"recurrenceVisibilityRules,omitempty" validate:"dive,keys,oneof=daily weekly monthly,endkeys,required"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	if err := validate.RegisterValidation("loopback", hasLoopbackRedirect); err != nil {
		panic(err)
	}
}

// Load loads and validates the configuration from care_config.yaml
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" will look for "care_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads, defaults and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills every unset optional field
func (c *Config) ApplyDefaults() {
	if c.LeaveDisplayStart == "" {
		c.LeaveDisplayStart = DefaultLeaveDisplayStart
	}
	if c.LeaveDisplayEnd == "" {
		c.LeaveDisplayEnd = DefaultLeaveDisplayEnd
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.CalendarPageSize == 0 {
		c.CalendarPageSize = DefaultCalendarPageSize
	}
	if c.UnknownRecurrence == "" {
		c.UnknownRecurrence = UnknownRecurrenceFallback
	}
	if c.MaxConcurrentFetches == 0 {
		c.MaxConcurrentFetches = DefaultMaxConcurrentFetches
	}
}

// Validate validates the configuration struct, the leave display window,
// the timezone and the syntax of every visibility rule
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, _, err := cfg.LeaveWindow(); err != nil {
		return err
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if _, err := recurrence.NewCalculator(cfg.RecurrenceVisibilityRules); err != nil {
		return fmt.Errorf("invalid rrule in recurrenceVisibilityRules: %w", err)
	}

	return nil
}

// LeaveWindow parses the display times used for leave-derived calendar entries
func (c *Config) LeaveWindow() (model.TimeOfDay, model.TimeOfDay, error) {
	start, err := model.ParseTimeOfDay(c.LeaveDisplayStart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid leaveDisplayStart: %w", err)
	}
	end, err := model.ParseTimeOfDay(c.LeaveDisplayEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid leaveDisplayEnd: %w", err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("leaveDisplayEnd %s must be after leaveDisplayStart %s", c.LeaveDisplayEnd, c.LeaveDisplayStart)
	}
	return start, end, nil
}

// Location returns the configured timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Calculator builds the recurrence calculator for the configured visibility rules
func (c *Config) Calculator() (*recurrence.Calculator, error) {
	return recurrence.NewCalculator(c.RecurrenceVisibilityRules)
}

// RejectUnknownRecurrence reports whether unknown recurrence kinds fail instead of falling back to daily
func (c *Config) RejectUnknownRecurrence() bool {
	return c.UnknownRecurrence == UnknownRecurrenceReject
}

// findConfigFile searches for care_config.yaml, or care_config.<env>.yaml when env is set
func findConfigFile(env string) (string, error) {
	configFileName := "care_config.yaml"
	if env != "" {
		configFileName = "care_config." + env + ".yaml"
	}
	return findFile(configFileName)
}

// findFile looks for name in the current directory first, then in the user's home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
