package app

import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"github.com/specialistvlad/slidegridgo/internal/engine"
)

// DefaultOutputDir is where artifacts are written when no directory is given.
const DefaultOutputDir = "__generated__"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PlanPaths     []string // hcl files or directories
	DatamodelPath string   // json
	LayoutPath    string   // json
	ProcessID     string
	OutputDir     string
	ArtifactsURL  string // optional upload prefix, mirrors OutputDir
	Vars          map[string]string

	MaxIterations int
	FailurePolicy string

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	EventsURL       string
	DryRun          bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	var problems []error

	if len(cfg.PlanPaths) == 0 {
		problems = append(problems, errors.New("PlanPaths is a required configuration field and cannot be empty"))
	}
	if !cfg.DryRun {
		if cfg.DatamodelPath == "" {
			problems = append(problems, errors.New("DatamodelPath is required unless DryRun is set"))
		}
		if cfg.LayoutPath == "" {
			problems = append(problems, errors.New("LayoutPath is required unless DryRun is set"))
		}
	}
	if cfg.MaxIterations < 0 {
		problems = append(problems, fmt.Errorf("MaxIterations must not be negative, got %d", cfg.MaxIterations))
	}
	if _, err := engine.ParseFailurePolicy(cfg.FailurePolicy); err != nil {
		problems = append(problems, err)
	}
	if cfg.LogFormat != "" && !slices.Contains([]string{"text", "json"}, cfg.LogFormat) {
		problems = append(problems, fmt.Errorf("invalid log format '%s': must be 'text' or 'json'", cfg.LogFormat))
	}
	if cfg.LogLevel != "" && !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.LogLevel) {
		problems = append(problems, fmt.Errorf("invalid log level '%s'", cfg.LogLevel))
	}
	if cfg.ArtifactsURL != "" {
		if u, err := url.Parse(cfg.ArtifactsURL); err != nil || u.Scheme == "" || u.Host == "" {
			problems = append(problems, fmt.Errorf("invalid artifacts url '%s'", cfg.ArtifactsURL))
		}
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		problems = append(problems, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = engine.DefaultMaxIterations
	}
	return &cfg, nil
}
