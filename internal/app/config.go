package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/casegrid/internal/report"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	JobPath string // job file or directory

	ReportPath   string // "-" is the app's output writer
	ReportFormat string
	MaxParallel  int
	Simple       bool // run every case in the controller, no children
	Dump         bool

	LogFormat    string
	LogLevel     string
	OTLPEndpoint string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.JobPath == "" {
		return nil, errors.New("JobPath is a required configuration field and cannot be empty")
	}
	if cfg.ReportPath == "" {
		cfg.ReportPath = "-"
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = "txt"
	}
	if !slices.Contains(report.Formats, cfg.ReportFormat) {
		return nil, fmt.Errorf("invalid report format %q: must be one of %v", cfg.ReportFormat, report.Formats)
	}
	if cfg.MaxParallel < 1 {
		return nil, fmt.Errorf("max parallel must be at least 1, got %d", cfg.MaxParallel)
	}
	return &cfg, nil
}
