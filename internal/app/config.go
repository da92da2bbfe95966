package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// BuildPath is the directory (or single file) holding the HCL build
	// files.
	BuildPath string
	// OutDir is the output root for cache artifacts, reports and native
	// libraries.
	OutDir string
	// Versions are the language versions to evaluate. Empty means the
	// workspace default.
	Versions []string
	// Targets restricts evaluation to the named labels. Empty means every
	// supported target in the build.
	Targets []string

	LogFormat   string
	LogLevel    string
	WorkerCount int
	DryRun      bool
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BuildPath == "" {
		return nil, errors.New("BuildPath is a required configuration field and cannot be empty")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = ".pycheck-out"
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
