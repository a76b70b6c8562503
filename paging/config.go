package paging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds simulator configuration
type Config struct {
	// Simulation
	PageSize uint64   `json:"page_size" yaml:"page_size"` // Address to page divisor
	Frames   int      `json:"frames" yaml:"frames"`       // Frame count for the batch report
	Policies []string `json:"policies" yaml:"policies"`   // Policies compared in the batch report

	// Anomaly sweep
	SweepPolicy    string `json:"sweep_policy" yaml:"sweep_policy"`
	SweepMinFrames int    `json:"sweep_min_frames" yaml:"sweep_min_frames"`
	SweepMaxFrames int    `json:"sweep_max_frames" yaml:"sweep_max_frames"`

	// Execution
	Parallelism     int   `json:"parallelism" yaml:"parallelism"`             // Concurrent runs in sweeps/comparisons
	ResultCacheSize int64 `json:"result_cache_size" yaml:"result_cache_size"` // Memoized results, 0 disables

	// Input / output
	TraceFile   string `json:"trace_file" yaml:"trace_file"`     // Address trace (.txt, .sz, .lz4)
	ShowTrace   bool   `json:"show_trace" yaml:"show_trace"`     // Print the frame table after each reference
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"` // Prometheus textfile output, empty disables

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format" yaml:"log_format"` // json or console
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		PageSize:        100,
		Frames:          5,
		Policies:        []string{"fifo", "lru", "optimal"},
		SweepPolicy:     "fifo",
		SweepMinFrames:  1,
		SweepMaxFrames:  10,
		Parallelism:     4,
		ResultCacheSize: 1024,
		TraceFile:       "address.txt",
		ShowTrace:       true,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// LoadConfigFromFile loads configuration from a YAML (.yaml, .yml) or JSON file
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigFromEnv loads configuration from environment variables
// Falls back to default values if environment variables are not set
func LoadConfigFromEnv() (*Config, error) {
	config := DefaultConfig()
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from PAGESIM_* environment variables.
// An unparsable numeric value is an error, never a silent default.
func (c *Config) ApplyEnv() error {
	if val := os.Getenv("PAGESIM_PAGE_SIZE"); val != "" {
		size, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return envError("PAGESIM_PAGE_SIZE", val, err)
		}
		c.PageSize = size
	}

	if val := os.Getenv("PAGESIM_FRAMES"); val != "" {
		frames, err := strconv.Atoi(val)
		if err != nil {
			return envError("PAGESIM_FRAMES", val, err)
		}
		c.Frames = frames
	}

	if val := os.Getenv("PAGESIM_POLICIES"); val != "" {
		c.Policies = SplitList(val)
	}

	if val := os.Getenv("PAGESIM_SWEEP_POLICY"); val != "" {
		c.SweepPolicy = val
	}

	if val := os.Getenv("PAGESIM_PARALLELISM"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return envError("PAGESIM_PARALLELISM", val, err)
		}
		c.Parallelism = n
	}

	if val := os.Getenv("PAGESIM_TRACE_FILE"); val != "" {
		c.TraceFile = val
	}

	if val := os.Getenv("PAGESIM_SHOW_TRACE"); val != "" {
		c.ShowTrace = val == "true" || val == "1"
	}

	if val := os.Getenv("PAGESIM_METRICS_FILE"); val != "" {
		c.MetricsFile = val
	}

	if val := os.Getenv("PAGESIM_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
	return nil
}

func envError(name, val string, err error) error {
	return NewSimError(ErrCodeInvalidConfiguration, "ApplyEnv",
		fmt.Sprintf("%s=%q is not a number", name, val), err)
}

// SplitList splits a comma separated list, dropping blank entries
func SplitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// SaveToFile saves the configuration as YAML or JSON depending on the extension
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	const op = "Config.Validate"

	if c.PageSize == 0 {
		return ErrInvalidPageSize(op, c.PageSize)
	}

	if c.Frames < 1 {
		return ErrInvalidFrames(op, c.Frames)
	}

	if len(c.Policies) == 0 {
		return NewSimError(ErrCodeInvalidConfiguration, op, "at least one policy must be configured", nil)
	}
	if _, err := ParsePolicies(c.Policies); err != nil {
		return err
	}

	if _, err := ParsePolicy(c.SweepPolicy); err != nil {
		return err
	}

	if c.SweepMinFrames < 1 || c.SweepMaxFrames < c.SweepMinFrames {
		return ErrInvalidSweepRange(op, c.SweepMinFrames, c.SweepMaxFrames)
	}

	if c.Parallelism < 1 {
		return NewSimError(ErrCodeInvalidConfiguration, op,
			fmt.Sprintf("parallelism must be at least 1, got %d", c.Parallelism), nil)
	}

	if c.ResultCacheSize < 0 {
		return NewSimError(ErrCodeInvalidConfiguration, op, "result cache size cannot be negative", nil)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.LogLevel] {
		return NewSimError(ErrCodeInvalidConfiguration, op,
			fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel), nil)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	clone.Policies = append([]string(nil), c.Policies...)
	return &clone
}
