package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-bbcode/internal/config"
)

// envPrefix starts every recognized environment variable.
const envPrefix = "BBCODE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // BBCODE_CONFIG: config file name or path
	Style      string        // BBCODE_STYLE: style name, path or CSS text
	Theme      string        // BBCODE_THEME: theme preset name
	Timeout    time.Duration // BBCODE_TIMEOUT: PDF rendering timeout

	InputDir  string // BBCODE_INPUT_DIR: default input directory
	OutputDir string // BBCODE_OUTPUT_DIR: default output directory
	AssetPath string // BBCODE_ASSET_PATH: custom asset directory
	Lang      string // BBCODE_LANG: document language
	LogLevel  string // BBCODE_LOG_LEVEL: debug, info, warn, error
	Addr      string // BBCODE_ADDR: preview server address
	Workers   int    // BBCODE_WORKERS: parallel workers
}

// knownEnvVars lists valid BBCODE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"BBCODE_CONFIG":     true,
	"BBCODE_STYLE":      true,
	"BBCODE_THEME":      true,
	"BBCODE_TIMEOUT":    true,
	"BBCODE_INPUT_DIR":  true,
	"BBCODE_OUTPUT_DIR": true,
	"BBCODE_ASSET_PATH": true,
	"BBCODE_LANG":       true,
	"BBCODE_LOG_LEVEL":  true,
	"BBCODE_ADDR":       true,
	"BBCODE_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid durations and worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("BBCODE_CONFIG"),
		Style:      os.Getenv("BBCODE_STYLE"),
		Theme:      os.Getenv("BBCODE_THEME"),
		InputDir:   os.Getenv("BBCODE_INPUT_DIR"),
		OutputDir:  os.Getenv("BBCODE_OUTPUT_DIR"),
		AssetPath:  os.Getenv("BBCODE_ASSET_PATH"),
		Lang:       os.Getenv("BBCODE_LANG"),
		LogLevel:   os.Getenv("BBCODE_LOG_LEVEL"),
		Addr:       os.Getenv("BBCODE_ADDR"),
	}

	if timeout := os.Getenv("BBCODE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("BBCODE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized BBCODE_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name := strings.SplitN(env, "=", 2)[0]
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment values to cfg where the config file
// left the field at its default. Resulting priority:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" && cfg.Style == "" {
		cfg.Style = env.Style
	}
	if env.Theme != "" && cfg.Theme.Name == "" {
		cfg.Theme.Name = env.Theme
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" && cfg.Assets.BasePath == "" {
		cfg.Assets.BasePath = env.AssetPath
	}
	if env.Lang != "" && cfg.Document.Lang == "" {
		cfg.Document.Lang = env.Lang
	}
	if env.LogLevel != "" && cfg.Log.Level == config.DefaultConfig().Log.Level {
		cfg.Log.Level = env.LogLevel
	}
	if env.Addr != "" && cfg.Serve.Addr == "" {
		cfg.Serve.Addr = env.Addr
	}
}
