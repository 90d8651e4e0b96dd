// Package config resolves the adapter's configuration for one workspace.
//
// Sources are merged in order: built-in defaults, an optional pta.yaml in
// the workspace root, the workspace's .env file, then command-line flags.
// The core packages only ever see the resolved Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all resolved configuration for one workspace.
type Config struct {
	// WorkspacePath is the root the runner executes in
	WorkspacePath string

	// Runner invocation
	RunnerPath string   // relative paths resolve against the workspace
	RunnerArgs []string // extra arguments appended to every invocation
	RunnerEnv  []string // KEY=VALUE overrides for the runner process

	// GracePeriod bounds cooperative shutdown on cancellation
	GracePeriod time.Duration

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Database settings for test database preparation
	Database DatabaseConfig

	// Command flags
	Flags Flags
}

// DatabaseConfig is the connection info for the MySQL test database.
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
}

// Flags holds command-line flags.
type Flags struct {
	RunnerPath string
	Filter     string
	Grace      time.Duration
	PrepareDB  bool
	CasesOnly  bool
	OpenFaills bool
}

// fileConfig is the pta.yaml shape.
type fileConfig struct {
	Runner struct {
		Path string            `yaml:"path"`
		Args []string          `yaml:"args"`
		Env  map[string]string `yaml:"env"`
	} `yaml:"runner"`
	GracePeriod string `yaml:"grace_period"`
	Output      struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"`
	} `yaml:"output"`
	Database struct {
		Name string `yaml:"name"`
	} `yaml:"database"`
}

// New creates a Config for a workspace with defaults only.
func New(workspace string) *Config {
	return &Config{
		WorkspacePath:  workspace,
		RunnerPath:     DefaultRunnerPath,
		GracePeriod:    DefaultGracePeriod,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Database:       DatabaseConfig{Host: "127.0.0.1", Port: "3306", Username: "root", Name: DefaultDatabaseName},
	}
}

// Load resolves the configuration for a workspace and applies flags.
func Load(workspace string, flags Flags) (*Config, error) {
	cfg := New(workspace)
	cfg.Flags = flags

	if err := cfg.applyFile(filepath.Join(workspace, ConfigFileName)); err != nil {
		return nil, err
	}

	// .env might not exist; environment variables still apply.
	_ = godotenv.Load(filepath.Join(workspace, ".env"))
	cfg.applyEnv()

	if flags.RunnerPath != "" {
		cfg.RunnerPath = flags.RunnerPath
	}
	if flags.Grace > 0 {
		cfg.GracePeriod = flags.Grace
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Runner.Path != "" {
		c.RunnerPath = fc.Runner.Path
	}
	if len(fc.Runner.Args) > 0 {
		c.RunnerArgs = fc.Runner.Args
	}
	for k, v := range fc.Runner.Env {
		c.RunnerEnv = append(c.RunnerEnv, fmt.Sprintf("%s=%s", k, v))
	}
	if fc.GracePeriod != "" {
		grace, err := time.ParseDuration(fc.GracePeriod)
		if err != nil {
			return fmt.Errorf("parse %s: invalid grace_period %q: %w", path, fc.GracePeriod, err)
		}
		c.GracePeriod = grace
	}
	if fc.Output.Dir != "" {
		c.OutputJSONDir = fc.Output.Dir
	}
	if fc.Output.File != "" {
		c.OutputJSONFile = fc.Output.File
	}
	if fc.Database.Name != "" {
		c.Database.Name = fc.Database.Name
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		c.Database.Port = v
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_DATABASE"); v != "" {
		c.Database.Name = v
	}
}

// GetRunnerPath returns the runner binary path, resolved against the
// workspace when relative.
func (c *Config) GetRunnerPath() string {
	if filepath.IsAbs(c.RunnerPath) {
		return c.RunnerPath
	}
	return filepath.Join(c.WorkspacePath, c.RunnerPath)
}

// GetOutputPath returns the absolute path to the output JSON file, so every
// command reads and writes the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.WorkspacePath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
