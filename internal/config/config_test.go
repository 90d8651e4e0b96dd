package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_GetRunnerPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default relative path",
			config: &Config{
				WorkspacePath: "/project",
				RunnerPath:    DefaultRunnerPath,
			},
			expected: "/project/vendor/bin/phpunit",
		},
		{
			name: "absolute path wins",
			config: &Config{
				WorkspacePath: "/project",
				RunnerPath:    "/usr/local/bin/phpunit",
			},
			expected: "/usr/local/bin/phpunit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetRunnerPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := New("/project")

	if cfg.GracePeriod != DefaultGracePeriod {
		t.Errorf("expected grace period %v, got %v", DefaultGracePeriod, cfg.GracePeriod)
	}
	if cfg.OutputJSONDir != DefaultOutputJSONDir {
		t.Errorf("expected output dir %s, got %s", DefaultOutputJSONDir, cfg.OutputJSONDir)
	}
	if cfg.Database.Name != DefaultDatabaseName {
		t.Errorf("expected database %s, got %s", DefaultDatabaseName, cfg.Database.Name)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	yml := `
runner:
  path: tools/phpunit
  args: ["--configuration", "phpunit.xml.dist"]
  env:
    APP_ENV: testing
grace_period: 10s
output:
  dir: build
database:
  name: app_test
`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yml), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(dir, Flags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RunnerPath != "tools/phpunit" {
		t.Errorf("expected runner path tools/phpunit, got %s", cfg.RunnerPath)
	}
	if len(cfg.RunnerArgs) != 2 || cfg.RunnerArgs[0] != "--configuration" {
		t.Errorf("unexpected runner args: %v", cfg.RunnerArgs)
	}
	if len(cfg.RunnerEnv) != 1 || cfg.RunnerEnv[0] != "APP_ENV=testing" {
		t.Errorf("unexpected runner env: %v", cfg.RunnerEnv)
	}
	if cfg.GracePeriod != 10*time.Second {
		t.Errorf("expected 10s grace period, got %v", cfg.GracePeriod)
	}
	if cfg.OutputJSONDir != "build" {
		t.Errorf("expected output dir build, got %s", cfg.OutputJSONDir)
	}
	if cfg.Database.Name != "app_test" {
		t.Errorf("expected database app_test, got %s", cfg.Database.Name)
	}
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, Flags{RunnerPath: "/opt/phpunit", Grace: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RunnerPath != "/opt/phpunit" {
		t.Errorf("expected flag runner path, got %s", cfg.RunnerPath)
	}
	if cfg.GracePeriod != time.Second {
		t.Errorf("expected flag grace period, got %v", cfg.GracePeriod)
	}
}

func TestConfig_GetOutputPath(t *testing.T) {
	cfg := New("/project")

	expected := filepath.Join("/project", DefaultOutputJSONDir, DefaultOutputJSONFile)
	if got := cfg.GetOutputPath(); got != expected {
		t.Errorf("expected %s, got %s", expected, got)
	}
}
