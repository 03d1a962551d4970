package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file.
// ${VAR} references in the file are expanded from the environment before
// parsing. Environment overrides (env: tags) win over file values.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with -config flag", absPath)
	}

	data = expandEnvVars(data)

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", absPath, err)
	}

	applyDefaults(cfg)

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.SecretEnv == "" {
		cfg.SecretEnv = DefaultSecretEnv
	}
	if cfg.Notify.RelayHost == "" {
		cfg.Notify.RelayHost = DefaultRelayHost
	}
	if cfg.Notify.RelayPort == 0 {
		cfg.Notify.RelayPort = DefaultRelayPort
	}
}

func validate(cfg *Config) error {
	if len(cfg.Deployments) == 0 {
		return fmt.Errorf("no deployments configured")
	}
	for repo, target := range cfg.Deployments {
		if repo == "" || target == "" {
			return fmt.Errorf("deployments entries need both a repository and a target, got %q: %q", repo, target)
		}
	}
	if cfg.Ansible.ProjectDir == "" {
		return fmt.Errorf("ansible.project_dir is required")
	}
	if cfg.Ansible.Playbook == "" {
		return fmt.Errorf("ansible.playbook is required")
	}
	if cfg.Ansible.Inventory == "" {
		return fmt.Errorf("ansible.inventory is required")
	}
	if len(cfg.Notify.Recipients) == 0 {
		return fmt.Errorf("notify.recipients is required")
	}
	if cfg.Notify.From == "" {
		return fmt.Errorf("notify.from is required")
	}
	return nil
}

// Secret resolves the webhook secret from the configured environment
// variable. Empty means the secret is unavailable; verification reports
// that as a server-side configuration failure, not an auth failure.
func (c *Config) Secret() string {
	return os.Getenv(c.SecretEnv)
}
