package config

// Config represents the complete autodeployd configuration.
type Config struct {
	Listen      string            `yaml:"listen" env:"AUTODEPLOYD_LISTEN"`
	LogLevel    string            `yaml:"log_level" env:"AUTODEPLOYD_LOG_LEVEL"`
	SecretEnv   string            `yaml:"secret_env"`
	Ansible     AnsibleConfig     `yaml:"ansible"`
	Deployments map[string]string `yaml:"deployments"`
	Notify      NotifyConfig      `yaml:"notify"`
}

// AnsibleConfig defines how the automation tool is invoked.
type AnsibleConfig struct {
	// ProjectDir is the working directory the playbook runs from.
	ProjectDir string `yaml:"project_dir"`

	// Playbook is the playbook filename, relative to ProjectDir.
	Playbook string `yaml:"playbook"`

	// Inventory is the inventory file passed via -i, relative to ProjectDir.
	Inventory string `yaml:"inventory"`

	// RemoteUser is the identity passed via -u. Optional.
	RemoteUser string `yaml:"remote_user,omitempty"`
}

// NotifyConfig defines outcome mail delivery.
type NotifyConfig struct {
	// Recipients receive every skip and outcome notification.
	Recipients []string `yaml:"recipients" env:"AUTODEPLOYD_RECIPIENTS" envSeparator:","`

	// From is the envelope/header sender address.
	From string `yaml:"from"`

	// RelayHost is the local mail relay, no authentication assumed.
	RelayHost string `yaml:"relay_host"`
	RelayPort int    `yaml:"relay_port"`

	// SubjectPrefix is prepended to every notification subject.
	SubjectPrefix string `yaml:"subject_prefix,omitempty"`
}

// Default values applied by Load when the file omits them.
const (
	DefaultListen    = "127.0.0.1:7878"
	DefaultSecretEnv = "GITHUB_WEBHOOK_SECRET"
	DefaultRelayHost = "localhost"
	DefaultRelayPort = 25
)
