package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
listen: "127.0.0.1:7878"
log_level: info
ansible:
  project_dir: /srv/cloud-ansible
  playbook: controller_playbook.yaml
  inventory: inventories/control.yaml
  remote_user: deploy
deployments:
  org/app: app_tag
  org/crash-api: crash
notify:
  recipients:
    - ops@example.com
  from: autodeployd@example.com
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7878", cfg.Listen)
	assert.Equal(t, "app_tag", cfg.Deployments["org/app"])
	assert.Equal(t, "crash", cfg.Deployments["org/crash-api"])
	assert.Equal(t, "deploy", cfg.Ansible.RemoteUser)
	assert.Equal(t, []string{"ops@example.com"}, cfg.Notify.Recipients)
}

func TestLoadDefaults(t *testing.T) {
	content := `
ansible:
  project_dir: /srv/cloud-ansible
  playbook: controller_playbook.yaml
  inventory: inventories/control.yaml
deployments:
  org/app: app_tag
notify:
  recipients: [ops@example.com]
  from: autodeployd@example.com
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.Equal(t, DefaultSecretEnv, cfg.SecretEnv)
	assert.Equal(t, DefaultRelayHost, cfg.Notify.RelayHost)
	assert.Equal(t, DefaultRelayPort, cfg.Notify.RelayPort)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_ANSIBLE_DIR", "/opt/ansible")
	content := `
ansible:
  project_dir: ${TEST_ANSIBLE_DIR}
  playbook: controller_playbook.yaml
  inventory: inventories/control.yaml
deployments:
  org/app: app_tag
notify:
  recipients: [ops@example.com]
  from: autodeployd@example.com
`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)
	assert.Equal(t, "/opt/ansible", cfg.Ansible.ProjectDir)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AUTODEPLOYD_LISTEN", "0.0.0.0:9000")
	t.Setenv("AUTODEPLOYD_RECIPIENTS", "a@example.com,b@example.com")

	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Notify.Recipients)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing deployments",
			content: `
ansible:
  project_dir: /srv/cloud-ansible
  playbook: p.yaml
  inventory: i.yaml
notify:
  recipients: [ops@example.com]
  from: autodeployd@example.com
`,
			wantErr: "no deployments configured",
		},
		{
			name: "missing playbook",
			content: `
ansible:
  project_dir: /srv/cloud-ansible
  inventory: i.yaml
deployments:
  org/app: app_tag
notify:
  recipients: [ops@example.com]
  from: autodeployd@example.com
`,
			wantErr: "ansible.playbook is required",
		},
		{
			name: "missing recipients",
			content: `
ansible:
  project_dir: /srv/cloud-ansible
  playbook: p.yaml
  inventory: i.yaml
deployments:
  org/app: app_tag
notify:
  from: autodeployd@example.com
`,
			wantErr: "notify.recipients is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "listen: [unbalanced"))
	require.Error(t, err)
}

func TestSecret(t *testing.T) {
	t.Setenv("TEST_HOOK_SECRET", "s3cret")
	cfg := &Config{SecretEnv: "TEST_HOOK_SECRET"}
	assert.Equal(t, "s3cret", cfg.Secret())

	cfg.SecretEnv = "TEST_HOOK_SECRET_UNSET"
	assert.Empty(t, cfg.Secret())
}

func TestFingerprint(t *testing.T) {
	path := writeConfig(t, validConfig)
	fp1, err := Fingerprint(path)
	require.NoError(t, err)
	assert.Len(t, fp1, 64)

	require.NoError(t, os.WriteFile(path, []byte(validConfig+"\n# changed\n"), 0o644))
	fp2, err := Fingerprint(path)
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp2)
}
