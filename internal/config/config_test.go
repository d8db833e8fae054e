package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
port = "9000"

[database]
path = "cards.db"

[trello]
api_key = "file-key"
api_token = "file-token"
board_id = "board-1"

[gemini]
api_key = "gemini-key"

[google]
enabled = true
calendar_id = "ops@example.com"

[google.service_account]
type = "service_account"
client_email = "bot@example.iam.gserviceaccount.com"
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "cards.db", cfg.Database.Path)
	assert.Equal(t, "file-key", cfg.Trello.APIKey)
	assert.Equal(t, "board-1", cfg.Trello.BoardID)
	assert.Equal(t, "https://api.trello.com/1", cfg.Trello.BaseURL)
	assert.Equal(t, "To Do", cfg.Trello.DefaultList)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.True(t, cfg.Google.Enabled)
	assert.NoError(t, cfg.Validate())

	sa, err := cfg.Google.ServiceAccountJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account","client_email":"bot@example.iam.gserviceaccount.com"}`, string(sa))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("TRELLO_API_KEY", "env-key")
	t.Setenv("SERVER_PORT", "7000")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Trello.APIKey)
	assert.Equal(t, "7000", cfg.Server.Port)
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRELLO_API_KEY", "k")
	t.Setenv("TRELLO_API_TOKEN", "t")
	t.Setenv("TRELLO_BOARD_ID", "b")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "automation.db", cfg.Database.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidateReportsMissingKeys(t *testing.T) {
	cfg := &Config{Google: GoogleConfig{Enabled: true}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trello.api_key")
	assert.Contains(t, err.Error(), "trello.board_id")
	assert.Contains(t, err.Error(), "google.calendar_id")
}
