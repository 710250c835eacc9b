package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/pokeclicker-automation/autoseller/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debug: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, 5*time.Second, cfg.Bridge.RequestTimeout)
	assert.Equal(t, "127.0.0.1:8720", cfg.Server.ListenAddr)
	assert.Equal(t, settings.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join("config", "local_storage.yaml"), cfg.Storage.Path)
	assert.Equal(t, 10*time.Second, cfg.Seller.Interval)
	assert.Equal(t, 10*time.Second, cfg.Seller.UnlockWatchInterval)
}

func TestLoadParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
seller:
  interval: 30s
  unlockWatchInterval: 1m
storage:
  backend: sqlite
`))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Seller.Interval)
	assert.Equal(t, time.Minute, cfg.Seller.UnlockWatchInterval)
	assert.Equal(t, filepath.Join("config", "local_storage.db"), cfg.Storage.Path)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "unknown backend", content: "storage: {backend: redis}", wantErr: settings.ErrUnknownBackend},
		{name: "discord without token", content: "discord: {enabled: true, channelId: '1'}", wantErr: ErrMissingToken},
		{name: "discord without channel", content: "discord: {enabled: true, token: abc}", wantErr: ErrInvalid},
		{name: "telegram without token", content: "telegram: {enabled: true, chatId: 5}", wantErr: ErrMissingToken},
		{name: "telegram without chat", content: "telegram: {enabled: true, token: abc}", wantErr: ErrInvalid},
		{name: "disabled sinks need nothing", content: "discord: {enabled: false}\ntelegram: {enabled: false}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadRejectsEncryptedTokensOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("dpapi is available on windows")
	}

	_, err := Load(writeConfig(t, "discord: {enabled: true, token: 'dpapi:AQAAANCMnd8B', channelId: '1'}"))
	assert.ErrorContains(t, err, "discord token")
}

func TestBootstrapCopiesTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, templateDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, templateDir, FileName), []byte("logLevel: warn\n"), 0o644))

	path, err := Bootstrap(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)

	// An existing file is never overwritten.
	require.NoError(t, os.WriteFile(path, []byte("logLevel: error\n"), 0o644))
	_, err = Bootstrap(dir)
	require.NoError(t, err)
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestBootstrapWithoutTemplate(t *testing.T) {
	_, err := Bootstrap(t.TempDir())
	assert.ErrorContains(t, err, "config template not found")
}

func TestShippedTemplateLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", templateDir, FileName))
	require.NoError(t, err)
	assert.Equal(t, settings.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 10*time.Second, cfg.Seller.Interval)
}
