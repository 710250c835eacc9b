package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "template"), 0o755))

	template := fmt.Sprintf("storage:\n  backend: file\n  path: %s\n", filepath.Join(dir, "local_storage.yaml"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template", "autoseller.yaml"), []byte(template), 0o644))

	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	return out.String(), err
}

func TestSettingsSetAndGet(t *testing.T) {
	dir := setupConfigDir(t)

	out, err := execute(t, "settings", "get", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "AutoSeller-Enabled=true (default)\nAutoSell-Treasures=true (default)\nAutoSell-Plates=true (default)\n", out)

	out, err = execute(t, "settings", "set", "AutoSell-Plates", "false", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "AutoSell-Plates=false\n", out)

	out, err = execute(t, "settings", "get", "AutoSell-Plates", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "AutoSell-Plates=false\n", out)

	assert.FileExists(t, filepath.Join(dir, "autoseller.yaml"))
}

func TestSettingsGetUnknownKey(t *testing.T) {
	dir := setupConfigDir(t)

	out, err := execute(t, "settings", "get", "AutoFarm-Enabled", "--config-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "AutoFarm-Enabled=(unset)\n", out)
}

func TestSettingsSetRejectsNonBooleans(t *testing.T) {
	dir := setupConfigDir(t)

	_, err := execute(t, "settings", "set", "AutoSell-Plates", "yes", "--config-dir", dir)
	assert.ErrorContains(t, err, `value must be "true" or "false"`)
}
