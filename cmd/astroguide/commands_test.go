package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/astroguide/internal/account"
	"github.com/mark3labs/astroguide/internal/config"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func resetSetupFlags(t *testing.T) {
	t.Helper()
	old := setupFlags
	t.Cleanup(func() { setupFlags = old })
	setupFlags.project = false
	setupFlags.force = false
	setupFlags.calcURL = ""
	setupFlags.geocodeToken = ""
	setupFlags.backendURL = ""
	setupFlags.backendKey = ""
	setupFlags.store = config.StoreBackend
	setupFlags.databaseDSN = ""
}

func TestRunSetup_WritesGlobalConfig(t *testing.T) {
	resetSetupFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	setupFlags.calcURL = "http://calc.test"
	setupFlags.geocodeToken = "pk.test"

	var out bytes.Buffer
	setupCmd.SetOut(&out)
	require.NoError(t, runSetup(setupCmd, nil))
	require.Contains(t, out.String(), "Config written to: "+config.GlobalPath())
	require.NotContains(t, out.String(), "No geocode token")

	data, err := os.ReadFile(config.GlobalPath())
	require.NoError(t, err)
	var written config.Config
	require.NoError(t, yaml.Unmarshal(data, &written))
	require.Equal(t, "http://calc.test", written.CalcURL)
	require.Equal(t, "pk.test", written.GeocodeToken)
	require.Equal(t, config.StoreBackend, written.ReadingsStore)
}

func TestRunSetup_RefusesOverwriteWithoutForce(t *testing.T) {
	resetSetupFlags(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := config.GlobalPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("calc_url: http://old\n"), 0o600))

	setupCmd.SetOut(&bytes.Buffer{})
	err := runSetup(setupCmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "--force")

	setupFlags.force = true
	require.NoError(t, runSetup(setupCmd, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(data), "http://old")
}

func TestRunSetup_WarnsWithoutGeocodeToken(t *testing.T) {
	resetSetupFlags(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	setupCmd.SetOut(&out)
	require.NoError(t, runSetup(setupCmd, nil))
	require.Contains(t, out.String(), "No geocode token")
}

func TestFocusTitle(t *testing.T) {
	require.Equal(t, "Wealth & Prosperity", focusTitle(account.Reading{Influence: "wealth"}))
	require.Equal(t, "health", focusTitle(account.Reading{Influence: "health"}))
}
