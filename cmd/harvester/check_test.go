package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommand_ReportsConfig(t *testing.T) {
	t.Setenv("HARVESTER_LOCATION", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := "location: Texas\n" +
		"output_dir: " + filepath.Join(dir, "out") + "\n" +
		"linkedin:\n  cookies_path: " + filepath.Join(dir, "missing.json") + "\n" +
		"verticals:\n  Data:\n    - sql\n    - etl\n  Cloud:\n    - aws\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", cfgPath, "check"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Config loaded successfully")
	assert.Contains(t, out.String(), "Location: Texas")
	assert.Contains(t, out.String(), "Verticals: 2")
	assert.Contains(t, out.String(), "Search terms: 3")
	assert.Contains(t, out.String(), "LinkedIn cookies:")
}

func TestCheckCommand_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("location: [unterminated\n"), 0644))

	rootCmd.SetArgs([]string{"--config", cfgPath, "check"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	assert.Error(t, rootCmd.Execute())
}
