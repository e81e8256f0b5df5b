package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneThenExport(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "sig.yaml")
	out := filepath.Join(dir, "out")

	rootCmd.SetArgs([]string{"scene", scene, "--width", "200", "--height", "80"})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"scene", scene})
	assert.Error(t, rootCmd.Execute(), "existing scene is not overwritten")

	rootCmd.SetArgs([]string{"export", scene, "-o", out, "-f", "svg,png", "--duration", "800", "--scale", "1"})
	require.NoError(t, rootCmd.Execute())

	for _, name := range []string{"signature.svg", "signature.png"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size(), name)
	}
	_, err := os.Stat(filepath.Join(out, "signature.gif"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExportRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	rootCmd.SetArgs([]string{"export", filepath.Join(dir, "missing.yaml"), "-o", dir})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"export", "-f", "bmp", "--scenes", dir})
	assert.ErrorContains(t, rootCmd.Execute(), "unknown format")

	rootCmd.SetArgs([]string{"export", "-f", "svg", "--scenes", dir})
	assert.ErrorContains(t, rootCmd.Execute(), "no scene files")
}
