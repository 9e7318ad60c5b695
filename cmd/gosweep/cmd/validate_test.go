package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
targets:
  source: static
  static:
    - PC1
    - PC2
filters:
  - root: /data
    extensions: [".txt"]
scan:
  concurrency: 2
  transport: local
report:
  output_dir: /tmp/reports
`

const invalidYAML = `
targets:
  source: carrier-pigeon
filters: []
scan:
  concurrency: 0
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gosweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func withConfigFile(t *testing.T, path string) {
	t.Helper()
	original := cfgFile
	cfgFile = path
	t.Cleanup(func() { cfgFile = original })
}

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotNil(t, validateCmd.RunE)
}

func TestRunValidate_ValidConfig(t *testing.T) {
	withConfigFile(t, writeTempConfig(t, validYAML))

	err := runValidate(validateCmd, nil)
	assert.NoError(t, err)
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	withConfigFile(t, writeTempConfig(t, invalidYAML))

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRunValidate_MissingFile(t *testing.T) {
	withConfigFile(t, filepath.Join(t.TempDir(), "absent.yaml"))

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
