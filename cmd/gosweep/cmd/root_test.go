package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	// Save original value and restore after test
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	cfgFile = "/path/to/custom.yaml"
	assert.Equal(t, "/path/to/custom.yaml", GetConfigFile())
}

func TestGetCLIOverrides(t *testing.T) {
	// Save original values and restore after test
	originalLogLevel := logLevel
	originalLogFormat := logFormat
	originalConcurrency := concurrency
	originalOutputDir := outputDir
	defer func() {
		logLevel = originalLogLevel
		logFormat = originalLogFormat
		concurrency = originalConcurrency
		outputDir = originalOutputDir
	}()

	tests := []struct {
		name        string
		logLevel    string
		logFormat   string
		concurrency int
		outputDir   string
		want        CLIOverrides
	}{
		{
			name: "empty overrides",
			want: CLIOverrides{},
		},
		{
			name:        "all overrides set",
			logLevel:    "debug",
			logFormat:   "text",
			concurrency: 16,
			outputDir:   "/srv/reports",
			want: CLIOverrides{
				LogLevel:    "debug",
				LogFormat:   "text",
				Concurrency: 16,
				OutputDir:   "/srv/reports",
			},
		},
		{
			name:        "partial overrides",
			logLevel:    "warn",
			concurrency: 2,
			want: CLIOverrides{
				LogLevel:    "warn",
				Concurrency: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logLevel = tt.logLevel
			logFormat = tt.logFormat
			concurrency = tt.concurrency
			outputDir = tt.outputDir

			assert.Equal(t, tt.want, GetCLIOverrides())
		})
	}
}

func TestRootCommandStructure(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "gosweep", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Equal(t, Version, rootCmd.Version)
}

func TestRootCommandPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	configFlag, err := flags.GetString("config")
	assert.NoError(t, err)
	assert.Equal(t, "gosweep.yaml", configFlag)

	logLevelFlag, err := flags.GetString("log-level")
	assert.NoError(t, err)
	assert.Equal(t, "", logLevelFlag)

	logFormatFlag, err := flags.GetString("log-format")
	assert.NoError(t, err)
	assert.Equal(t, "", logFormatFlag)

	concurrencyFlag, err := flags.GetInt("concurrency")
	assert.NoError(t, err)
	assert.Equal(t, 0, concurrencyFlag)

	outputDirFlag, err := flags.GetString("output-dir")
	assert.NoError(t, err)
	assert.Equal(t, "", outputDirFlag)
}

func TestRootCommandSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	expectedCommands := []string{
		"scan",
		"agent",
		"targets",
		"plan",
		"validate",
		"version",
	}

	for _, expected := range expectedCommands {
		assert.Contains(t, commandNames, expected, "Expected command %s not found", expected)
	}
}
