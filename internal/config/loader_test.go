package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content string) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, configFileName)
	err := os.WriteFile(tempFilePath, []byte(content), 0644)
	require.NoError(t, err)
	return tempFilePath
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()

	loadedConfig, err := LoadConfig(tempDir)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loadedConfig)
	assert.NoError(t, loadedConfig.Validate())
}

func TestLoadConfig_Override(t *testing.T) {
	tempDir := t.TempDir()
	createTempConfigFile(t, tempDir, `
session:
  farewell: "See ya"
  workerPollInterval: 100ms
transport:
  kind: tls
  trustFile: /etc/lurker/roots.pem
logging:
  verbosity: 5
  format: json
`)

	loadedConfig, err := LoadConfig(tempDir)
	require.NoError(t, err)

	assert.Equal(t, "See ya", loadedConfig.Session.Farewell)
	assert.Equal(t, 100*time.Millisecond, loadedConfig.Session.WorkerPollInterval)
	assert.Equal(t, DefaultLogOutPollInterval, loadedConfig.Session.LogOutPollInterval, "unset values keep defaults")
	assert.Equal(t, "tls", loadedConfig.Transport.Kind)
	assert.Equal(t, "/etc/lurker/roots.pem", loadedConfig.Transport.TrustFile)
	assert.True(t, loadedConfig.Transport.WatchTrustFile)
	assert.Equal(t, 5, loadedConfig.Logging.Verbosity)
	assert.Equal(t, "json", loadedConfig.Logging.Format)
	assert.NoError(t, loadedConfig.Validate())
}

func TestLoadConfig_Malformed(t *testing.T) {
	tempDir := t.TempDir()
	path := createTempConfigFile(t, tempDir, "session: [unterminated")

	_, err := LoadConfig(tempDir)
	require.Error(t, err)

	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, ErrorTypeParse, configErr.ErrorType)
	assert.Equal(t, path, configErr.FilePath)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestLoadConfig_Unreadable(t *testing.T) {
	tempDir := t.TempDir()
	// A directory where the file should be cannot be read as one.
	require.NoError(t, os.Mkdir(filepath.Join(tempDir, configFileName), 0755))

	_, err := LoadConfig(tempDir)

	var configErr *ConfigurationError
	require.True(t, errors.As(err, &configErr))
	assert.Equal(t, ErrorTypeIO, configErr.ErrorType)
}

func TestLoadConfig_DefaultPath(t *testing.T) {
	tempDir := t.TempDir()
	originalOsUserHomeDir := osUserHomeDir
	defer func() {
		osUserHomeDir = originalOsUserHomeDir
	}()
	osUserHomeDir = func() (string, error) { return tempDir, nil }

	userConfDir := filepath.Join(tempDir, userConfigDir)
	require.NoError(t, os.MkdirAll(userConfDir, 0755))
	createTempConfigFile(t, userConfDir, "logging:\n  verbosity: 1\n")

	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, userConfDir, path)

	loadedConfig, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 1, loadedConfig.Logging.Verbosity)
}

func TestGetDefaultConfigPath_NoHome(t *testing.T) {
	originalOsUserHomeDir := osUserHomeDir
	defer func() {
		osUserHomeDir = originalOsUserHomeDir
	}()
	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }

	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "could not determine user config directory")
}
