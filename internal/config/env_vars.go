package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appNameVar    = "GYMFLOW_APP_NAME"
	apiURLVar     = "GYMFLOW_API_URL"
	folderEnvVar  = "GYMFLOW_FOLDER"
	logLevelVar   = "GYMFLOW_LOG_LEVEL"
	logFormatVar  = "GYMFLOW_LOG_FORMAT"
	envVar        = "GYMFLOW_ENV"
	defaultFolder = ".gymflow"
)

type EnvVars struct {
	file *File
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "GymFlow")
}

// GetAPIBaseURL returns the root of the gym API without a trailing slash
// (e.g. "https://gymflow.example.com"). All endpoint paths start with /api.
func (e EnvVars) GetAPIBaseURL() string {
	url := GetEnv(apiURLVar, orDefault(e.file.APIBaseURL, "http://localhost:8000"))
	return strings.TrimRight(url, "/")
}

// GetDataFolder is where the session and config files live (default ~/.gymflow).
func (e EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, orDefault(e.file.DataFolder, DefaultFolder()))
}

func (e EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, orDefault(e.file.LogLevel, "info"))
}

func (e EnvVars) GetLogFormat() string {
	return GetEnv(logFormatVar, orDefault(e.file.LogFormat, "console"))
}

func (EnvVars) GetEnv() string {
	return GetEnv(envVar, "DEV")
}

// DefaultFolder returns ~/.gymflow, or ./.gymflow when the home directory is unknown.
func DefaultFolder() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultFolder
	}
	return filepath.Join(home, defaultFolder)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func orDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
