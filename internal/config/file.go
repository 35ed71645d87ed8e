package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up inside the data folder.
const FileName = "config.yaml"

// File mirrors ~/.gymflow/config.yaml. Empty fields fall through to defaults.
type File struct {
	APIBaseURL     string `yaml:"api_url"`
	DataFolder     string `yaml:"data_folder"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	Timeout        string `yaml:"timeout"`
	SessionBackend string `yaml:"session_backend"`
	SessionPath    string `yaml:"session_path"`
	ExpiringDays   *int   `yaml:"expiring_days"`

	DevServer DevServerFile `yaml:"dev_server"`
}

type DevServerFile struct {
	Port          string `yaml:"port"`
	JWTSecret     string `yaml:"jwt_secret"`
	AccessExpiry  string `yaml:"access_expiry"`
	RefreshExpiry string `yaml:"refresh_expiry"`
	RazorpayKey   string `yaml:"razorpay_key"`
}

// DefaultPath returns the config file path inside the default data folder.
func DefaultPath() string {
	return filepath.Join(GetEnv(folderEnvVar, DefaultFolder()), FileName)
}

// LoadFile parses the YAML config at path. A missing file yields an empty File.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}
