package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
	ServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetDataFolder() string
	GetLogLevel() string
	GetLogFormat() string
	GetEnv() string
}

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetSessionBackend() string
	GetSessionPath() string
	GetExpiringWindowDays() int
}

type ServerConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRazorpayKey() string
}

type mainConfig struct {
	EnvVars
	Client
	Server
}

// New returns a Config backed by environment variables only.
func New() Config {
	return NewWithFile(nil)
}

// NewWithFile returns a Config where environment variables take precedence over the
// values of f, which in turn take precedence over built-in defaults.
func NewWithFile(f *File) Config {
	if f == nil {
		f = &File{}
	}
	return mainConfig{
		EnvVars: EnvVars{file: f},
		Client:  Client{file: f},
		Server:  Server{file: f},
	}
}

// Load reads the YAML file at path (a missing file is not an error) and builds a Config.
func Load(path string) (Config, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewWithFile(f), nil
}
