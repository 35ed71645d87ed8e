package config

import (
	"path/filepath"
	"strconv"
	"time"
)

const (
	timeoutVar        = "GYMFLOW_TIMEOUT"
	sessionBackendVar = "GYMFLOW_SESSION_BACKEND"
	sessionPathVar    = "GYMFLOW_SESSION_PATH"
	expiringDaysVar   = "GYMFLOW_EXPIRING_DAYS"

	// DefaultRequestTimeout bounds every outbound API call.
	DefaultRequestTimeout = 25 * time.Second
	// DefaultExpiringWindowDays matches the "expiring" status threshold.
	DefaultExpiringWindowDays = 7

	SessionBackendFile   = "file"
	SessionBackendSQLite = "sqlite"
	SessionBackendMemory = "memory"
)

type Client struct {
	file *File
}

var _ ClientConfig = Client{}

func (c Client) GetRequestTimeout() time.Duration {
	if d, err := time.ParseDuration(GetEnv(timeoutVar, c.file.Timeout)); err == nil && d > 0 {
		return d
	}
	return DefaultRequestTimeout
}

// GetSessionBackend is one of "file", "sqlite" or "memory".
func (c Client) GetSessionBackend() string {
	switch backend := GetEnv(sessionBackendVar, c.file.SessionBackend); backend {
	case SessionBackendSQLite, SessionBackendMemory:
		return backend
	default:
		return SessionBackendFile
	}
}

func (c Client) GetSessionPath() string {
	if p := GetEnv(sessionPathVar, c.file.SessionPath); p != "" {
		return p
	}
	return SessionPathIn(EnvVars{file: c.file}.GetDataFolder(), c.GetSessionBackend())
}

// SessionPathIn is the default session file for backend inside folder.
func SessionPathIn(folder, backend string) string {
	if backend == SessionBackendSQLite {
		return filepath.Join(folder, "session.db")
	}
	return filepath.Join(folder, "session.json")
}

func (c Client) GetExpiringWindowDays() int {
	raw := GetEnv(expiringDaysVar, "")
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return n
	}
	if c.file.ExpiringDays != nil && *c.file.ExpiringDays >= 0 {
		return *c.file.ExpiringDays
	}
	return DefaultExpiringWindowDays
}
