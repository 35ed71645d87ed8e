package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	portEnvVar        = "GYMFLOW_DEV_PORT"
	jwtSecretVar      = "GYMFLOW_DEV_JWT_SECRET"
	accessExpiryVar   = "GYMFLOW_DEV_ACCESS_EXPIRY"
	refreshExpiryVar  = "GYMFLOW_DEV_REFRESH_EXPIRY"
	razorpayKeyEnvVar = "GYMFLOW_DEV_RAZORPAY_KEY"
)

// Server configures the in-memory dev server.
type Server struct {
	file *File
}

var _ ServerConfig = Server{}

func (s Server) GetPort() string {
	port := GetEnv(portEnvVar, orDefault(s.file.DevServer.Port, "8000"))
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (s Server) GetJWTSecret() string {
	return GetEnv(jwtSecretVar, orDefault(s.file.DevServer.JWTSecret, "gymflow-dev-secret"))
}

func (s Server) GetAccessTokenExpiry() time.Duration {
	return durationOr(GetEnv(accessExpiryVar, s.file.DevServer.AccessExpiry), 15*time.Minute)
}

func (s Server) GetRefreshTokenExpiry() time.Duration {
	return durationOr(GetEnv(refreshExpiryVar, s.file.DevServer.RefreshExpiry), 7*24*time.Hour) // 7 days
}

func (s Server) GetRazorpayKey() string {
	return GetEnv(razorpayKeyEnvVar, orDefault(s.file.DevServer.RazorpayKey, "rzp_test_gymflow"))
}

func durationOr(raw string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return fallback
}
