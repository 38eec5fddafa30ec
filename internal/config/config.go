package config

import "os"

// Config carries every knob the binaries read from the environment. Values
// come from the process environment, typically seeded by a .env file.
type Config struct {
	// Dashboard client
	APIBaseURL string
	SocketURL  string
	AuthToken  string
	Role       string

	// Sandbox server
	SandboxAddr string
	SandboxDB   string
	JWTSecret   string

	LogLevel string
}

func Load() Config {
	return Config{
		APIBaseURL:  getenv("API_BASE_URL", "http://localhost:5174/api"),
		SocketURL:   getenv("SOCKET_URL", "ws://localhost:5174/ws"),
		AuthToken:   os.Getenv("AUTH_TOKEN"),
		Role:        getenv("DASHBOARD_ROLE", "employer"),
		SandboxAddr: getenv("SANDBOX_ADDR", ":5174"),
		SandboxDB:   getenv("SANDBOX_DB", "sandbox.db"),
		JWTSecret:   getenv("JWT_SECRET", "dev-secret-change-me"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
