package shared

import "time"

// HTTP Client Configuration
const (
	DefaultHTTPTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Upstream Configuration
const (
	DefaultGeminiHost    = "https://generativelanguage.googleapis.com"
	DefaultGeminiVersion = "v1beta"
	DefaultModel         = "gemini-2.5-flash"
)

// Retry Configuration
const (
	DefaultMaxRetries     = 3
	DefaultRetryBaseDelay = 1 * time.Second
)

// API Configuration
const (
	APIKeyLength = 32
)
