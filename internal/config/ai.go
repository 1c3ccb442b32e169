package config

import "os"

// AIConfig holds the Gemini tag-suggestion configuration
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:   "https://generativelanguage.googleapis.com/v1beta/models",
		Model:     getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint
func (c *AIConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
