package openai

import "time"

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "text-embedding-ada-002"
	defaultDimension = 1536
	defaultTimeout   = 10 * time.Second
)

type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	Dimension int
	Timeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Dimension <= 0 {
		c.Dimension = defaultDimension
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
