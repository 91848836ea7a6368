package notion

import "time"

// Config holds configuration for the Notion API client.
type Config struct {
	// Token is the integration secret.
	Token string `mapstructure:"token" default:""`
	// DatabaseID is the database whose pages form the primary set.
	DatabaseID string `mapstructure:"database_id" default:""`
	// BaseURL is the API root; requests are redirected to it when it differs
	// from the public API.
	BaseURL string `mapstructure:"base_url" default:"https://api.notion.com"`
	// Version is sent as the Notion-Version header.
	Version string `mapstructure:"version" default:"2022-06-28"`
	// PageSize is the number of pages requested per query (max 100).
	PageSize int `mapstructure:"page_size" default:"100"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is how often a rate limited or failed request is retried.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
}

func (c Config) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c Config) pageSize() int {
	if c.PageSize <= 0 || c.PageSize > 100 {
		return 100
	}
	return c.PageSize
}
