package restclient

import "time"

// Config locates a PostgREST-compatible endpoint, such as a Supabase
// project's REST API.
type Config struct {
	// BaseURL is the project URL; requests go to BaseURL + "/rest/v1/<table>".
	BaseURL    string
	APIKey     string
	UserID     string
	Timeout    time.Duration
	MaxRetries int
	// Backoff is the wait before the first retry; it grows linearly.
	Backoff time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		MaxRetries: 2,
		Backoff:    250 * time.Millisecond,
	}
}
