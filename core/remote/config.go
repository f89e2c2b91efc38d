package remote

// Config holds configuration for the remote inventory API client.
type Config struct {
	// BaseURL is the root URL of the remote instance.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8080"`
	// ApiKey authenticates against the remote instance.
	ApiKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
