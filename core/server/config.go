package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// StrictDepartures applies the strict quantity policy to departure
	// inventories (counts clamped to the booked amounts). Return
	// inventories are always lenient.
	StrictDepartures bool `mapstructure:"strict_departures" default:"true"`
	// ArchiveWorkers bounds the concurrent background uploads of
	// terminated-inventory archives.
	ArchiveWorkers int `mapstructure:"archive_workers" default:"4"`
}
