// Package config loads the application configuration.
//
// Configuration comes from environment variables, optionally overloaded
// from a local .env file. Defaults are declared as struct tags on the
// partial Config structs owned by each core package (server, database,
// storage, logger, remote) and bound into Viper by reflection, so a key
// like SERVER_PORT maps to server.port.
package config
