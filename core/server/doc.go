// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings: the listen port, the
// API key protecting the REST surface, the quantity policy applied to departure
// inventories, and the background archive worker bound.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the inventory feature to resolve its quantity policy.
package server
