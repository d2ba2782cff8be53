// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key and the graceful shutdown
// limit. It is embedded by core/config and consumed by the start command.
package server
