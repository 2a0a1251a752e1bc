// Package config loads the qboard client configuration.
//
// Configuration lives in ~/.config/qboard/config.toml and identifies the
// Queuify backend: the REST base URL, the websocket endpoint (derived from
// the REST URL when not set explicitly), the bearer token, and the default
// organization id. A missing config file is not an error; defaults point at
// a local development backend.
package config
