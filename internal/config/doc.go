// Package config loads the clewn configuration.
//
// Configuration is read from a TOML or YAML file (selected by extension),
// starting from built-in defaults, with CLEWN_* environment variables
// applied last. A missing file is not an error; the defaults apply.
//
// The Watcher reloads the file on change so sign colors and log levels
// can be adjusted while a session is running.
package config
