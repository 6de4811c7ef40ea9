// Package config defines the application configuration and loads it from
// the environment and an optional config file.
package config
