// Package config loads the optional YAML file that supplies defaults for the
// digest CLI. Command-line flags take precedence over file values.
package config
