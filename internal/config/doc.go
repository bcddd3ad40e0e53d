// Package config defines the application configuration structure and its
// loader. Configuration comes from an optional YAML file plus environment
// variables and is validated on load.
package config
