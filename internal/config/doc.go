// Package config defines the setup-eli settings and provides helpers to load,
// validate and save them in YAML format.
//
// Settings come from three layers applied in order: an optional YAML file,
// the runner environment (tool cache and temp directories) and the pipeline
// step inputs. CLI flags are applied last by the command.
package config
