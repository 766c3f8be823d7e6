// Package config holds the settings of a gedcom7import run and loads them
// from defaults, the .gedcom7import YAML file, the environment (including a
// .env file) and command line flags, in increasing order of precedence.
package config
