// Package cli parses command-line arguments into the application config.
package cli
