// Package cli parses command-line arguments into an app.Config and maps
// failures to process exit codes.
package cli
