// Package cli implements the command-line interface for gigcal.
//
// The cli package provides the Cobra-based root command, merges flags over
// the YAML config file, configures logging and prints a text or JSON run
// summary. The process exit code reflects whether any event was written.
package cli
