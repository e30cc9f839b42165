// Package config provides configuration management for musbconv.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Overlaying command line flags onto loaded settings
//   - Option range validation
//
// # Precedence
//
// Three layers, later wins:
//
//  1. Built-in defaults (DefaultSettings)
//  2. The settings file (Load)
//  3. Flags the user explicitly passed (ApplyFlags)
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if the file doesn't exist
//	}
//
// # Flag Overlay
//
//	config.BindFlags(cmd.Flags())
//	// after flag parsing:
//	settings.ApplyFlags(cmd.Flags())
//	if err := settings.Validate(); err != nil {
//	    // fatal setup error
//	}
package config
