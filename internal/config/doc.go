// Package config provides configuration management for ytmp3.
//
// This package handles:
//   - Loading settings from JSON or YAML files
//   - YTMP3_* environment overrides
//   - Default configuration values
//   - Validation of ranges and formats
//   - Conversion to the configuration types of other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Separators "-" and "—"
//	// Song lookup against the public iTunes Search API
//	// Cover art embedded, fitted into 600x600
//
// # Loading from File
//
//	settings, err := config.Load("") // ~/.config/ytmp3/config.json
//	if err != nil {
//	    // the file exists but is malformed, or a value is out of range
//	}
//
// A missing file is not an error. Environment variables win over the
// file:
//
//	YTMP3_BITRATE=192 YTMP3_SEPARATORS="-,|" ytmp3 <url>
//
// # Saving Settings
//
//	settings.Bitrate = 256
//	err := settings.Save("~/.config/ytmp3/config.json")
package config
