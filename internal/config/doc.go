// Package config loads, normalizes, and validates audiomerge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AUDIOMERGE_FFMPEG. The Config type centralizes the export and preset
// directories, ffmpeg locations, and encoder settings so the CLI resolves
// everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
