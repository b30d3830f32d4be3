// Package preset reads and writes track selection presets.
//
// A preset is a JSON array with one object per track:
//
//	[{"Audio Track": "English", "Enabled": "1", "Volume": 100}, ...]
//
// Enabled is a numeric string. Only a non-empty run of decimal digits with a
// nonzero value decodes as enabled; every other value decodes as disabled.
// Existing preset files depend on that rule, so it is kept exactly. An optional
// "Source Index" key is written when a track's source stream index differs
// from its list position.
//
// Access to a preset file is serialized across processes with an advisory
// lock on a sibling ".lock" file.
package preset
