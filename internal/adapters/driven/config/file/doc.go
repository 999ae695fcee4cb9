// Package file persists docagent settings and secrets in a TOML file,
// by default ~/.docagent/config.toml.
//
// Keys use dot notation ("backup.bucket"); each dotted prefix becomes a
// TOML table on disk.
package file
