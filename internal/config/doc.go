// Package config loads, normalizes, and validates the Cutroom configuration
// file.
//
// Configuration is TOML with defaults applied before parsing, so a missing or
// partial file still produces a usable Config. Path fields are tilde-expanded
// and converted to absolute paths during normalization. Validation rejects
// values the editor or batch engine cannot operate with; it does not check
// that external binaries exist, which is deferred to first use.
package config
