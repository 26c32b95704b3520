package config

import "os"

const (
	EnvModerationDictionaryPath = "WARDEN_MODERATION_DICTIONARY_PATH"
	EnvModerationDictionaryBlob = "WARDEN_MODERATION_DICTIONARY_BLOB"
)

// ModerationConfig selects where keyword dictionaries are loaded from. A blob
// key takes precedence over a file path; with neither, the built-in
// dictionaries are used.
type ModerationConfig struct {
	DictionaryPath string `toml:"dictionary_path"`
	DictionaryBlob string `toml:"dictionary_blob"`
}

// Finalize applies environment variable overrides.
func (c *ModerationConfig) Finalize() error {
	if v := os.Getenv(EnvModerationDictionaryPath); v != "" {
		c.DictionaryPath = v
	}
	if v := os.Getenv(EnvModerationDictionaryBlob); v != "" {
		c.DictionaryBlob = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ModerationConfig) Merge(overlay *ModerationConfig) {
	if overlay.DictionaryPath != "" {
		c.DictionaryPath = overlay.DictionaryPath
	}
	if overlay.DictionaryBlob != "" {
		c.DictionaryBlob = overlay.DictionaryBlob
	}
}
