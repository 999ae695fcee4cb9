package driven

// ConfigStore holds user settings and secrets (API keys, backup
// credentials). Values set here win over the environment. Keys are dotted
// paths such as "backup.bucket".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns the value as text; "" when unset.
	GetString(key string) string

	// GetInt returns 0 when unset or not numeric.
	GetInt(key string) int

	// GetBool returns false when unset or not a boolean.
	GetBool(key string) bool

	// GetStringSlice returns nil unless the value is a list.
	GetStringSlice(key string) []string

	// Keys lists every set key, sorted.
	Keys() []string

	// Set stores and persists a value.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the settings live, for display.
	Path() string
}
