package driven

// ConfigStore holds docqa's persisted settings as dotted keys
// ("chunking.size", "llm.provider"). Implementations own the on-disk
// format and coerce hand-edited values to the requested type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	// GetString returns "" for missing or non-string values.
	GetString(key string) string

	// GetInt returns 0 for missing or non-numeric values.
	GetInt(key string) int

	// GetFloat returns 0 for missing or non-numeric values.
	GetFloat(key string) float64

	// Set stores a value and persists it before returning.
	Set(key string, value any) error

	// Save flushes all values to storage.
	Save() error

	// Load replaces the in-memory values with those in storage.
	Load() error

	// Path is where the settings live; ":memory:" for non-persistent stores.
	Path() string
}
