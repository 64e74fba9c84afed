package contracts

import "time"

// Config is a read-only tree addressed by dotted keys such as "modules.storage.driver".
// Typed getters return the first default, or the zero value, when a key is missing or
// cannot be converted.
type Config interface {
	Has(key string) bool
	Get(key string) any
	All() map[string]any
	GetSub(key string) (Config, bool)

	GetString(key string, defaultVal ...string) string
	GetBool(key string, defaultVal ...bool) bool
	GetInt(key string, defaultVal ...int) int
	GetInt64(key string, defaultVal ...int64) int64
	GetFloat64(key string, defaultVal ...float64) float64
	GetDuration(key string, defaultVal ...time.Duration) time.Duration
	GetStringSlice(key string, separator ...string) []string
}
