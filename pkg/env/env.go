// Package env reads raw process environment values for the few knobs
// that must be resolved before envconfig has parsed the full config.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or
// empty. An empty value is treated the same as an absent one.
func Get(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}
