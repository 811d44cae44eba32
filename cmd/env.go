package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader looks up typed settings and remembers every value it could not
// parse. An unset or empty variable takes the default.
type envReader struct {
	errs []error
}

func (r *envReader) lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (r *envReader) fail(key, value string, err error) {
	r.errs = append(r.errs, fmt.Errorf("%s: cannot parse %q: %w", key, value, err))
}

func (r *envReader) String(key, defaultVal string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultVal
}

func (r *envReader) Int(key string, defaultVal int) int {
	value, ok := r.lookup(key)
	if !ok {
		return defaultVal
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		r.fail(key, value, err)
		return defaultVal
	}
	return v
}

func (r *envReader) Bool(key string, defaultVal bool) bool {
	value, ok := r.lookup(key)
	if !ok {
		return defaultVal
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(key, value, err)
		return defaultVal
	}
	return v
}

// Duration wants a unit: "15" is rejected rather than read as nanoseconds.
func (r *envReader) Duration(key string, defaultVal time.Duration) time.Duration {
	value, ok := r.lookup(key)
	if !ok {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		r.fail(key, value, err)
		return defaultVal
	}
	return d
}

func (r *envReader) StringSlice(key string, defaults []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		filtered := make([]string, 0, len(parts))
		for _, part := range parts {
			if p := strings.TrimSpace(part); p != "" {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			return filtered
		}
	}
	return defaults
}
