package cache

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCacheMiss is returned by Get when a key is absent or expired.
var ErrCacheMiss = errors.New("cache: miss")

// encode turns a cached value into the string stored under its key.
// Strings and byte slices are stored as-is, anything else as JSON.
func encode(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("cache: encode %T: %w", value, err)
	}
	return string(data), nil
}
