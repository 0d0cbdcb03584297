package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// ErrScanValueNotBytes means the database handed Scan a value it
// cannot interpret as JSON.
var ErrScanValueNotBytes = errors.New("valueobject: jsonmap scan value is not []byte")

// JSONMap is a free-form JSON object that round-trips through a jsonb
// column. Notification payloads use it for per-event metadata.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (j JSONMap) Value() (driver.Value, error) {
	return json.Marshal(j)
}

// Scan implements sql.Scanner. A nil column becomes an empty map
// rather than a nil one.
func (j *JSONMap) Scan(value any) error {
	if value == nil {
		*j = JSONMap{}
		return nil
	}

	var raw []byte

	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case json.RawMessage:
		raw = []byte(v)
	case map[string]any:
		// some drivers decode jsonb before handing it over
		*j = JSONMap(v)
		return nil
	default:
		return ErrScanValueNotBytes
	}

	var result JSONMap
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}

	*j = result
	return nil
}

// Set stores value under key, replacing any existing entry.
func (j JSONMap) Set(key string, value any) {
	j[key] = value
}

// SetIfAbsent stores value only when key is not already present.
func (j JSONMap) SetIfAbsent(key string, value any) {
	if _, exists := j[key]; !exists {
		j[key] = value
	}
}

// Get returns the raw value for key, or nil.
func (j JSONMap) Get(key string) any {
	return j[key]
}

// Has reports whether key is present.
func (j JSONMap) Has(key string) bool {
	_, ok := j[key]
	return ok
}

// GetString returns the value for key when it is a string, else "".
func (j JSONMap) GetString(key string) string {
	if v, ok := j[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns the value for key as an int. Numbers decoded from
// JSON arrive as float64, so both forms are accepted.
func (j JSONMap) GetInt(key string) int {
	switch v := j[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

// GetInt64 returns the value for key as an int64, accepting the same
// forms as GetInt.
func (j JSONMap) GetInt64(key string) int64 {
	switch v := j[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

// GetBool returns the value for key when it is a bool, else false.
func (j JSONMap) GetBool(key string) bool {
	if v, ok := j[key].(bool); ok {
		return v
	}
	return false
}
