package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values as durations at a fixed unit, so
// config files can say `ttl_seconds: 120` instead of "2m0s" strings.
type TimeConfig interface {
	// GetSecond reads the value for key as a count of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the value for key as a count of minutes.
	GetMinute(key string) time.Duration

	// GetHour reads the value for key as a count of hours.
	GetHour(key string) time.Duration

	// GetDay reads the value for key as a count of 24-hour days.
	GetDay(key string) time.Duration
}

// SignedIntConfig reads signed integer values. Missing or
// unconvertible keys yield the zero value.
type SignedIntConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
}

// UnsignedIntConfig reads unsigned integer values. Missing or
// unconvertible keys yield the zero value.
type UnsignedIntConfig interface {
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
}

// FloatConfig reads floating-point values. Missing or unconvertible
// keys yield the zero value.
type FloatConfig interface {
	GetFloat32(key string) float32
	GetFloat64(key string) float64
}

// Config is the typed read surface the application uses for all
// configuration. Lookups never fail; absent keys come back as the
// type's zero value, so defaults are handled at the call site.
type Config interface {
	io.Closer
	TimeConfig
	SignedIntConfig
	UnsignedIntConfig
	FloatConfig

	// GetBool reads the value for key as a bool.
	GetBool(key string) bool

	// GetString reads the value for key as a string.
	GetString(key string) string

	// GetBinary reads a base64-encoded value and returns the decoded
	// bytes, or nil when decoding fails.
	GetBinary(key string) []byte

	// GetArray reads a comma-separated value as a string slice.
	GetArray(key string) []string

	// GetMap reads a "key1:val1,key2:val2" value as a string map.
	GetMap(key string) map[string]string
}
