package uid

import "github.com/google/uuid"

// UUID produces RFC 4122 identifier strings. It prefers version 7 so
// generated IDs sort roughly by creation time.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string, falling back to a random v4
// value if v7 generation fails.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
