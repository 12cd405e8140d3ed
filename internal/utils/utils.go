package utils

import "github.com/google/uuid"

// GenerateUUID returns a new random task identifier
func GenerateUUID() string {
	return uuid.NewString()
}
