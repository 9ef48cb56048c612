package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier with a type prefix,
// e.g. GenerateID("bid") -> "bid-3f1c...".
func GenerateID(prefix string) string {
	return prefix + "-" + uuid.New().String()
}
