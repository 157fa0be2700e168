// Package idgen generates opaque unique identifiers for persisted entities.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Entity prefixes for generated IDs.
const (
	TodoPrefix    = "todo"
	SubtaskPrefix = "sub"
	SharePrefix   = "shr"
)

// IDLength is the number of hex characters after the prefix.
const IDLength = 12

// Generate creates a new unique ID in the format "prefix-xxxxxxxxxxxx".
func Generate(prefix string) (string, error) {
	bytes := make([]byte, IDLength/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate ID: %w", err)
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(bytes)), nil
}

// MustGenerate creates a new unique ID, panicking on error.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(err)
	}
	return id
}
