package idgen

import (
	"github.com/google/uuid"
)

// New generates a generic UUID (request IDs and similar)
func New() string {
	return uuid.New().String()
}

// NewState generates an OAuth state nonce
func NewState() string {
	return uuid.New().String()
}
