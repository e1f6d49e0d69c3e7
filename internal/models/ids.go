package models

import "github.com/google/uuid"

// newID returns a fresh opaque identifier for rows created without one.
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
