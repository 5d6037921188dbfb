package mapping

import (
	"context"
	"errors"
)

// ErrMappingNotFound indicates no persisted mapping exists under the name.
var ErrMappingNotFound = errors.New("mapping: not found")

// Store persists named mappings between runs.
type Store interface {
	// Find loads the mapping saved under the name, or ErrMappingNotFound.
	Find(ctx context.Context, name string) (*Collection, error)

	// Save persists the collection under the name, replacing any previous
	// version.
	Save(ctx context.Context, name string, c *Collection) error
}
