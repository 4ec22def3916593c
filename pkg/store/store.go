// Package store persists computed layouts so they can be fetched and
// rendered again later.
//
// Three backends implement [Store]:
//   - [MemoryStore]: in-process storage for tests and single-instance servers
//   - [FileStore]: one JSON file per layout, for the CLI
//   - [MongoStore]: a MongoDB collection, for servers that share layouts
//
// # Usage
//
//	s, err := store.NewMongoStore(ctx, store.MongoOptions{
//	    URI:      "mongodb://localhost:27017",
//	    Database: "chartlayout",
//	})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Save(ctx, &layout); err != nil {
//	    return err
//	}
//	stored, err := s.Get(ctx, layout.ID)
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/errors"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Store is the interface for layout storage backends.
type Store interface {
	// Save stores l. An empty ID is filled with a new one, and an empty
	// CreatedAt with the current time. Saving an existing ID replaces it.
	Save(ctx context.Context, l *chartdoc.Layout) error

	// Get returns the layout with id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*chartdoc.Layout, error)

	// List returns up to limit layouts, newest first.
	List(ctx context.Context, limit int) ([]chartdoc.Layout, error)

	// Delete removes a layout. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// NewID returns a new layout id.
func NewID() string {
	return uuid.NewString()
}

// prepare fills the id and creation time of a layout about to be saved.
func prepare(l *chartdoc.Layout) error {
	if l == nil {
		return errors.New(errors.ErrCodeInvalidData, "layout is nil")
	}
	if l.ID == "" {
		l.ID = NewID()
	} else if err := ValidateID(l.ID); err != nil {
		return err
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now()
	}
	return nil
}

// ValidateID rejects ids that are not UUIDs.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidData, err, "invalid layout id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
