// Package store persists rendered diagrams for the serve mode.
//
// Two backends are provided:
//   - memory: in-memory storage for development and testing
//   - mongo: MongoDB-backed storage for deployments that need persistence
//
// A Diagram record holds the source spec together with the rendered artifact
// so a stored diagram can be fetched again without re-running the pipeline.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a diagram does not exist.
var ErrNotFound = errors.New("diagram not found")

// Diagram is a stored render result.
type Diagram struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Spec      string    `json:"spec" bson:"spec"`
	Format    string    `json:"format" bson:"format"`
	Artifact  []byte    `json:"artifact" bson:"artifact"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Get retrieves a diagram by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Diagram, error)

	// Put stores a diagram, replacing any existing record with the same ID.
	Put(ctx context.Context, d *Diagram) error

	// Delete removes a diagram. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// List returns stored diagrams ordered by creation time, newest first.
	List(ctx context.Context, limit int) ([]*Diagram, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
