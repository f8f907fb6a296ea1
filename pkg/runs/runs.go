// Package runs records completed mapping runs.
//
// A [Run] summarizes one mapping: the graph it was computed for, the target
// architecture, the strategy and the resulting cost. The full partition
// vector lives in the result cache; a run only keeps what is needed to list
// and compare past work.
//
// Two backends implement [Store]:
//   - [FileStore]: one JSON file per run, used by the CLI.
//   - [MongoStore]: a MongoDB collection, used by the API server.
//
// # Usage
//
//	store, err := runs.NewFileStore("")  // ~/.config/stackmap/runs/
//	if err != nil {
//	    return err
//	}
//	r := runs.New(graphHash)
//	r.Arch = "cmplt:8"
//	if err := store.Save(ctx, r); err != nil {
//	    return err
//	}
package runs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a run does not exist.
	ErrNotFound = errors.New("run not found")

	// ErrInvalidID is returned for identifiers that are not UUIDs.
	ErrInvalidID = errors.New("invalid run id")

	// ErrUnavailable is returned when a remote store cannot be reached.
	ErrUnavailable = errors.New("run store unavailable")
)

// DefaultListLimit bounds List when the caller passes a non-positive limit.
const DefaultListLimit = 20

// Run is the record of one completed mapping.
type Run struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	GraphHash string    `json:"graph_hash" bson:"graph_hash"`
	CacheKey  string    `json:"cache_key,omitempty" bson:"cache_key,omitempty"`

	Arch      string  `json:"arch" bson:"arch"`
	Strategy  string  `json:"strategy" bson:"strategy"`
	Imbalance float64 `json:"imbalance" bson:"imbalance"`
	Seed      uint64  `json:"seed" bson:"seed"`
	Threads   int     `json:"threads" bson:"threads"`

	Vertices     int `json:"vertices" bson:"vertices"`
	Edges        int `json:"edges" bson:"edges"`
	Domains      int `json:"domains" bson:"domains"`
	Bipartitions int `json:"bipartitions" bson:"bipartitions"`
	Fallbacks    int `json:"fallbacks" bson:"fallbacks"`
	MaxDepth     int `json:"max_depth" bson:"max_depth"`

	Comm      int     `json:"comm" bson:"comm"`
	Cut       int     `json:"cut" bson:"cut"`
	MaxLoad   int     `json:"max_load" bson:"max_load"`
	MinLoad   int     `json:"min_load" bson:"min_load"`
	LoadRatio float64 `json:"load_imbalance" bson:"load_imbalance"`

	Duration time.Duration `json:"duration_ns" bson:"duration_ns"`
	Cached   bool          `json:"cached" bson:"cached"`
}

// New returns a run with a fresh random ID and the current time.
func New(graphHash string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		GraphHash: graphHash,
	}
}

// ValidateID checks that id is a UUID, which also keeps it safe to use as
// a file name.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Store persists runs.
type Store interface {
	// Save inserts or replaces r.
	Save(ctx context.Context, r *Run) error

	// Get returns the run with the given ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}
