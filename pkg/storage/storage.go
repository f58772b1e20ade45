// Package storage persists named structures in a local database so they can
// be reused across assembly runs. Each entry lives in one of three databases
// (MP, TP, TOWER) and holds a full bundle: segment table, added masses and
// metadata. Identifiers are unique per database.
package storage

import (
	"context"
	"time"

	errs "github.com/AaronLge/GeometrieConverter/pkg/errors"
	"github.com/AaronLge/GeometrieConverter/pkg/structure"
)

// Kind names one of the three structure databases.
type Kind string

const (
	KindMP    Kind = "MP"
	KindTP    Kind = "TP"
	KindTower Kind = "TOWER"
)

// Kinds lists all databases in display order.
var Kinds = []Kind{KindMP, KindTP, KindTower}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindMP, KindTP, KindTower:
		return Kind(s), nil
	}
	return "", errs.New(errs.ErrCodeInvalidInput, "unknown structure kind %q, expected MP, TP or TOWER", s)
}

// Entry is one row of a database listing.
type Entry struct {
	Kind            Kind      `json:"kind"`
	Identifier      string    `json:"identifier"`
	HeightReference string    `json:"height_reference,omitempty"`
	WaterDepth      *float64  `json:"water_depth_m,omitempty"`
	Sections        int       `json:"sections"`
	Masses          int       `json:"masses"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store is the named-structure database. Implementations return NOT_FOUND
// for missing identifiers and DUPLICATE_IDENTIFIER when a save or rename
// would collide.
type Store interface {
	// List returns the entries of one database, ordered by identifier.
	List(ctx context.Context, kind Kind) ([]Entry, error)

	// Get loads a stored structure as a full bundle.
	Get(ctx context.Context, kind Kind, identifier string) (structure.Bundle, error)

	// Save stores a new structure under its bundle identifier.
	Save(ctx context.Context, kind Kind, b structure.Bundle) error

	// Replace overwrites the structure stored under identifier with the
	// bundle, renaming it when the bundle carries a different identifier.
	Replace(ctx context.Context, kind Kind, identifier string, b structure.Bundle) error

	// Delete removes a stored structure.
	Delete(ctx context.Context, kind Kind, identifier string) error

	// Close releases the underlying database.
	Close() error
}
