// Package store provides the facility, progress, and user repositories.
// Two implementations exist: MemoryStore for tests and single-process use,
// and GormStore backed by SQLite or PostgreSQL.
package store

import (
	"errors"

	"github.com/gridwell/snftrack/internal/model"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a create collides with a uniqueness rule.
var ErrDuplicate = errors.New("already exists")

// Repository is the persistence contract used by the API layer. Handlers
// only ever see this interface; list methods return copies, never the
// backing collections.
type Repository interface {
	GetFacility(id string) (model.Facility, error)
	ListFacilities() ([]model.Facility, error)
	CreateFacility(f model.Facility) (model.Facility, error)
	UpdateFacility(id string, patch model.FacilityPatch) (model.Facility, error)

	// UpsertProgress creates or updates the single progress record for
	// in.FacilityID atomically. Non-nil incoming flags overwrite stored
	// ones; nil flags are left as they were.
	UpsertProgress(in model.FacilityProgress) (model.FacilityProgress, error)
	GetProgressByFacility(facilityID string) (model.FacilityProgress, error)
	ListProgress() ([]model.FacilityProgress, error)

	GetUserByID(id int64) (model.User, error)
	GetUserByUsername(username string) (model.User, error)
	// CreateUser requires u.Password to already be hashed by the caller.
	CreateUser(u model.User) (model.User, error)
	ListUsers() ([]model.User, error)

	Close() error
}
