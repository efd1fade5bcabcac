package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gridwell/snftrack/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is a Repository backed by GORM (SQLite or PostgreSQL).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an already-opened and migrated *gorm.DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func (s *GormStore) GetFacility(id string) (model.Facility, error) {
	var f model.Facility
	if err := s.db.Where("facility_id = ?", id).First(&f).Error; err != nil {
		return model.Facility{}, mapErr(err)
	}
	return f, nil
}

func (s *GormStore) ListFacilities() ([]model.Facility, error) {
	var out []model.Facility
	if err := s.db.Order("facility_id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFacility inserts f, fully replacing an existing record with the
// same facility_id (last-write-wins re-import semantics).
func (s *GormStore) CreateFacility(f model.Facility) (model.Facility, error) {
	f.Normalize()
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "facility_id"}},
		UpdateAll: true,
	}).Create(&f).Error
	if err != nil {
		return model.Facility{}, err
	}
	return f, nil
}

func (s *GormStore) UpdateFacility(id string, patch model.FacilityPatch) (model.Facility, error) {
	var f model.Facility
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("facility_id = ?", id).First(&f).Error; err != nil {
			return mapErr(err)
		}
		patch.Apply(&f)
		return tx.Save(&f).Error
	})
	if err != nil {
		return model.Facility{}, err
	}
	return f, nil
}

// UpsertProgress is atomic at the database level: an insert-or-ignore on
// the facility_id unique index followed by a read-merge-save inside one
// transaction. Concurrent saves for the same facility converge on a
// single row.
func (s *GormStore) UpsertProgress(in model.FacilityProgress) (model.FacilityProgress, error) {
	var rec model.FacilityProgress
	err := s.db.Transaction(func(tx *gorm.DB) error {
		seed := model.FacilityProgress{FacilityID: in.FacilityID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "facility_id"}},
			DoNothing: true,
		}).Create(&seed).Error; err != nil {
			return err
		}
		if err := tx.Where("facility_id = ?", in.FacilityID).First(&rec).Error; err != nil {
			return mapErr(err)
		}
		rec.Merge(in)
		return tx.Save(&rec).Error
	})
	if err != nil {
		return model.FacilityProgress{}, err
	}
	return rec, nil
}

func (s *GormStore) GetProgressByFacility(facilityID string) (model.FacilityProgress, error) {
	var p model.FacilityProgress
	if err := s.db.Where("facility_id = ?", facilityID).First(&p).Error; err != nil {
		return model.FacilityProgress{}, mapErr(err)
	}
	return p, nil
}

func (s *GormStore) ListProgress() ([]model.FacilityProgress, error) {
	var out []model.FacilityProgress
	if err := s.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) GetUserByID(id int64) (model.User, error) {
	var u model.User
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		return model.User{}, mapErr(err)
	}
	return u, nil
}

func (s *GormStore) GetUserByUsername(username string) (model.User, error) {
	var u model.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return model.User{}, mapErr(err)
	}
	return u, nil
}

// CreateUser relies on the username unique index rather than a
// check-then-insert, so concurrent registrations cannot both succeed.
func (s *GormStore) CreateUser(u model.User) (model.User, error) {
	u.Normalize()
	if err := s.db.Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return model.User{}, ErrDuplicate
		}
		return model.User{}, err
	}
	return u, nil
}

func (s *GormStore) ListUsers() ([]model.User, error) {
	var out []model.User
	if err := s.db.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func mapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation catches constraint errors from drivers that do not
// translate into gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed") ||
		strings.Contains(msg, "constraint failed")
}
