package store

import (
	"sync"

	"github.com/gridwell/snftrack/internal/model"
)

// MemoryStore is an in-memory Repository. Data does not survive a process
// restart. Facilities keep stable insertion order so re-imported records
// stay at their original position.
type MemoryStore struct {
	mu             sync.RWMutex
	facilityOrder  []string
	facilities     map[string]model.Facility
	progress       []model.FacilityProgress
	nextProgressID int64
	users          []model.User
	nextUserID     int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		facilities:     make(map[string]model.Facility),
		nextProgressID: 1,
		nextUserID:     1,
	}
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetFacility(id string) (model.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facilities[id]
	if !ok {
		return model.Facility{}, ErrNotFound
	}
	return f, nil
}

func (s *MemoryStore) ListFacilities() ([]model.Facility, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Facility, 0, len(s.facilityOrder))
	for _, id := range s.facilityOrder {
		out = append(out, s.facilities[id])
	}
	return out, nil
}

// CreateFacility stores f, fully replacing any record with the same
// facility_id (last-write-wins; the original position is kept).
func (s *MemoryStore) CreateFacility(f model.Facility) (model.Facility, error) {
	f.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[f.FacilityID]; !ok {
		s.facilityOrder = append(s.facilityOrder, f.FacilityID)
	}
	s.facilities[f.FacilityID] = f
	return f, nil
}

func (s *MemoryStore) UpdateFacility(id string, patch model.FacilityPatch) (model.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return model.Facility{}, ErrNotFound
	}
	patch.Apply(&f)
	s.facilities[id] = f
	return f, nil
}

// UpsertProgress performs the existence check and the write under one lock
// hold, so concurrent saves for the same facility can never produce two
// records.
func (s *MemoryStore) UpsertProgress(in model.FacilityProgress) (model.FacilityProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.progress {
		if s.progress[i].FacilityID == in.FacilityID {
			s.progress[i].Merge(in)
			return s.progress[i], nil
		}
	}
	rec := model.FacilityProgress{ID: s.nextProgressID, FacilityID: in.FacilityID}
	rec.Merge(in)
	s.nextProgressID++
	s.progress = append(s.progress, rec)
	return rec, nil
}

func (s *MemoryStore) GetProgressByFacility(facilityID string) (model.FacilityProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.progress {
		if s.progress[i].FacilityID == facilityID {
			return s.progress[i], nil
		}
	}
	return model.FacilityProgress{}, ErrNotFound
}

func (s *MemoryStore) ListProgress() ([]model.FacilityProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FacilityProgress, len(s.progress))
	copy(out, s.progress)
	return out, nil
}

func (s *MemoryStore) GetUserByID(id int64) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			return s.users[i], nil
		}
	}
	return model.User{}, ErrNotFound
}

func (s *MemoryStore) GetUserByUsername(username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].Username == username {
			return s.users[i], nil
		}
	}
	return model.User{}, ErrNotFound
}

// CreateUser checks username uniqueness and inserts under one lock hold.
func (s *MemoryStore) CreateUser(u model.User) (model.User, error) {
	u.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Username == u.Username {
			return model.User{}, ErrDuplicate
		}
	}
	u.ID = s.nextUserID
	s.nextUserID++
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryStore) ListUsers() ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out, nil
}
