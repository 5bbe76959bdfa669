package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Varun5711/devcamper/internal/geo"
	"github.com/Varun5711/devcamper/internal/models"
	usermodel "github.com/Varun5711/devcamper/internal/models/user"
)

// MemoryUserStorage keeps users in process. It mirrors UserStorage semantics,
// including the case-insensitive email uniqueness.
type MemoryUserStorage struct {
	mu    sync.RWMutex
	users map[string]*usermodel.User
}

func NewMemoryUserStorage() *MemoryUserStorage {
	return &MemoryUserStorage{
		users: make(map[string]*usermodel.User),
	}
}

func cloneUser(u *usermodel.User) *usermodel.User {
	c := *u
	if u.ResetTokenHash != nil {
		h := *u.ResetTokenHash
		c.ResetTokenHash = &h
	}
	if u.ResetTokenExpiry != nil {
		e := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &e
	}
	return &c
}

func (s *MemoryUserStorage) emailTaken(email, exceptID string) bool {
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *MemoryUserStorage) CreateUser(ctx context.Context, user *usermodel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(user.Email, "") {
		return ErrDuplicateEmail
	}

	now := time.Now()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *MemoryUserStorage) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStorage) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *MemoryUserStorage) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *MemoryUserStorage) UpdateDetails(ctx context.Context, userID, name, email string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, ErrUserNotFound
	}
	if s.emailTaken(email, userID) {
		return nil, ErrDuplicateEmail
	}

	u.Name = name
	u.Email = strings.ToLower(email)
	u.UpdatedAt = time.Now()
	return cloneUser(u), nil
}

func (s *MemoryUserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}

	u.PasswordHash = passwordHash
	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryUserStorage) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}

	u.ResetTokenHash = &tokenHash
	u.ResetTokenExpiry = &expiresAt
	return nil
}

func (s *MemoryUserStorage) ClearResetToken(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, exists := s.users[userID]
	if !exists {
		return ErrUserNotFound
	}

	u.ResetTokenHash = nil
	u.ResetTokenExpiry = nil
	return nil
}

type MemoryBootcampStorage struct {
	mu        sync.RWMutex
	bootcamps map[string]*models.Bootcamp
}

func NewMemoryBootcampStorage() *MemoryBootcampStorage {
	return &MemoryBootcampStorage{
		bootcamps: make(map[string]*models.Bootcamp),
	}
}

func cloneBootcamp(b *models.Bootcamp) *models.Bootcamp {
	c := *b
	if b.Location != nil {
		loc := *b.Location
		c.Location = &loc
	}
	c.Careers = append([]string(nil), b.Careers...)
	return &c
}

func (s *MemoryBootcampStorage) nameTaken(name, exceptID string) bool {
	for _, b := range s.bootcamps {
		if b.ID != exceptID && b.Name == name {
			return true
		}
	}
	return false
}

// sorted returns bootcamps newest first; callers must hold the lock.
func (s *MemoryBootcampStorage) sorted() []*models.Bootcamp {
	list := make([]*models.Bootcamp, 0, len(s.bootcamps))
	for _, b := range s.bootcamps {
		list = append(list, b)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

func (s *MemoryBootcampStorage) Create(ctx context.Context, b *models.Bootcamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(b.Name, "") {
		return ErrDuplicateBootcamp
	}

	b.CreatedAt = time.Now()
	s.bootcamps[b.ID] = cloneBootcamp(b)
	return nil
}

func (s *MemoryBootcampStorage) GetByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, exists := s.bootcamps[id]
	if !exists {
		return nil, nil
	}
	return cloneBootcamp(b), nil
}

func (s *MemoryBootcampStorage) List(ctx context.Context, limit, offset int) ([]*models.Bootcamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	out := make([]*models.Bootcamp, 0, end-offset)
	for _, b := range all[offset:end] {
		out = append(out, cloneBootcamp(b))
	}
	return out, nil
}

func (s *MemoryBootcampStorage) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bootcamps), nil
}

func (s *MemoryBootcampStorage) CountByUser(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bootcamps {
		if b.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryBootcampStorage) Update(ctx context.Context, b *models.Bootcamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.bootcamps[b.ID]
	if !exists {
		return ErrBootcampNotFound
	}
	if s.nameTaken(b.Name, b.ID) {
		return ErrDuplicateBootcamp
	}

	updated := cloneBootcamp(b)
	updated.UserID = existing.UserID
	updated.Photo = existing.Photo
	updated.CreatedAt = existing.CreatedAt
	s.bootcamps[b.ID] = updated
	return nil
}

func (s *MemoryBootcampStorage) UpdatePhoto(ctx context.Context, id, photo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, exists := s.bootcamps[id]
	if !exists {
		return ErrBootcampNotFound
	}
	b.Photo = photo
	return nil
}

func (s *MemoryBootcampStorage) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bootcamps[id]; !exists {
		return ErrBootcampNotFound
	}
	delete(s.bootcamps, id)
	return nil
}

func (s *MemoryBootcampStorage) WithinRadius(ctx context.Context, lat, lng, radius float64) ([]*models.Bootcamp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Bootcamp
	for _, b := range s.sorted() {
		if b.Location == nil {
			continue
		}
		if geo.AngularDistance(lat, lng, b.Location.Latitude, b.Location.Longitude) <= radius {
			out = append(out, cloneBootcamp(b))
		}
	}
	return out, nil
}
