package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
	"github.com/custodia-labs/justgo-bridge/internal/core/ports/driven"
)

// Ensure UserStore implements the interface.
var _ driven.LocalUserStore = (*UserStore)(nil)

// UserStore is an in-memory implementation of driven.LocalUserStore.
// Emails are matched case-insensitively.
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]domain.LocalUser
	byEmail map[string]string
	now     func() time.Time
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]domain.LocalUser),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

// Add inserts or replaces a user. An empty ID is assigned.
func (s *UserStore) Add(user domain.LocalUser) domain.LocalUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	user.UpdatedAt = s.now()
	s.users[user.ID] = user
	s.byEmail[emailKey(user.Email)] = user.ID
	return user
}

// UpdateOrCreateByEmail upserts a user keyed on email.
func (s *UserStore) UpdateOrCreateByEmail(
	_ context.Context, email string, fields domain.LocalUserFields,
) (*domain.LocalUser, bool, error) {
	if strings.TrimSpace(email) == "" {
		return nil, false, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	user, created := domain.LocalUser{}, true
	if id, ok := s.byEmail[emailKey(email)]; ok {
		user, created = s.users[id], false
	} else {
		user = domain.LocalUser{ID: uuid.New().String(), Email: email, CreatedAt: now}
	}

	user.FirstName = fields.FirstName
	user.LastName = fields.LastName
	user.Phone = fields.Phone
	user.DateOfBirth = fields.DateOfBirth
	user.IsActive = fields.IsActive
	user.UpdatedAt = now

	s.users[user.ID] = user
	s.byEmail[emailKey(email)] = user.ID
	return &user, created, nil
}

// SaveLinkage stamps JustGo identifiers onto a user.
func (s *UserStore) SaveLinkage(_ context.Context, userID string, link domain.JustGoLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	user.JustGoMemberID = link.MemberID
	user.JustGoMemberDocID = link.MemberDocID
	user.JustGoMID = link.MID
	user.JustGoSyncedAt = link.SyncedAt
	user.UpdatedAt = s.now()
	s.users[userID] = user
	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(_ context.Context, id string) (*domain.LocalUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.LocalUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := s.users[id]
	return &user, nil
}

// List returns all users ordered by email.
func (s *UserStore) List(_ context.Context) ([]domain.LocalUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.LocalUser, 0, len(s.users))
	for _, user := range s.users {
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool {
		return emailKey(result[i].Email) < emailKey(result[j].Email)
	})
	return result, nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
