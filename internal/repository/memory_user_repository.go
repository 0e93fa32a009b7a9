package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/book-api/internal/model"
)

// MemoryUserRepo keeps users in process memory. It satisfies the same
// contracts as UserRepo and TokenRepo, including the refresh token
// compare-and-swap, and is used when STORE_DRIVER=memory and in tests.
type MemoryUserRepo struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byID: make(map[uint64]*model.User)}
}

// Create assigns an id to u. User names and emails are unique ignoring case,
// matching the default MySQL collation.
func (r *MemoryUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if strings.EqualFold(existing.UserName, u.UserName) {
			return ErrUserNameTaken
		}
		if strings.EqualFold(existing.Email, strings.TrimSpace(u.Email)) {
			return ErrEmailTaken
		}
	}
	r.nextID++
	u.ID = r.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := cloneUser(*u)
	stored.Email = strings.TrimSpace(stored.Email)
	r.byID[u.ID] = &stored
	return nil
}

func (r *MemoryUserRepo) GetByName(_ context.Context, name string) (model.User, error) {
	return r.find(func(u *model.User) bool { return strings.EqualFold(u.UserName, name) })
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.TrimSpace(email)
	return r.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *MemoryUserRepo) UpdateLastLogin(_ context.Context, id uint64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLoginAt = at.UTC()
	return nil
}

func (r *MemoryUserRepo) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.RefreshTokenHash = tokenHash
	u.RefreshTokenExpiry = exp.UTC()
	return nil
}

// SwapRefresh mirrors TokenRepo.SwapRefresh under the repo mutex.
func (r *MemoryUserRepo) SwapRefresh(_ context.Context, userID uint64, oldHash, newHash string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok || u.RefreshTokenHash == "" || u.RefreshTokenHash != oldHash {
		return ErrRefreshTokenMismatch
	}
	u.RefreshTokenHash = newHash
	u.RefreshTokenExpiry = exp.UTC()
	return nil
}

func (r *MemoryUserRepo) find(match func(*model.User) bool) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			return cloneUser(*u), nil
		}
	}
	return model.User{}, ErrNotFound
}

func cloneUser(u model.User) model.User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}
