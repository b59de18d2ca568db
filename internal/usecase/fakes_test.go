package usecase

import (
	"context"
	"sync"
	"time"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/utils"

	"github.com/google/uuid"
)

func testConfig() *utils.Config {
	return &utils.Config{
		JWT: utils.JWTConfig{
			AccessSecret:     "unit-test-access-secret-0123456789ab",
			RefreshSecret:    "unit-test-refresh-secret-0123456789a",
			AccessTTL:        15 * time.Minute,
			RefreshTTL:       720 * time.Hour,
			RefreshTokenSalt: "unit-test-salt-01",
		},
		Admin: utils.AdminConfig{
			DefaultPassword: "1234",
		},
	}
}

func testRepository() *repository.Repository {
	return &repository.Repository{
		User:         newFakeUserRepo(),
		RefreshToken: newFakeRefreshRepo(),
	}
}

// ---------- fake user repository ----------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByPhone(ctx context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Phone != nil && *user.Phone == phone {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Username != nil && *user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpsertByPhone(ctx context.Context, phone string, name *string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Phone != nil && *user.Phone == phone {
			if name != nil {
				user.Name = name
			}
			clone := *user
			return &clone, nil
		}
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Phone:    &phone,
		Name:     name,
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	f.users[user.ID] = user

	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

// ---------- fake refresh token repository ----------

type fakeRefreshRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*entity.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: make(map[uuid.UUID]*entity.RefreshToken)}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, token *entity.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *token
	f.records[token.ID] = &clone
	return nil
}

func (f *fakeRefreshRepo) FindActiveByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range f.records {
		if record.TokenHash == tokenHash && record.RevokedAt == nil {
			clone := *record
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeRefreshRepo) Revoke(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[id]
	if !ok || record.RevokedAt != nil {
		return false, nil
	}

	now := time.Now()
	record.RevokedAt = &now
	return true, nil
}

func (f *fakeRefreshRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range f.records {
		if record.TokenHash == tokenHash && record.RevokedAt == nil {
			now := time.Now()
			record.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRefreshRepo) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range f.records {
		if record.UserID == userID && record.RevokedAt == nil {
			now := time.Now()
			record.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeRefreshRepo) all() []*entity.RefreshToken {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := make([]*entity.RefreshToken, 0, len(f.records))
	for _, record := range f.records {
		clone := *record
		records = append(records, &clone)
	}
	return records
}
