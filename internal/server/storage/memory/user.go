// Package memory содержит потокобезопасную in-memory реализацию UserStorage.
// Используется в тестах и как бэкенд для локальных запусков без файла БД.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/akarpov/usersvc/internal/crypto"
	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/server/storage"
)

// Storage хранит пользователей в памяти процесса.
type Storage struct {
	mu     sync.RWMutex
	users  map[int64]models.User
	nextID int64 // монотонно растет, id удаленных не переиспользуются
}

// New создает пустое in-memory хранилище.
func New() *Storage {
	return &Storage{
		users:  make(map[int64]models.User),
		nextID: 1,
	}
}

func (s *Storage) usernameTaken(username string, excludeID int64) bool {
	for id, u := range s.users {
		if id != excludeID && strings.EqualFold(u.Username, username) {
			return true
		}
	}
	return false
}

func (s *Storage) emailTaken(email string, excludeID int64) bool {
	for id, u := range s.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// List returns all users ordered by id, newest first
func (s *Storage) List(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		u.PasswordSecret = ""
		users = append(users, u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].ID > users[j].ID
	})

	return users, nil
}

// FindByID retrieves a user by id, password secret excluded
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	u.PasswordSecret = ""
	return &u, nil
}

// Create inserts a new user and returns the assigned id
func (s *Storage) Create(ctx context.Context, name, username, email, password string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Порядок проверок фиксирован: сначала username, затем email
	if s.usernameTaken(username, 0) {
		return 0, storage.ErrUsernameTaken
	}
	if s.emailTaken(email, 0) {
		return 0, storage.ErrEmailTaken
	}

	secret, err := crypto.HashPassword(password)
	if err != nil {
		return 0, err
	}

	id := s.nextID
	s.nextID++

	s.users[id] = models.User{
		ID:             id,
		Name:           name,
		Username:       username,
		Email:          email,
		PasswordSecret: secret,
		CreatedAt:      time.Now().UTC(),
	}

	return id, nil
}

// Update modifies a user record; an empty password leaves the secret unchanged
func (s *Storage) Update(ctx context.Context, id int64, name, username, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usernameTaken(username, id) {
		return storage.ErrUsernameTaken
	}
	if s.emailTaken(email, id) {
		return storage.ErrEmailTaken
	}

	u, ok := s.users[id]
	if !ok {
		return nil
	}

	u.Name = name
	u.Username = username
	u.Email = email

	if password != "" {
		secret, err := crypto.HashPassword(password)
		if err != nil {
			return err
		}
		u.PasswordSecret = secret
	}

	s.users[id] = u
	return nil
}

// UpdatePassword re-hashes and replaces the password unconditionally
func (s *Storage) UpdatePassword(ctx context.Context, password string, id int64) error {
	secret, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil
	}

	u.PasswordSecret = secret
	s.users[id] = u
	return nil
}

// Authenticate verifies credentials by username or email match.
// Идентификатор сравнивается без учета регистра, как и в sqlite-схеме.
func (s *Storage) Authenticate(ctx context.Context, usernameOrEmail, password string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, usernameOrEmail) || strings.EqualFold(u.Email, usernameOrEmail) {
			if !crypto.VerifyPassword(password, u.PasswordSecret) {
				return 0, storage.ErrInvalidCredentials
			}
			return u.ID, nil
		}
	}

	return 0, storage.ErrInvalidCredentials
}

// Delete removes a user by id; deleting a missing id is not an error here
func (s *Storage) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}
