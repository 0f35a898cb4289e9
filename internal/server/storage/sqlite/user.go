package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akarpov/usersvc/internal/crypto"
	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/server/storage"
)

// usernameTaken проверяет, занят ли username другим пользователем.
// excludeID исключает обновляемую запись из проверки (0 при создании).
func (s *Storage) usernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	query := `SELECT id FROM users WHERE username = ? AND id != ? LIMIT 1`

	var id int64
	err := s.db.QueryRowContext(ctx, query, username, excludeID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return true, nil
}

// emailTaken проверяет, занят ли email другим пользователем.
func (s *Storage) emailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	query := `SELECT id FROM users WHERE email = ? AND id != ? LIMIT 1`

	var id int64
	err := s.db.QueryRowContext(ctx, query, email, excludeID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return true, nil
}

// mapConstraintError превращает нарушение UNIQUE-ограничения в sentinel ошибку.
// Сюда попадает гонка двух одновременных создателей: оба прошли проверку,
// но запись одного из них отклоняет constraint.
func mapConstraintError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return storage.ErrUsernameTaken
	case strings.Contains(msg, "users.email"):
		return storage.ErrEmailTaken
	default:
		return err
	}
}

// List returns all users ordered by id, newest first
func (s *Storage) List(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, name, username, email, created_at
		FROM users
		ORDER BY id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Username, &user.Email, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// FindByID retrieves a user by id, password secret excluded
func (s *Storage) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, name, username, email, created_at
		FROM users
		WHERE id = ?
	`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Username,
		&user.Email,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Create inserts a new user and returns the assigned id
func (s *Storage) Create(ctx context.Context, name, username, email, password string) (int64, error) {
	// Проверки уникальности идут в фиксированном порядке:
	// сначала username, затем email; первая неудачная прерывает операцию
	taken, err := s.usernameTaken(ctx, username, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, storage.ErrUsernameTaken
	}

	taken, err = s.emailTaken(ctx, email, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, storage.ErrEmailTaken
	}

	secret, err := crypto.HashPassword(password)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO users (name, username, email, password, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query, name, username, email, secret, time.Now().UTC())
	if err != nil {
		return 0, mapConstraintError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return id, nil
}

// Update modifies a user record; an empty password leaves the secret unchanged
func (s *Storage) Update(ctx context.Context, id int64, name, username, email, password string) error {
	taken, err := s.usernameTaken(ctx, username, id)
	if err != nil {
		return err
	}
	if taken {
		return storage.ErrUsernameTaken
	}

	taken, err = s.emailTaken(ctx, email, id)
	if err != nil {
		return err
	}
	if taken {
		return storage.ErrEmailTaken
	}

	if password != "" {
		secret, err := crypto.HashPassword(password)
		if err != nil {
			return err
		}

		query := `UPDATE users SET name = ?, username = ?, email = ?, password = ? WHERE id = ?`
		if _, err := s.db.ExecContext(ctx, query, name, username, email, secret, id); err != nil {
			return mapConstraintError(err)
		}
		return nil
	}

	query := `UPDATE users SET name = ?, username = ?, email = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, name, username, email, id); err != nil {
		return mapConstraintError(err)
	}

	return nil
}

// UpdatePassword re-hashes and replaces the password unconditionally
func (s *Storage) UpdatePassword(ctx context.Context, password string, id int64) error {
	secret, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	query := `UPDATE users SET password = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, secret, id); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// Authenticate verifies credentials by exact username or email match.
// Unknown identifier and wrong password return the same error.
func (s *Storage) Authenticate(ctx context.Context, usernameOrEmail, password string) (int64, error) {
	query := `
		SELECT id, password
		FROM users
		WHERE username = ? OR email = ?
		LIMIT 1
	`

	var (
		id     int64
		secret string
	)
	err := s.db.QueryRowContext(ctx, query, usernameOrEmail, usernameOrEmail).Scan(&id, &secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrInvalidCredentials
		}
		return 0, fmt.Errorf("failed to look up user: %w", err)
	}

	if !crypto.VerifyPassword(password, secret) {
		return 0, storage.ErrInvalidCredentials
	}

	return id, nil
}

// Delete removes a user by id; deleting a missing id is not an error here
func (s *Storage) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
