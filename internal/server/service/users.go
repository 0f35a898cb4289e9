// Package service реализует операции жизненного цикла учетной записи.
// Каждая операция — тонкий валидационный шлюз перед хранилищем: проверки
// выполняются до любых побочных эффектов, ошибки проходят наверх без изменений.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/server/mail"
	"github.com/akarpov/usersvc/internal/server/storage"
	"github.com/akarpov/usersvc/internal/server/token"
	"github.com/akarpov/usersvc/internal/validation"
)

const notifyTimeout = 10 * time.Second

// Service оркестрирует операции над учетными записями.
// Экземпляр не хранит состояния между вызовами и безопасен для
// конкурентного использования.
type Service struct {
	users    storage.UserStorage
	tokens   *token.Service
	mailer   mail.Mailer
	mailFrom string
	logger   *slog.Logger
}

// New создает сервис учетных записей.
func New(users storage.UserStorage, tokens *token.Service, mailer mail.Mailer, mailFrom string, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		mailFrom: mailFrom,
		logger:   logger,
	}
}

// List возвращает всех пользователей, новые первыми.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Find возвращает пользователя по id.
func (s *Service) Find(ctx context.Context, id int64) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Create создает пользователя и отправляет приветственное письмо.
// Письмо отправляется fire-and-forget: его неудача не откатывает создание.
func (s *Service) Create(ctx context.Context, name, username, email, password string) (int64, error) {
	if name == "" {
		return 0, validationErr("name", "name is required")
	}
	if username == "" {
		return 0, validationErr("username", "username is required")
	}
	if !validation.ValidUsername(username) {
		return 0, validationErr("username", "invalid username")
	}
	if email == "" {
		return 0, validationErr("email", "email is required")
	}
	if password == "" {
		return 0, validationErr("password", "password is required")
	}

	id, err := s.users.Create(ctx, name, username, email, password)
	if err != nil {
		return 0, err
	}

	s.notifyWelcome(email)

	return id, nil
}

// Update обновляет данные пользователя. Пустой пароль оставляет прежний.
func (s *Service) Update(ctx context.Context, id int64, name, username, email, password string) error {
	if name == "" {
		return validationErr("name", "name is required")
	}
	if username == "" {
		return validationErr("username", "username is required")
	}
	if !validation.ValidUsername(username) {
		return validationErr("username", "invalid username")
	}
	if email == "" {
		return validationErr("email", "email is required")
	}
	if id == 0 {
		return validationErr("id", "user not identified")
	}

	// Существование проверяется до изменения, отсутствие — NotFound
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	return s.users.Update(ctx, id, name, username, email, password)
}

// UpdatePassword заменяет пароль пользователя.
func (s *Service) UpdatePassword(ctx context.Context, password string, id int64) error {
	if password == "" {
		return validationErr("password", "password is required")
	}
	if id == 0 {
		return validationErr("id", "user not identified")
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, password, id)
}

// Authenticate проверяет учетные данные и выпускает сессионный токен.
func (s *Service) Authenticate(ctx context.Context, usernameOrEmail, password string) (string, error) {
	if usernameOrEmail == "" {
		return "", validationErr("usernameOrEmail", "username or email is required")
	}
	if password == "" {
		return "", validationErr("password", "password is required")
	}

	id, err := s.users.Authenticate(ctx, usernameOrEmail, password)
	if err != nil {
		return "", err
	}

	return s.tokens.Issue(id)
}

// VerifySession проверяет сессионный токен и возвращает id пользователя.
// Используется транспортом для защиты мутирующих операций.
func (s *Service) VerifySession(tokenString string) (int64, error) {
	return s.tokens.Verify(tokenString)
}

// Delete удаляет пользователя по id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return validationErr("id", "user not identified")
	}

	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}

	return s.users.Delete(ctx, id)
}

// notifyWelcome отправляет приветственное письмо в отдельной горутине.
// Результат наблюдается только для диагностики.
func (s *Service) notifyWelcome(email string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		msg := mail.Message{
			From:     s.mailFrom,
			To:       email,
			Subject:  "Welcome!",
			HTMLBody: "<h1>Welcome!</h1>",
		}

		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn("failed to send welcome mail", slog.Any("error", err))
		}
	}()
}
