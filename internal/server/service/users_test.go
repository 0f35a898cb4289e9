package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/usersvc/internal/server/mail"
	"github.com/akarpov/usersvc/internal/server/storage"
	"github.com/akarpov/usersvc/internal/server/storage/memory"
	"github.com/akarpov/usersvc/internal/server/token"
)

// recordingMailer запоминает отправленные письма и сигналит о каждом.
type recordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	sent     chan struct{}
	fail     bool
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan struct{}, 10)}
}

func (m *recordingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	m.messages = append(m.messages, msg)
	m.mu.Unlock()
	m.sent <- struct{}{}

	if m.fail {
		return assert.AnError
	}
	return nil
}

func (m *recordingMailer) waitForSend(t *testing.T) mail.Message {
	t.Helper()

	select {
	case <-m.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("welcome mail was not sent")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[len(m.messages)-1]
}

func setupService(t *testing.T) (*Service, *recordingMailer) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := token.NewService("test-secret")
	mailer := newRecordingMailer()
	svc := New(memory.New(), tokens, mailer, "noreply@example.com", logger)

	return svc, mailer
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc, mailer := setupService(t)

	id, err := svc.Create(ctx, "Ann", "ann_1", "a@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	msg := mailer.waitForSend(t)
	assert.Equal(t, "noreply@example.com", msg.From)
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, "Welcome!", msg.Subject)
	assert.Equal(t, "<h1>Welcome!</h1>", msg.HTMLBody)
}

func TestService_Create_MailFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	svc, mailer := setupService(t)
	mailer.fail = true

	id, err := svc.Create(ctx, "Ann", "ann_1", "a@x.com", "secret1")
	require.NoError(t, err)
	mailer.waitForSend(t)

	user, err := svc.Find(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ann_1", user.Username)
}

func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	tests := []struct {
		name      string
		userName  string
		username  string
		email     string
		password  string
		wantField string
	}{
		{name: "missing name", userName: "", username: "ann_1", email: "a@x.com", password: "secret1", wantField: "name"},
		{name: "missing username", userName: "Ann", username: "", email: "a@x.com", password: "secret1", wantField: "username"},
		{name: "invalid username", userName: "Ann", username: "ann..1", email: "a@x.com", password: "secret1", wantField: "username"},
		{name: "missing email", userName: "Ann", username: "ann_1", email: "", password: "secret1", wantField: "email"},
		{name: "missing password", userName: "Ann", username: "ann_1", email: "a@x.com", password: "", wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.userName, tt.username, tt.email, tt.password)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestService_Create_ValidationBeforeUniqueness(t *testing.T) {
	ctx := context.Background()
	svc, mailer := setupService(t)

	_, err := svc.Create(ctx, "Ann", "ann_1", "a@x.com", "secret1")
	require.NoError(t, err)
	mailer.waitForSend(t)

	// Невалидный формат имени сообщается раньше занятости email
	_, err = svc.Create(ctx, "Bob", "bad__name", "a@x.com", "secret2")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "username", vErr.Field)
}

func TestService_Create_NoMailOnFailure(t *testing.T) {
	ctx := context.Background()
	svc, mailer := setupService(t)

	_, err := svc.Create(ctx, "Ann", "ann_1", "a@x.com", "secret1")
	require.NoError(t, err)
	mailer.waitForSend(t)

	_, err = svc.Create(ctx, "Ann2", "ann_1", "b@x.com", "secret2")
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	select {
	case <-mailer.sent:
		t.Fatal("welcome mail sent for failed creation")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestService_Update_RequiresExistingUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	err := svc.Update(ctx, 42, "Ann", "ann_1", "a@x.com", "")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestService_Update_UnidentifiedUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	err := svc.Update(ctx, 0, "Ann", "ann_1", "a@x.com", "")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "id", vErr.Field)
}

func TestService_UpdatePassword_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	err := svc.UpdatePassword(ctx, "", 1)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)

	err = svc.UpdatePassword(ctx, "newsecret", 42)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestService_Authenticate_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Authenticate(ctx, "", "secret1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "usernameOrEmail", vErr.Field)

	_, err = svc.Authenticate(ctx, "ann_1", "")
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)
}

func TestService_Delete_Unknown(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	err := svc.Delete(ctx, 42)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

// TestService_AccountLifecycle проходит полный путь учетной записи:
// регистрация, вход, смена пароля, удаление.
func TestService_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, mailer := setupService(t)

	id, err := svc.Create(ctx, "Ann", "ann_1", "a@x.com", "secret1")
	require.NoError(t, err)
	mailer.waitForSend(t)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "ann_1", users[0].Username)

	// Повторная регистрация с тем же username отклоняется
	_, err = svc.Create(ctx, "Ann2", "ann_1", "b@x.com", "secret2")
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	tokenString, err := svc.Authenticate(ctx, "ann_1", "secret1")
	require.NoError(t, err)

	verifiedID, err := svc.VerifySession(tokenString)
	require.NoError(t, err)
	assert.Equal(t, id, verifiedID)

	err = svc.UpdatePassword(ctx, "newsecret", verifiedID)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "ann_1", "secret1")
	assert.ErrorIs(t, err, storage.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ann_1", "newsecret")
	require.NoError(t, err)

	err = svc.Delete(ctx, id)
	require.NoError(t, err)

	_, err = svc.Find(ctx, id)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	// Повторное удаление того же id — NotFound
	err = svc.Delete(ctx, id)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
