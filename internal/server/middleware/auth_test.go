package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/usersvc/internal/server/token"
	"github.com/akarpov/usersvc/pkg/api"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tokens := token.NewServiceWithClock("test-secret", func() time.Time { return base })

	valid, err := tokens.Issue(42)
	require.NoError(t, err)

	otherSecret := token.NewServiceWithClock("other-secret", func() time.Time { return base })
	foreign, err := otherSecret.Issue(42)
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      string
		clock       time.Time
		wantStatus  int
		wantMessage string
		wantUserID  int64
	}{
		{name: "valid token", header: "Bearer " + valid, clock: base, wantStatus: http.StatusOK, wantUserID: 42},
		{name: "lowercase bearer", header: "bearer " + valid, clock: base, wantStatus: http.StatusOK, wantUserID: 42},
		{name: "no header", header: "", clock: base, wantStatus: http.StatusUnauthorized, wantMessage: "Authorization token not provided"},
		{name: "no scheme", header: valid, clock: base, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "empty token after scheme", header: "Bearer ", clock: base, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "garbage token", header: "Bearer not-a-token", clock: base, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "wrong secret", header: "Bearer " + foreign, clock: base, wantStatus: http.StatusUnauthorized, wantMessage: "Invalid token"},
		{name: "expired token", header: "Bearer " + valid, clock: base.Add(token.SessionTTL + time.Minute), wantStatus: http.StatusUnauthorized, wantMessage: "Expired token"},
		{name: "token at window edge", header: "Bearer " + valid, clock: base.Add(token.SessionTTL - time.Minute), wantStatus: http.StatusOK, wantUserID: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := tt.clock
			verifier := token.NewServiceWithClock("test-secret", func() time.Time { return clock })

			var gotUserID int64
			var called bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUserID, _ = UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(testLogger(), verifier.Verify)(next)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.True(t, called)
				assert.Equal(t, tt.wantUserID, gotUserID)
				return
			}

			assert.False(t, called)

			var errResp api.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
			assert.Equal(t, tt.wantMessage, errResp.Message)
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := UserIDFromContext(req.Context())
	assert.False(t, ok)
}
