// Package token выпускает и проверяет сессионные токены.
// Токен — подписанный JWT (HS256) с фиксированным окном действия 7 дней.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL — окно действия сессии, expiresAt = createdAt + SessionTTL.
const SessionTTL = 7 * 24 * time.Hour

var (
	// ErrMissing возвращается, когда токен не передан
	ErrMissing = errors.New("token not provided")
	// ErrMalformed возвращается при неверной подписи или нечитаемых полях
	ErrMalformed = errors.New("malformed token")
	// ErrExpired возвращается, когда срок действия токена истек
	ErrExpired = errors.New("token expired")
)

// Claims представляет полезную нагрузку сессионного токена.
// CreatedAt и ExpiresAt хранятся в миллисекундах epoch.
type Claims struct {
	UserID    int64 `json:"userId"`
	CreatedAt int64 `json:"createdAt"`
	ExpiresAt int64 `json:"expiresAt"`
	jwt.RegisteredClaims
}

// Service выпускает и проверяет токены одним process-wide секретом.
// Секрет загружается один раз при старте и не ротируется.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService создает новый сервис токенов.
func NewService(secret string) *Service {
	return &Service{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewServiceWithClock создает сервис с фиксированными часами (для тестов).
func NewServiceWithClock(secret string, now func() time.Time) *Service {
	return &Service{
		secret: []byte(secret),
		now:    now,
	}
}

// Issue выпускает подписанный токен для пользователя.
// При фиксированных часах и секрете результат детерминирован.
func (s *Service) Issue(userID int64) (string, error) {
	createdAt := s.now()
	expiresAt := createdAt.Add(SessionTTL)

	claims := Claims{
		UserID:    userID,
		CreatedAt: createdAt.UnixMilli(),
		ExpiresAt: expiresAt.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify проверяет подпись и срок действия токена, возвращает id пользователя.
func (s *Service) Verify(tokenString string) (int64, error) {
	if tokenString == "" {
		return 0, ErrMissing
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpired
		}
		return 0, ErrMalformed
	}

	if !parsed.Valid {
		return 0, ErrMalformed
	}

	// Дублирующая проверка по пользовательскому полю expiresAt,
	// чтобы срок действия не зависел только от registered claims
	if s.now().UnixMilli() > claims.ExpiresAt {
		return 0, ErrExpired
	}

	return claims.UserID, nil
}
