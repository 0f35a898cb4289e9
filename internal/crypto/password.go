// Package crypto содержит односторонее хеширование паролей.
// Пароли хранятся и передаются только в виде bcrypt-хеша.
package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost — стоимость bcrypt (соль генерируется на каждый хеш).
const PasswordCost = 12

// HashPassword хеширует пароль с использованием bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword проверяет пароль против сохраненного хеша.
// Несовпадение не является ошибкой: возвращается false.
func VerifyPassword(plain, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(secret), []byte(plain)) == nil
}
