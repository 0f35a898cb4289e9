package models

import "time"

// User представляет учетную запись пользователя
type User struct {
	ID             int64     `json:"id"`       // назначается хранилищем, неизменяемый
	Name           string    `json:"name"`     // отображаемое имя
	Username       string    `json:"username"` // уникальный username
	Email          string    `json:"email"`    // уникальный email
	PasswordSecret string    `json:"-"`        // bcrypt хеш пароля, никогда не сериализуется наружу
	CreatedAt      time.Time `json:"created_at"`
}
