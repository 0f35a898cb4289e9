package validation

import "regexp"

// Допустимые символы username: латинские буквы, цифры, подчеркивание и точка.
// Запрещены смежные пары: "_.", "._", "..", "__".
var (
	usernameCharset   = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	forbiddenAdjacent = regexp.MustCompile(`(_\.)|(\._)|(\.\.)|(__)`)
)

// ValidUsername проверяет, что username соответствует требованиям.
// Пустая строка невалидна; проверка на обязательность поля делается выше.
func ValidUsername(username string) bool {
	return usernameCharset.MatchString(username) &&
		!forbiddenAdjacent.MatchString(username)
}
