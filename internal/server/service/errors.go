package service

import "fmt"

// ValidationError описывает ошибку валидации входных данных.
// Возвращается до обращения к хранилищу; клиент может исправить запрос.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
