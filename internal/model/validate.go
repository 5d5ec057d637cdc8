package model

import (
	"fmt"
	"strings"
)

// ValidationError はリクエスト送信前のフォーム検証エラーです
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

type field struct {
	name  string
	value string
}

func requireAll(fields ...field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Reason: "required"}
		}
	}
	return nil
}

func (r LoginRequest) Validate() error {
	return requireAll(field{"email", r.Email}, field{"password", r.Password})
}

func (r RegisterRequest) Validate() error {
	if err := requireAll(
		field{"name", r.Name},
		field{"email", r.Email},
		field{"password", r.Password},
		field{"role", r.Role},
	); err != nil {
		return err
	}
	if r.Password != r.PasswordConfirmation {
		return &ValidationError{Field: "password_confirmation", Reason: "does not match"}
	}
	return nil
}
