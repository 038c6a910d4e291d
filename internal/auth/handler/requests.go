package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	dErrors "carins/pkg/domainerrors"
)

// RegisterRequest is the HTTP request body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)

	if len(r.Username) < 3 || len(r.Username) > 50 {
		return dErrors.New(dErrors.CodeValidation, "username must be between 3 and 50 characters")
	}
	if len(r.Password) < 6 || len(r.Password) > 100 {
		return dErrors.New(dErrors.CodeValidation, "password must be between 6 and 100 characters")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be valid")
	}
	return nil
}

// LoginRequest is the HTTP request body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return dErrors.New(dErrors.CodeValidation, "username is required")
	}
	if r.Password == "" {
		return dErrors.New(dErrors.CodeValidation, "password is required")
	}
	return nil
}
