// Package dto holds the request and response bodies of the HTTP API and
// the hand-written mappings between them and the model types.
package dto

import "github.com/iliyamo/book-api/internal/model"

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	UserName string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /api/registeruser.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	UserName    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// AdminRegisterRequest is the body of POST /api/registeradmin. Roles are
// granted in addition to Admin.
type AdminRegisterRequest struct {
	RegisterRequest
	Roles []string `json:"roles"`
}

// RefreshRequest carries an expired access token and its refresh token.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RegistrationResult reports the outcome of a registration attempt.
type RegistrationResult struct {
	Succeeded bool     `json:"succeeded"`
	Errors    []string `json:"errors"`
}

type RegisterResponse struct {
	Message string             `json:"message"`
	Result  RegistrationResult `json:"result"`
}

type LoginResponse struct {
	Message string          `json:"message"`
	Token   model.TokenPair `json:"token"`
}

// ToUser maps the registration body onto a new user without password hash
// or roles; the caller fills those in.
func (r RegisterRequest) ToUser() model.User {
	return model.User{
		UserName:    r.UserName,
		Email:       r.Email,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		PhoneNumber: r.PhoneNumber,
	}
}
