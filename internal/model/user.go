package model

import "time"

// Role names known to the service.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User represents a principal as stored in the `users` table together with
// its rows in `user_roles`. Each field corresponds to a column.
//
// Fields:
//  ID                 - primary key identifier of the user.
//  UserName           - unique login name.
//  Email              - unique email address.
//  FirstName          - optional given name.
//  LastName           - optional family name.
//  PhoneNumber        - optional phone number.
//  PasswordHash       - bcrypt hashed password.
//  Roles              - role names from user_roles.
//  RefreshTokenHash   - SHA-256 hex of the current refresh token, empty when none was issued.
//  RefreshTokenExpiry - instant after which the refresh token is stale.
//  CreatedAt          - timestamp of creation.
//  LastLoginAt        - timestamp of the last successful credential check.
type User struct {
	ID                 uint64    // users.id
	UserName           string    // users.user_name
	Email              string    // users.email
	FirstName          string    // users.first_name
	LastName           string    // users.last_name
	PhoneNumber        string    // users.phone_number
	PasswordHash       string    // users.password_hash
	Roles              []string  // user_roles.role
	RefreshTokenHash   string    // users.refresh_token_hash
	RefreshTokenExpiry time.Time // users.refresh_token_expires_at
	CreatedAt          time.Time // users.created_at
	LastLoginAt        time.Time // users.last_login_at
}

// TokenPair is what login and refresh hand back to the client. The access
// token is a signed JWT; the refresh token is opaque and stored against the
// user.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
