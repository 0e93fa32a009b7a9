// Package service holds the business logic behind the HTTP handlers: the
// token service for registration, login and refresh, and the book and
// category services.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"go.uber.org/zap"

	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/fault"
	"github.com/iliyamo/book-api/internal/model"
	"github.com/iliyamo/book-api/internal/queue"
	"github.com/iliyamo/book-api/internal/repository"
	"github.com/iliyamo/book-api/internal/utils"
)

// Messages returned to clients by the token service.
const (
	MsgInvalidRefreshToken = "Invalid refresh token."
	MsgInvalidCredentials  = "Invalid username or password."
	msgUserRegFailed       = "User registration failed."
	msgAdminRegFailed      = "Admin registration failed."
	minPasswordLength      = 6
	allowedUserNameChars   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+"
)

// UserStore looks up and creates principals.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByName(ctx context.Context, name string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error
}

// RefreshTokenStore persists the refresh token hash kept per principal.
type RefreshTokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	SwapRefresh(ctx context.Context, userID uint64, oldHash, newHash string, exp time.Time) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// AuthDeps are the shared, read-only collaborators of AuthService. One
// value is built at startup; every request gets its own AuthService on
// top of it.
type AuthDeps struct {
	Users      UserStore
	Tokens     RefreshTokenStore
	Hasher     PasswordHasher
	JWT        utils.JWTSettings
	RefreshTTL time.Duration
	Events     EventPublisher
	Log        *zap.Logger
	Now        func() time.Time
}

// AuthService issues and rotates token pairs for one request.
type AuthService struct {
	deps *AuthDeps
}

// NewAuthService returns a request-scoped token service.
func NewAuthService(deps *AuthDeps) *AuthService {
	return &AuthService{deps: deps}
}

func (s *AuthService) now() time.Time {
	if s.deps.Now != nil {
		return s.deps.Now()
	}
	return time.Now()
}

func (s *AuthService) log() *zap.Logger {
	if s.deps.Log != nil {
		return s.deps.Log
	}
	return zap.NewNop()
}

// RegisterUser creates a principal with the User role.
func (s *AuthService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (dto.RegistrationResult, error) {
	return s.register(ctx, req, []string{model.RoleUser}, nil, msgUserRegFailed)
}

// RegisterAdmin creates a principal with the Admin role plus any requested
// known roles. An unknown role fails the registration.
func (s *AuthService) RegisterAdmin(ctx context.Context, req dto.AdminRegisterRequest) (dto.RegistrationResult, error) {
	roles := []string{model.RoleAdmin}
	var errs []string
	for _, r := range req.Roles {
		switch r {
		case model.RoleAdmin, model.RoleUser:
			if !slices.Contains(roles, r) {
				roles = append(roles, r)
			}
		default:
			errs = append(errs, fmt.Sprintf("Role '%s' does not exist.", r))
		}
	}
	return s.register(ctx, req.RegisterRequest, roles, errs, msgAdminRegFailed)
}

func (s *AuthService) register(ctx context.Context, req dto.RegisterRequest, roles, errs []string, failMsg string) (dto.RegistrationResult, error) {
	errs = append(errs, passwordErrors(req.Password)...)
	errs = append(errs, userNameErrors(req.UserName)...)

	if _, err := s.deps.Users.GetByName(ctx, req.UserName); err == nil {
		errs = append(errs, fmt.Sprintf("Username '%s' is already taken.", req.UserName))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return dto.RegistrationResult{}, fmt.Errorf("lookup user: %w", err)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, fmt.Sprintf("Email '%s' is invalid.", email))
	} else if _, err := s.deps.Users.GetByEmail(ctx, email); err == nil {
		errs = append(errs, fmt.Sprintf("Email '%s' is already taken.", email))
	} else if !errors.Is(err, repository.ErrNotFound) {
		return dto.RegistrationResult{}, fmt.Errorf("lookup email: %w", err)
	}

	if len(errs) > 0 {
		return failedRegistration(failMsg, errs)
	}

	hash, err := s.deps.Hasher.Hash(req.Password)
	if err != nil {
		return dto.RegistrationResult{}, fmt.Errorf("hash password: %w", err)
	}
	u := req.ToUser()
	u.Email = email
	u.PasswordHash = hash
	u.Roles = roles
	u.CreatedAt = s.now().UTC()

	switch err := s.deps.Users.Create(ctx, &u); {
	case errors.Is(err, repository.ErrUserNameTaken):
		return failedRegistration(failMsg, []string{fmt.Sprintf("Username '%s' is already taken.", u.UserName)})
	case errors.Is(err, repository.ErrEmailTaken):
		return failedRegistration(failMsg, []string{fmt.Sprintf("Email '%s' is already taken.", u.Email)})
	case err != nil:
		return dto.RegistrationResult{}, fmt.Errorf("create user: %w", err)
	}

	s.publish(ctx, queue.EventUserRegistered, u)
	return dto.RegistrationResult{Succeeded: true, Errors: []string{}}, nil
}

func failedRegistration(msg string, errs []string) (dto.RegistrationResult, error) {
	res := dto.RegistrationResult{Succeeded: false, Errors: errs}
	return res, fault.BadRequest(msg + " " + strings.Join(errs, " "))
}

func passwordErrors(pw string) []string {
	var errs []string
	if len([]rune(pw)) < minPasswordLength {
		errs = append(errs, fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength))
	}
	if !strings.ContainsFunc(pw, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errs = append(errs, "Passwords must have at least one digit ('0'-'9').")
	}
	if !strings.ContainsFunc(pw, unicode.IsLower) {
		errs = append(errs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !strings.ContainsFunc(pw, unicode.IsUpper) {
		errs = append(errs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return errs
}

func userNameErrors(name string) []string {
	for _, r := range name {
		if !strings.ContainsRune(allowedUserNameChars, r) {
			return []string{fmt.Sprintf("Username '%s' is invalid, can only contain letters or digits.", name)}
		}
	}
	return nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// ValidateCredentials reports whether name and password identify a
// principal. Unknown names and wrong passwords both yield false; an error
// is returned only when the store fails. Unknown names are still checked
// against a dummy hash so both failures cost about the same.
func (s *AuthService) ValidateCredentials(ctx context.Context, name, password string) (model.User, bool, error) {
	u, err := s.deps.Users.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		dummyHashOnce.Do(func() { dummyHash, _ = s.deps.Hasher.Hash("not-a-real-password") })
		_ = s.deps.Hasher.Verify(dummyHash, password)
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("lookup user: %w", err)
	}
	if !s.deps.Hasher.Verify(u.PasswordHash, password) {
		return model.User{}, false, nil
	}

	now := s.now().UTC()
	if err := s.deps.Users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return model.User{}, false, fmt.Errorf("update last login: %w", err)
	}
	u.LastLoginAt = now
	s.publish(ctx, queue.EventUserLoggedIn, u)
	return u, true, nil
}

// IssueTokenPair signs a new access token and stores a fresh refresh token
// for u. With rotateRefreshExpiry the refresh window restarts at
// now+RefreshTTL; otherwise the previously stored expiry is kept. Stamping
// the expiry with the issuance time instead would make the new refresh
// token unusable the moment it is returned, so that behavior is not kept.
func (s *AuthService) IssueTokenPair(ctx context.Context, u model.User, rotateRefreshExpiry bool) (model.TokenPair, error) {
	exp := u.RefreshTokenExpiry
	if rotateRefreshExpiry {
		exp = s.now().Add(s.deps.RefreshTTL)
	}
	pair, hash, err := s.newPair(u)
	if err != nil {
		return model.TokenPair{}, err
	}
	if err := s.deps.Tokens.StoreRefresh(ctx, u.ID, hash, exp); err != nil {
		return model.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

// RefreshTokenPair exchanges an access token, whose lifetime is not
// checked, and its current refresh token for a new pair. The stored token
// is replaced with compare-and-swap, so of two concurrent refreshes with
// the same token only one succeeds.
func (s *AuthService) RefreshTokenPair(ctx context.Context, accessToken, refreshToken string) (model.TokenPair, error) {
	invalid := fault.InvalidToken(MsgInvalidRefreshToken)

	claims, err := utils.ParseAccessToken(s.deps.JWT, accessToken, false)
	if err != nil {
		return model.TokenPair{}, invalid
	}
	u, err := s.deps.Users.GetByName(ctx, claims.Name)
	if errors.Is(err, repository.ErrNotFound) {
		return model.TokenPair{}, invalid
	}
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	presented := utils.HashRefreshRaw(refreshToken)
	if u.RefreshTokenHash == "" ||
		subtle.ConstantTimeCompare([]byte(u.RefreshTokenHash), []byte(presented)) != 1 ||
		!u.RefreshTokenExpiry.After(s.now()) {
		return model.TokenPair{}, invalid
	}

	pair, hash, err := s.newPair(u)
	if err != nil {
		return model.TokenPair{}, err
	}
	switch err := s.deps.Tokens.SwapRefresh(ctx, u.ID, u.RefreshTokenHash, hash, u.RefreshTokenExpiry); {
	case errors.Is(err, repository.ErrRefreshTokenMismatch):
		return model.TokenPair{}, invalid
	case err != nil:
		return model.TokenPair{}, fmt.Errorf("swap refresh token: %w", err)
	}

	s.publish(ctx, queue.EventTokenRefreshed, u)
	return pair, nil
}

// newPair returns a signed access token, a raw refresh token and the hash
// under which the refresh token is stored.
func (s *AuthService) newPair(u model.User) (model.TokenPair, string, error) {
	access, err := utils.NewAccessToken(s.deps.JWT, u.UserName, u.Roles, s.now())
	if err != nil {
		return model.TokenPair{}, "", fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := utils.NewRefreshToken()
	if err != nil {
		return model.TokenPair{}, "", fmt.Errorf("generate refresh token: %w", err)
	}
	return model.TokenPair{AccessToken: access.Token, RefreshToken: refresh}, utils.HashRefreshRaw(refresh), nil
}

// publish emits an auth event. Failures are logged and never fail the
// request.
func (s *AuthService) publish(ctx context.Context, t queue.EventType, u model.User) {
	if s.deps.Events == nil {
		return
	}
	ev := queue.NewAuthEvent(t, u.UserName, u.Roles, s.now())
	if err := s.deps.Events.Publish(ctx, ev); err != nil {
		s.log().Warn("publish auth event failed", zap.String("type", string(t)), zap.Error(err))
	}
}
