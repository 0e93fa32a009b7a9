package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/fault"
	"github.com/iliyamo/book-api/internal/service"
)

// AuthHandler serves registration, login and token refresh. Every request
// gets its own AuthService built from the shared dependencies.
type AuthHandler struct {
	deps *service.AuthDeps
}

func NewAuthHandler(deps *service.AuthDeps) *AuthHandler {
	if deps == nil {
		panic("nil dependencies passed to NewAuthHandler")
	}
	return &AuthHandler{deps: deps}
}

// RegisterUser creates a principal with the User role.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req dto.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	res, err := service.NewAuthService(h.deps).RegisterUser(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.RegisterResponse{Message: "User registered successfully.", Result: res})
}

// RegisterAdmin creates a principal with the Admin role plus any requested
// roles.
func (h *AuthHandler) RegisterAdmin(c echo.Context) error {
	var req dto.AdminRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	res, err := service.NewAuthService(h.deps).RegisterAdmin(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.RegisterResponse{Message: "Admin registered successfully.", Result: res})
}

// Login verifies credentials and returns a fresh token pair. The refresh
// window restarts on every login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	svc := service.NewAuthService(h.deps)
	u, ok, err := svc.ValidateCredentials(ctx, req.UserName, req.Password)
	if err != nil {
		return err
	}
	if !ok {
		return fault.Unauthorized(service.MsgInvalidCredentials)
	}
	pair, err := svc.IssueTokenPair(ctx, u, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.LoginResponse{Message: "Login successful.", Token: pair})
}

// Refresh exchanges an access token and its refresh token for a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := service.NewAuthService(h.deps).RefreshTokenPair(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pair)
}
