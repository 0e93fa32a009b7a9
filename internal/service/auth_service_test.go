package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/fault"
	"github.com/iliyamo/book-api/internal/model"
	"github.com/iliyamo/book-api/internal/queue"
	"github.com/iliyamo/book-api/internal/repository"
	"github.com/iliyamo/book-api/internal/utils"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.AuthEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type authFixture struct {
	deps  *AuthDeps
	users *repository.MemoryUserRepo
	pub   *recordingPublisher
	clock *clock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := repository.NewMemoryUserRepo()
	pub := &recordingPublisher{}
	clk := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	deps := &AuthDeps{
		Users:  users,
		Tokens: users,
		Hasher: utils.BcryptHasher{Cost: bcrypt.MinCost},
		JWT: utils.JWTSettings{
			Secret:   "a-very-long-test-secret-for-hs256-signing",
			Issuer:   "book-api",
			Audience: "book-api-clients",
			TTL:      15 * time.Minute,
		},
		RefreshTTL: 7 * 24 * time.Hour,
		Events:     pub,
		Now:        clk.Now,
	}
	return &authFixture{deps: deps, users: users, pub: pub, clock: clk}
}

func (f *authFixture) registerAlice(t *testing.T) {
	t.Helper()
	res, err := NewAuthService(f.deps).RegisterUser(context.Background(), dto.RegisterRequest{
		UserName: "alice", Password: "Secret1!", Email: "alice@example.com",
	})
	require.NoError(t, err)
	require.True(t, res.Succeeded)
}

func (f *authFixture) login(t *testing.T) model.TokenPair {
	t.Helper()
	svc := NewAuthService(f.deps)
	u, ok, err := svc.ValidateCredentials(context.Background(), "alice", "Secret1!")
	require.NoError(t, err)
	require.True(t, ok)
	pair, err := svc.IssueTokenPair(context.Background(), u, true)
	require.NoError(t, err)
	return pair
}

func TestRegisterUser_AssignsUserRole(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)

	u, err := f.users.GetByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, u.Roles)
	assert.NotEqual(t, "Secret1!", u.PasswordHash)
	assert.Equal(t, []queue.EventType{queue.EventUserRegistered}, f.pub.types())
}

func TestRegisterUser_IdentityRules(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	svc := NewAuthService(f.deps)

	cases := []struct {
		name string
		req  dto.RegisterRequest
		want []string
	}{
		{
			name: "weak password",
			req:  dto.RegisterRequest{UserName: "bob", Password: "abc", Email: "bob@example.com"},
			want: []string{
				"Passwords must be at least 6 characters.",
				"Passwords must have at least one digit ('0'-'9').",
				"Passwords must have at least one uppercase ('A'-'Z').",
			},
		},
		{
			name: "duplicate user name",
			req:  dto.RegisterRequest{UserName: "alice", Password: "Secret1!", Email: "other@example.com"},
			want: []string{"Username 'alice' is already taken."},
		},
		{
			name: "missing email",
			req:  dto.RegisterRequest{UserName: "bob", Password: "Secret1!"},
			want: []string{"Email '' is invalid."},
		},
		{
			name: "duplicate email",
			req:  dto.RegisterRequest{UserName: "bob", Password: "Secret1!", Email: "alice@example.com"},
			want: []string{"Email 'alice@example.com' is already taken."},
		},
		{
			name: "bad user name",
			req:  dto.RegisterRequest{UserName: "bo b", Password: "Secret1!", Email: "bob@example.com"},
			want: []string{"Username 'bo b' is invalid, can only contain letters or digits."},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.RegisterUser(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, fault.KindBadRequest, fault.KindOf(err))
			assert.False(t, res.Succeeded)
			assert.Equal(t, tc.want, res.Errors)

			var fe *fault.Error
			require.ErrorAs(t, err, &fe)
			assert.True(t, strings.HasPrefix(fe.Message, "User registration failed. "))
		})
	}
}

func TestRegisterAdmin_Roles(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewAuthService(f.deps)

	res, err := svc.RegisterAdmin(context.Background(), dto.AdminRegisterRequest{
		RegisterRequest: dto.RegisterRequest{UserName: "root", Password: "Secret1!", Email: "root@example.com"},
		Roles:           []string{"User", "Admin"},
	})
	require.NoError(t, err)
	assert.True(t, res.Succeeded)

	u, err := f.users.GetByName(context.Background(), "root")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleAdmin, model.RoleUser}, u.Roles)

	res, err = svc.RegisterAdmin(context.Background(), dto.AdminRegisterRequest{
		RegisterRequest: dto.RegisterRequest{UserName: "root2", Password: "Secret1!", Email: "root2@example.com"},
		Roles:           []string{"Superuser"},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"Role 'Superuser' does not exist."}, res.Errors)
	var fe *fault.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Admin registration failed. Role 'Superuser' does not exist.", fe.Message)

	_, err = svc.RegisterAdmin(context.Background(), dto.AdminRegisterRequest{
		RegisterRequest: dto.RegisterRequest{UserName: "bob", Password: "weak", Email: "bob@example.com"},
	})
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fault.KindBadRequest, fe.Kind)
	assert.True(t, strings.HasPrefix(fe.Message, "Admin registration failed. Passwords must be"))
}

func TestValidateCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	svc := NewAuthService(f.deps)
	ctx := context.Background()

	_, ok, err := svc.ValidateCredentials(ctx, "ghost", "Secret1!")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.ValidateCredentials(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	u, ok, err := svc.ValidateCredentials(ctx, "alice", "Secret1!")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", u.UserName)

	stored, err := f.users.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, f.clock.Now().Equal(stored.LastLoginAt))
}

type failingUsers struct{ UserStore }

func (failingUsers) GetByName(context.Context, string) (model.User, error) {
	return model.User{}, errors.New("connection refused")
}

func TestValidateCredentials_StoreFailureIsUnhandled(t *testing.T) {
	f := newAuthFixture(t)
	f.deps.Users = failingUsers{}

	_, ok, err := NewAuthService(f.deps).ValidateCredentials(context.Background(), "alice", "Secret1!")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, fault.KindUnhandled, fault.KindOf(err))
}

func TestIssueTokenPair_RefreshExpiry(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	ctx := context.Background()

	pair := f.login(t)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	u, err := f.users.GetByName(ctx, "alice")
	require.NoError(t, err)
	loginExpiry := f.clock.Now().Add(7 * 24 * time.Hour)
	assert.True(t, loginExpiry.Equal(u.RefreshTokenExpiry))
	assert.Equal(t, utils.HashRefreshRaw(pair.RefreshToken), u.RefreshTokenHash)

	// Without rotation the stored window is kept, not extended.
	f.clock.Advance(time.Hour)
	_, err = NewAuthService(f.deps).IssueTokenPair(ctx, u, false)
	require.NoError(t, err)
	u, err = f.users.GetByName(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, loginExpiry.Equal(u.RefreshTokenExpiry))
}

func TestRefreshTokenPair_RoundTrip(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	ctx := context.Background()
	pair := f.login(t)

	f.clock.Advance(20 * time.Minute)
	next, err := NewAuthService(f.deps).RefreshTokenPair(ctx, pair.AccessToken, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	claims, err := utils.ParseAccessToken(f.deps.JWT, next.AccessToken, false)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, []string{model.RoleUser}, claims.Roles)

	// The rotated token works once more; the old one is spent.
	_, err = NewAuthService(f.deps).RefreshTokenPair(ctx, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, fault.KindInvalidToken, fault.KindOf(err))
	_, err = NewAuthService(f.deps).RefreshTokenPair(ctx, next.AccessToken, next.RefreshToken)
	require.NoError(t, err)

	assert.Contains(t, f.pub.types(), queue.EventTokenRefreshed)
}

func TestRefreshTokenPair_Failures(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	ctx := context.Background()
	pair := f.login(t)

	ghost, err := utils.NewAccessToken(f.deps.JWT, "ghost", nil, f.clock.Now())
	require.NoError(t, err)

	forged, err := utils.NewAccessToken(utils.JWTSettings{Secret: "some-other-secret-of-decent-length", TTL: time.Minute}, "alice", nil, f.clock.Now())
	require.NoError(t, err)

	cases := []struct {
		name    string
		access  string
		refresh string
	}{
		{"mismatched refresh token", pair.AccessToken, "bm90LXRoZS1zdG9yZWQtdG9rZW4="},
		{"forged signature", forged.Token, pair.RefreshToken},
		{"garbage access token", "not.a.jwt", pair.RefreshToken},
		{"unknown principal", ghost.Token, pair.RefreshToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAuthService(f.deps).RefreshTokenPair(ctx, tc.access, tc.refresh)
			require.Error(t, err)
			assert.Equal(t, fault.KindInvalidToken, fault.KindOf(err))

			status, msg := fault.Classify(err)
			assert.Equal(t, 400, status)
			assert.Equal(t, "Invalid refresh token.", msg)
		})
	}
}

func TestRefreshTokenPair_ExpiredRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	pair := f.login(t)

	f.clock.Advance(7*24*time.Hour + time.Second)
	_, err := NewAuthService(f.deps).RefreshTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, fault.KindInvalidToken, fault.KindOf(err))
}

func TestRefreshTokenPair_ConcurrentOnlyOneWins(t *testing.T) {
	f := newAuthFixture(t)
	f.registerAlice(t)
	pair := f.login(t)

	var wins, losses atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := NewAuthService(f.deps).RefreshTokenPair(context.Background(), pair.AccessToken, pair.RefreshToken)
			if err == nil {
				wins.Add(1)
			} else if fault.Is(err, fault.KindInvalidToken) {
				losses.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(7), losses.Load())
}
