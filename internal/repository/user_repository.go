package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/book-api/internal/model"
)

// UserRepo persists users and their role memberships in MySQL.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, user_name, email, first_name, last_name, phone_number, password_hash,
	refresh_token_hash, refresh_token_expires_at, created_at, last_login_at`

// Create inserts the user and its roles in one transaction and sets u.ID.
// Duplicate user names or emails are reported as ErrUserNameTaken or
// ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (user_name, email, first_name, last_name, phone_number, password_hash, created_at)
		 VALUES (?,?,?,?,?,?,?)`,
		u.UserName, strings.TrimSpace(u.Email), u.FirstName, u.LastName, u.PhoneNumber, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return mapDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, role := range u.Roles {
		if _, err = tx.ExecContext(ctx, "INSERT INTO user_roles (user_id, role) VALUES (?,?)", id, role); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByName fetches a user and its roles by exact user name.
func (r *UserRepo) GetByName(ctx context.Context, name string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE user_name=? LIMIT 1", name)
}

// GetByEmail fetches a user and its roles by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", strings.TrimSpace(email))
}

// UpdateLastLogin records a successful login.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uint64, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login_at=? WHERE id=?", at.UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.User, error) {
	var (
		u         model.User
		tokenHash sql.NullString
		tokenExp  sql.NullTime
		lastLogin sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.UserName, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.PasswordHash,
		&tokenHash, &tokenExp, &u.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	u.RefreshTokenHash = tokenHash.String
	if tokenExp.Valid {
		u.RefreshTokenExpiry = tokenExp.Time
	}
	if lastLogin.Valid {
		u.LastLoginAt = lastLogin.Time
	}

	roles, err := r.roles(ctx, u.ID)
	if err != nil {
		return model.User{}, err
	}
	u.Roles = roles
	return u, nil
}

func (r *UserRepo) roles(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT role FROM user_roles WHERE user_id=? ORDER BY role", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}
