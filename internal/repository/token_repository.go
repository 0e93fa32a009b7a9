package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo persists the single refresh token hash and expiry kept on each
// users row.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh unconditionally replaces the user's refresh token hash and
// expiry. It is used on login, where any previous token is superseded.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=?, refresh_token_expires_at=? WHERE id=?",
		tokenHash, nullableTime(exp), userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapRefresh replaces the refresh token only if the stored hash still
// equals oldHash. When two refreshes race on the same token exactly one
// wins; the loser gets ErrRefreshTokenMismatch.
func (r *TokenRepo) SwapRefresh(ctx context.Context, userID uint64, oldHash, newHash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=?, refresh_token_expires_at=? WHERE id=? AND refresh_token_hash=?",
		newHash, nullableTime(exp), userID, oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRefreshTokenMismatch
	}
	return nil
}

// nullableTime stores the zero time as NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}
