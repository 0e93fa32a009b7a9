package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/book-api/internal/model"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userRowColumns = []string{
	"id", "user_name", "email", "first_name", "last_name", "phone_number", "password_hash",
	"refresh_token_hash", "refresh_token_expires_at", "created_at", "last_login_at",
}

func TestUserRepo_CreateInsertsRolesInTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users \(user_name, email, first_name, last_name, phone_number, password_hash, created_at\)`).
		WithArgs("alice", "alice@example.com", "Alice", "", "", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`INSERT INTO user_roles \(user_id, role\) VALUES \(\?,\?\)`).
		WithArgs(int64(7), "Admin").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(int64(7), "User").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	u := &model.User{
		UserName: "alice", Email: " alice@example.com ", FirstName: "Alice",
		PasswordHash: "hash", Roles: []string{"Admin", "User"},
	}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, uint64(7), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_CreateMapsDuplicateKeys(t *testing.T) {
	cases := []struct {
		key  string
		want error
	}{
		{"users.uq_users_user_name", ErrUserNameTaken},
		{"users.uq_users_email", ErrEmailTaken},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewUserRepo(db)

			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO users`).WillReturnError(&mysql.MySQLError{
				Number:  1062,
				Message: "Duplicate entry 'alice' for key '" + tc.key + "'",
			})
			mock.ExpectRollback()

			err := repo.Create(context.Background(), &model.User{UserName: "alice", Email: "a@x.io"})
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_GetByNameLoadsRoles(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	exp := created.Add(7 * 24 * time.Hour)
	mock.ExpectQuery(`SELECT .* FROM users WHERE user_name=\? LIMIT 1`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(int64(3), "alice", "alice@example.com", "Alice", "Doe", "", "hash", "abc", exp, created, nil))
	mock.ExpectQuery(`SELECT role FROM user_roles WHERE user_id=\? ORDER BY role`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("Admin").AddRow("User"))

	u, err := repo.GetByName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), u.ID)
	assert.Equal(t, "abc", u.RefreshTokenHash)
	assert.True(t, exp.Equal(u.RefreshTokenExpiry))
	assert.True(t, u.LastLoginAt.IsZero())
	assert.Equal(t, []string{"Admin", "User"}, u.Roles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByNameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`FROM users WHERE user_name=\?`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_UpdateLastLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`UPDATE users SET last_login_at=\? WHERE id=\?`).
		WithArgs(sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateLastLogin(context.Background(), 3, time.Now()))

	mock.ExpectExec(`UPDATE users SET last_login_at`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateLastLogin(context.Background(), 99, time.Now()), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_SwapRefresh(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)
	exp := time.Now().Add(time.Hour)

	q := `UPDATE users SET refresh_token_hash=\?, refresh_token_expires_at=\? WHERE id=\? AND refresh_token_hash=\?`
	mock.ExpectExec(q).
		WithArgs("new", sqlmock.AnyArg(), uint64(3), "old").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.SwapRefresh(context.Background(), 3, "old", "new", exp))

	mock.ExpectExec(q).
		WithArgs("newer", sqlmock.AnyArg(), uint64(3), "old").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SwapRefresh(context.Background(), 3, "old", "newer", exp)
	assert.ErrorIs(t, err, ErrRefreshTokenMismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepo_StoreRefresh(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(`UPDATE users SET refresh_token_hash=\?, refresh_token_expires_at=\? WHERE id=\?$`).
		WithArgs("h", sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.StoreRefresh(context.Background(), 3, "h", time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
