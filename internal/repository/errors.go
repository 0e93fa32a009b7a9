// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the service layer to
// distinguish between failure scenarios without inspecting driver errors.
// For example, ErrUserNameTaken and ErrEmailTaken are produced from MySQL
// duplicate-key errors, while ErrRefreshTokenMismatch signals that a
// compare-and-swap on the stored refresh token lost a race.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUserNameTaken is returned when a user with the same user name exists.
var ErrUserNameTaken = errors.New("user name already taken")

// ErrEmailTaken is returned when a user with the same email exists.
var ErrEmailTaken = errors.New("email already taken")

// ErrRefreshTokenMismatch is returned when the stored refresh token no
// longer matches the one the caller presented, either because it was
// already rotated or because it never matched.
var ErrRefreshTokenMismatch = errors.New("refresh token mismatch")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state, such as a book referencing a missing category.
var ErrConflict = errors.New("conflict")

const (
	mysqlDuplicateEntry      = 1062
	mysqlForeignKeyViolation = 1452
)

// mapDuplicate converts a MySQL duplicate-key error on the users table into
// the matching sentinel. Other errors are returned unchanged.
func mapDuplicate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) || me.Number != mysqlDuplicateEntry {
		return err
	}
	switch {
	case strings.Contains(me.Message, "uq_users_email"):
		return ErrEmailTaken
	case strings.Contains(me.Message, "uq_users_user_name"):
		return ErrUserNameTaken
	}
	return ErrConflict
}

// mapForeignKey converts a MySQL foreign key violation into ErrConflict.
func mapForeignKey(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlForeignKeyViolation {
		return ErrConflict
	}
	return err
}
