// This file defines the BookRepo, which reads books together with their
// category in one JOIN so callers always receive a fully populated
// model.Book.

package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/book-api/internal/model"
)

// BookRepo encapsulates all database queries related to books.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo constructs a BookRepo with the provided DB handle.
func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

const bookSelect = `SELECT b.id, b.title, b.price, b.url, b.category_id, c.id, c.name
	FROM books b JOIN categories c ON c.id = b.category_id`

// List returns every book ordered by id.
func (r *BookRepo) List(ctx context.Context) ([]model.Book, error) {
	return r.query(ctx, bookSelect+" ORDER BY b.id")
}

// GetByID fetches a single book. It returns ErrNotFound if no row matches.
func (r *BookRepo) GetByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.QueryRowContext(ctx, bookSelect+" WHERE b.id = ?", id).
		Scan(&b.ID, &b.Title, &b.Price, &b.URL, &b.CategoryID, &b.Category.ID, &b.Category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, ErrNotFound
		}
		return model.Book{}, err
	}
	return b, nil
}

// SearchByTitle returns books whose title contains title, ignoring case.
func (r *BookRepo) SearchByTitle(ctx context.Context, title string) ([]model.Book, error) {
	return r.query(ctx, bookSelect+" WHERE LOWER(b.title) LIKE ? ORDER BY b.id", containsPattern(title))
}

// Create inserts b and populates b.ID. A missing category yields ErrConflict.
func (r *BookRepo) Create(ctx context.Context, b *model.Book) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO books (title, price, url, category_id) VALUES (?, ?, ?, ?)",
		b.Title, b.Price, b.URL, b.CategoryID)
	if err != nil {
		return mapForeignKey(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// Update overwrites the mutable columns of book b.ID. It returns
// ErrNotFound when no row matches.
func (r *BookRepo) Update(ctx context.Context, b *model.Book) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE books SET title = ?, price = ?, url = ?, category_id = ? WHERE id = ?",
		b.Title, b.Price, b.URL, b.CategoryID, b.ID)
	if err != nil {
		return mapForeignKey(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a book by id.
func (r *BookRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookRepo) query(ctx context.Context, q string, args ...any) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.URL, &b.CategoryID, &b.Category.ID, &b.Category.Name); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// containsPattern builds a lower-cased LIKE pattern matching s anywhere,
// with LIKE metacharacters in s escaped.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
