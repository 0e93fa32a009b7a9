package model

// Category represents a row in the `categories` table. Books reference a
// category through books.category_id.
type Category struct {
	ID   int64  // categories.id
	Name string // categories.name
}
