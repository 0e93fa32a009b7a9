package model

// DefaultBookURL is assigned to books created without a cover URL.
const DefaultBookURL = "/images/default.jpg"

// Book represents a row in the `books` table. Category is filled by the
// repository with the joined `categories` row.
type Book struct {
	ID         int64    // books.id
	Title      string   // books.title
	Price      float64  // books.price (DECIMAL(10,2))
	URL        string   // books.url
	CategoryID int64    // books.category_id
	Category   Category // categories row referenced by CategoryID
}
