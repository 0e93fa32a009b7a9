package dto

import (
	"math"
	"strings"

	"github.com/iliyamo/book-api/internal/model"
)

// BookRequest is the body of POST and PUT /api/books.
type BookRequest struct {
	Title      string  `json:"title" validate:"required,min=2,max=250"`
	Price      float64 `json:"price" validate:"min=10,max=100"`
	URL        string  `json:"url" validate:"omitempty,max=512"`
	CategoryID int64   `json:"categoryId" validate:"required,gt=0"`
}

// BookDTO is the representation of a book in responses.
type BookDTO struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	Price      float64     `json:"price"`
	URL        string      `json:"url"`
	CategoryID int64       `json:"categoryId"`
	Category   CategoryDTO `json:"category"`
}

// ToBook maps the request onto a book. An empty URL becomes the default
// cover and the price is rounded to cents.
func (r BookRequest) ToBook() model.Book {
	url := strings.TrimSpace(r.URL)
	if url == "" {
		url = model.DefaultBookURL
	}
	return model.Book{
		Title:      strings.TrimSpace(r.Title),
		Price:      math.Round(r.Price*100) / 100,
		URL:        url,
		CategoryID: r.CategoryID,
	}
}

func FromBook(b model.Book) BookDTO {
	return BookDTO{
		ID:         b.ID,
		Title:      b.Title,
		Price:      b.Price,
		URL:        b.URL,
		CategoryID: b.CategoryID,
		Category:   FromCategory(b.Category),
	}
}

func FromBooks(bs []model.Book) []BookDTO {
	out := make([]BookDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, FromBook(b))
	}
	return out
}
