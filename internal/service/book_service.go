package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/fault"
	"github.com/iliyamo/book-api/internal/model"
	"github.com/iliyamo/book-api/internal/repository"
)

// BookStore is the persistence contract of BookService.
type BookStore interface {
	List(ctx context.Context) ([]model.Book, error)
	GetByID(ctx context.Context, id int64) (model.Book, error)
	SearchByTitle(ctx context.Context, title string) ([]model.Book, error)
	Create(ctx context.Context, b *model.Book) error
	Update(ctx context.Context, b *model.Book) error
	Delete(ctx context.Context, id int64) error
}

// BookService implements the book operations and turns repository
// sentinels into faults.
type BookService struct {
	books      BookStore
	categories CategoryStore
}

func NewBookService(books BookStore, categories CategoryStore) *BookService {
	return &BookService{books: books, categories: categories}
}

// List returns every book, or a not-found fault when there are none.
func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if len(books) == 0 {
		return nil, fault.BookNotFound(0)
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, fault.OutOfRange(id)
	}
	b, err := s.books.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Book{}, fault.BookNotFound(id)
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("get book: %w", err)
	}
	return b, nil
}

// Search matches title as a case-insensitive substring. An empty title
// lists every book.
func (s *BookService) Search(ctx context.Context, title string) ([]model.Book, error) {
	if title == "" {
		return s.List(ctx)
	}
	books, err := s.books.SearchByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if len(books) == 0 {
		return nil, fault.NotFound(fmt.Sprintf("No book with a title containing '%s' could be found!", title))
	}
	return books, nil
}

func (s *BookService) Create(ctx context.Context, req dto.BookRequest) (model.Book, error) {
	b := req.ToBook()
	cat, err := s.category(ctx, b.CategoryID)
	if err != nil {
		return model.Book{}, err
	}
	if err := s.books.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Book{}, fault.CategoryNotFound(b.CategoryID)
		}
		return model.Book{}, fmt.Errorf("create book: %w", err)
	}
	b.Category = cat
	return b, nil
}

func (s *BookService) Update(ctx context.Context, id int64, req dto.BookRequest) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, fault.OutOfRange(id)
	}
	b := req.ToBook()
	b.ID = id
	cat, err := s.category(ctx, b.CategoryID)
	if err != nil {
		return model.Book{}, err
	}
	switch err := s.books.Update(ctx, &b); {
	case errors.Is(err, repository.ErrNotFound):
		return model.Book{}, fault.BookNotFound(id)
	case errors.Is(err, repository.ErrConflict):
		return model.Book{}, fault.CategoryNotFound(b.CategoryID)
	case err != nil:
		return model.Book{}, fmt.Errorf("update book: %w", err)
	}
	b.Category = cat
	return b, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fault.OutOfRange(id)
	}
	err := s.books.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fault.BookNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (s *BookService) category(ctx context.Context, id int64) (model.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Category{}, fault.CategoryNotFound(id)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}
