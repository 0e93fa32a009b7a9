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

// CategoryStore is the persistence contract of CategoryService.
type CategoryStore interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (model.Category, error)
	SearchByName(ctx context.Context, name string) ([]model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id int64) error
}

type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns all categories; an empty table is reported as not found.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	cs, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(cs) == 0 {
		return nil, fault.CategoryNotFound(0)
	}
	return cs, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, fault.OutOfRange(id)
	}
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Category{}, fault.CategoryNotFound(id)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Search matches name as a substring; an empty name falls back to List.
func (s *CategoryService) Search(ctx context.Context, name string) ([]model.Category, error) {
	if name == "" {
		return s.List(ctx)
	}
	cs, err := s.categories.SearchByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	if len(cs) == 0 {
		return nil, fault.NotFound(fmt.Sprintf("No category with a name containing '%s' could be found!", name))
	}
	return cs, nil
}

func (s *CategoryService) Create(ctx context.Context, req dto.CategoryRequest) (model.Category, error) {
	c := req.ToCategory()
	if c.Name == "" {
		return model.Category{}, fault.BadRequest("Bad Request")
	}
	if err := s.categories.Create(ctx, &c); err != nil {
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req dto.CategoryRequest) (model.Category, error) {
	if id <= 0 {
		return model.Category{}, fault.OutOfRange(id)
	}
	c := req.ToCategory()
	if c.Name == "" {
		return model.Category{}, fault.BadRequest("Bad Request")
	}
	c.ID = id
	err := s.categories.Update(ctx, &c)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Category{}, fault.CategoryNotFound(id)
	}
	if err != nil {
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// Delete removes the category together with its books.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fault.OutOfRange(id)
	}
	err := s.categories.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fault.CategoryNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
