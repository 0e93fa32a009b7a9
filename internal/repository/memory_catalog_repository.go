package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/book-api/internal/model"
)

// catalog is the state shared by the in-memory book and category repos so
// that book writes can check the category reference and category deletes
// can cascade.
type catalog struct {
	mu         sync.RWMutex
	nextBook   int64
	nextCat    int64
	books      map[int64]model.Book
	categories map[int64]model.Category
}

// MemoryBookRepo is the in-memory counterpart of BookRepo.
type MemoryBookRepo struct{ c *catalog }

// MemoryCategoryRepo is the in-memory counterpart of CategoryRepo.
type MemoryCategoryRepo struct{ c *catalog }

// NewMemoryCatalog returns a book repo and a category repo backed by the
// same in-memory tables.
func NewMemoryCatalog() (*MemoryBookRepo, *MemoryCategoryRepo) {
	c := &catalog{
		books:      make(map[int64]model.Book),
		categories: make(map[int64]model.Category),
	}
	return &MemoryBookRepo{c: c}, &MemoryCategoryRepo{c: c}
}

func (r *MemoryBookRepo) List(_ context.Context) ([]model.Book, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return r.c.filterBooks(func(model.Book) bool { return true }), nil
}

func (r *MemoryBookRepo) GetByID(_ context.Context, id int64) (model.Book, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	b, ok := r.c.books[id]
	if !ok {
		return model.Book{}, ErrNotFound
	}
	return r.c.withCategory(b), nil
}

func (r *MemoryBookRepo) SearchByTitle(_ context.Context, title string) ([]model.Book, error) {
	needle := strings.ToLower(title)
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return r.c.filterBooks(func(b model.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), needle)
	}), nil
}

func (r *MemoryBookRepo) Create(_ context.Context, b *model.Book) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.categories[b.CategoryID]; !ok {
		return ErrConflict
	}
	r.c.nextBook++
	b.ID = r.c.nextBook
	r.c.books[b.ID] = *b
	return nil
}

func (r *MemoryBookRepo) Update(_ context.Context, b *model.Book) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.books[b.ID]; !ok {
		return ErrNotFound
	}
	if _, ok := r.c.categories[b.CategoryID]; !ok {
		return ErrConflict
	}
	r.c.books[b.ID] = *b
	return nil
}

func (r *MemoryBookRepo) Delete(_ context.Context, id int64) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.c.books, id)
	return nil
}

func (r *MemoryCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return r.c.filterCategories(func(model.Category) bool { return true }), nil
}

func (r *MemoryCategoryRepo) GetByID(_ context.Context, id int64) (model.Category, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	c, ok := r.c.categories[id]
	if !ok {
		return model.Category{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryCategoryRepo) SearchByName(_ context.Context, name string) ([]model.Category, error) {
	needle := strings.ToLower(name)
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	return r.c.filterCategories(func(c model.Category) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	}), nil
}

func (r *MemoryCategoryRepo) Create(_ context.Context, c *model.Category) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.nextCat++
	c.ID = r.c.nextCat
	r.c.categories[c.ID] = *c
	return nil
}

func (r *MemoryCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.categories[c.ID]; !ok {
		return ErrNotFound
	}
	r.c.categories[c.ID] = *c
	return nil
}

// Delete removes the category and every book referencing it.
func (r *MemoryCategoryRepo) Delete(_ context.Context, id int64) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.c.categories, id)
	for bid, b := range r.c.books {
		if b.CategoryID == id {
			delete(r.c.books, bid)
		}
	}
	return nil
}

// callers hold c.mu.
func (c *catalog) withCategory(b model.Book) model.Book {
	b.Category = c.categories[b.CategoryID]
	return b
}

func (c *catalog) filterBooks(keep func(model.Book) bool) []model.Book {
	var out []model.Book
	for _, b := range c.books {
		if keep(b) {
			out = append(out, c.withCategory(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *catalog) filterCategories(keep func(model.Category) bool) []model.Category {
	var out []model.Category
	for _, cat := range c.categories {
		if keep(cat) {
			out = append(out, cat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
