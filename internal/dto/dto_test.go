package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/book-api/internal/model"
)

func TestBookRequest_ToBookDefaults(t *testing.T) {
	b := BookRequest{Title: "  Dune ", Price: 42.499, CategoryID: 3}.ToBook()
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, 42.5, b.Price)
	assert.Equal(t, model.DefaultBookURL, b.URL)
	assert.Equal(t, int64(3), b.CategoryID)
}

func TestFromBook_IncludesCategory(t *testing.T) {
	got := FromBook(model.Book{
		ID: 1, Title: "Devlet", Price: 20, URL: "/x.jpg", CategoryID: 2,
		Category: model.Category{ID: 2, Name: "History"},
	})
	assert.Equal(t, BookDTO{
		ID: 1, Title: "Devlet", Price: 20, URL: "/x.jpg", CategoryID: 2,
		Category: CategoryDTO{CategoryID: 2, CategoryName: "History"},
	}, got)
}

func TestFromBooks_EmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, FromBooks(nil))
	assert.NotNil(t, FromCategories(nil))
}

func TestRegisterRequest_ToUser(t *testing.T) {
	u := RegisterRequest{UserName: "alice", Email: "a@x.io", FirstName: "Alice", Password: "Secret1!"}.ToUser()
	assert.Equal(t, "alice", u.UserName)
	assert.Empty(t, u.PasswordHash)
	assert.Empty(t, u.Roles)
}
