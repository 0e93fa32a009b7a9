package dto

import (
	"strings"

	"github.com/iliyamo/book-api/internal/model"
)

// CategoryRequest is the body of POST and PUT /api/categories.
type CategoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required,min=2,max=250"`
}

// CategoryDTO is the representation of a category in responses.
type CategoryDTO struct {
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

func (r CategoryRequest) ToCategory() model.Category {
	return model.Category{Name: strings.TrimSpace(r.CategoryName)}
}

func FromCategory(c model.Category) CategoryDTO {
	return CategoryDTO{CategoryID: c.ID, CategoryName: c.Name}
}

func FromCategories(cs []model.Category) []CategoryDTO {
	out := make([]CategoryDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCategory(c))
	}
	return out
}
