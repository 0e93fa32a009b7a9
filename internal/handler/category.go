package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/service"
)

// CategoryHandler exposes book categories. All routes are public.
type CategoryHandler struct {
	Categories *service.CategoryService
}

func NewCategoryHandler(s *service.CategoryService) *CategoryHandler {
	if s == nil {
		panic("nil service passed to NewCategoryHandler")
	}
	return &CategoryHandler{Categories: s}
}

func (h *CategoryHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	cats, err := h.Categories.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromCategories(cats))
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	cat, err := h.Categories.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromCategory(cat))
}

// Search matches ?categoryName= against category names ignoring case.
func (h *CategoryHandler) Search(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	cats, err := h.Categories.Search(ctx, c.QueryParam("categoryName"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromCategories(cats))
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req dto.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	cat, err := h.Categories.Create(ctx, req)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/categories/"+strconv.FormatInt(cat.ID, 10))
	return c.JSON(http.StatusCreated, dto.FromCategory(cat))
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	cat, err := h.Categories.Update(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromCategory(cat))
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Categories.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
