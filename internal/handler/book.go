package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/book-api/internal/dto"
	"github.com/iliyamo/book-api/internal/service"
)

// BookHandler exposes the book catalog.
type BookHandler struct {
	Books *service.BookService
}

func NewBookHandler(s *service.BookService) *BookHandler {
	if s == nil {
		panic("nil service passed to NewBookHandler")
	}
	return &BookHandler{Books: s}
}

// List returns every book with its category.
func (h *BookHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	books, err := h.Books.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromBooks(books))
}

func (h *BookHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.Books.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromBook(b))
}

// Search matches ?title= against book titles ignoring case.
func (h *BookHandler) Search(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()

	books, err := h.Books.Search(ctx, c.QueryParam("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromBooks(books))
}

// Create stores a new book and points Location at it.
func (h *BookHandler) Create(c echo.Context) error {
	var req dto.BookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.Books.Create(ctx, req)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderLocation, "/api/books/"+strconv.FormatInt(b.ID, 10))
	return c.JSON(http.StatusCreated, dto.FromBook(b))
}

func (h *BookHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.BookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.Books.Update(ctx, id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromBook(b))
}

func (h *BookHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	if err := h.Books.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
