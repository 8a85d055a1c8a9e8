package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bookhaven/bookstore-api/internal/shared/httpapi"

	catalogdomain "github.com/bookhaven/bookstore-api/internal/domains/catalog/domain"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"
)

// CatalogAPI wires HTTP transport to the catalog bounded context.
type CatalogAPI struct {
	service catalogports.Service
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service catalogports.Service) CatalogAPI {
	return CatalogAPI{service: service}
}

type bookPayload struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn,omitempty"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int32     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBookPayload(book *catalogdomain.Book) bookPayload {
	return bookPayload{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		ISBN:        book.ISBN,
		Description: book.Description,
		Tags:        book.Tags,
		PriceCents:  book.PriceCents,
		Stock:       book.Stock,
		CreatedAt:   book.CreatedAt,
	}
}

func fromBookPayload(payload bookPayload) *catalogdomain.Book {
	return &catalogdomain.Book{
		ID:          payload.ID,
		Title:       payload.Title,
		Author:      payload.Author,
		ISBN:        payload.ISBN,
		Description: payload.Description,
		Tags:        payload.Tags,
		PriceCents:  payload.PriceCents,
		Stock:       payload.Stock,
	}
}

// Get /api/books
// List books, optionally filtered by tag.
func (api *CatalogAPI) ListBooks(c *gin.Context) {
	books, err := api.service.ListBooks(c.Request.Context(), c.Query("tag"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	payloads := make([]bookPayload, 0, len(books))
	for _, book := range books {
		payloads = append(payloads, toBookPayload(book))
	}
	httpapi.Success(c, http.StatusOK, "books listed", gin.H{"books": payloads})
}

// Get /api/books/:bookId
// Fetch one book.
func (api *CatalogAPI) GetBook(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}
	book, err := api.service.GetBookByID(c.Request.Context(), bookID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "book fetched", gin.H{"book": toBookPayload(book)})
}

// Post /api/admin/books
// Add a catalog entry (admin).
func (api *CatalogAPI) AddBook(c *gin.Context) {
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	book, err := api.service.AddBook(c.Request.Context(), fromBookPayload(payload))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	httpapi.Success(c, http.StatusCreated, "book added", gin.H{"book": toBookPayload(book)})
}

// Put /api/admin/books/:bookId
// Update a catalog entry (admin).
func (api *CatalogAPI) UpdateBook(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}
	var payload bookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	book, err := api.service.UpdateBook(c.Request.Context(), bookID, fromBookPayload(payload))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "book updated", gin.H{"book": toBookPayload(book)})
}

// Delete /api/admin/books/:bookId
// Remove a catalog entry (admin).
func (api *CatalogAPI) DeleteBook(c *gin.Context) {
	bookID, ok := parseBookIDParam(c)
	if !ok {
		return
	}
	if err := api.service.DeleteBook(c.Request.Context(), bookID); err != nil {
		respondCatalogError(c, err)
		return
	}
	httpapi.Success(c, http.StatusOK, "book deleted", nil)
}

func parseBookIDParam(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Param("bookId"))
	if _, err := uuid.Parse(raw); err != nil {
		httpapi.Fail(c, http.StatusBadRequest, "invalid book id")
		return "", false
	}
	return raw, true
}
