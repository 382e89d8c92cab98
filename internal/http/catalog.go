package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/metrics"
)

type CatalogController struct {
	catalog CatalogService
	auditor Auditor
	metrics *metrics.Metrics
	flash   Flasher
}

func NewCatalogController(catalog CatalogService, auditor Auditor, m *metrics.Metrics, flash Flasher) *CatalogController {
	return &CatalogController{
		catalog: catalog,
		auditor: auditor,
		metrics: m,
		flash:   flash,
	}
}

// ListBooks returns the whole catalog ordered by title.
// GET /api/books
func (cc *CatalogController) ListBooks(c *gin.Context) {
	books, err := cc.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondLibraryError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// SearchBooks matches q against title, author and ISBN.
// GET /api/books/search?q=
func (cc *CatalogController) SearchBooks(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	books, err := cc.catalog.SearchBooks(c.Request.Context(), query)
	if err != nil {
		respondLibraryError(c, err, "search books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "books": books, "count": len(books)})
}

// GET /api/books/:isbn
func (cc *CatalogController) GetBook(c *gin.Context) {
	isbn, ok := parseISBNParam(c)
	if !ok {
		return
	}
	book, err := cc.catalog.GetBook(c.Request.Context(), isbn)
	if err != nil {
		respondLibraryError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

type addBookRequest struct {
	Title  string `json:"title" form:"title"`
	Author string `json:"author" form:"author"`
	ISBN   string `json:"isbn" form:"isbn"`
}

// AddBook adds a book, or updates title and author when the ISBN exists.
// POST /api/admin/books
func (cc *CatalogController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	actor := identity(c).Email
	book, err := cc.catalog.AddBook(c.Request.Context(), req.Title, req.Author, req.ISBN)
	if err != nil {
		cc.logCatalog(actor, "book_add", req.ISBN, "Failed to add "+req.ISBN, err)
		respondLibraryError(c, err, "add book")
		return
	}

	message := "Added " + book.Title + " (" + book.ISBN + ") to the catalog"
	cc.logCatalog(actor, "book_add", book.ISBN, message, nil)
	cc.metrics.ObserveCatalogChange("add")
	respondMessage(c, cc.flash, http.StatusOK, message, book)
}

// RemoveBook deletes a book along with any open checkouts of it.
// DELETE /api/admin/books/:isbn
func (cc *CatalogController) RemoveBook(c *gin.Context) {
	isbn, ok := parseISBNParam(c)
	if !ok {
		return
	}

	actor := identity(c).Email
	if err := cc.catalog.RemoveBook(c.Request.Context(), isbn); err != nil {
		cc.logCatalog(actor, "book_remove", isbn, "Failed to remove "+isbn, err)
		respondLibraryError(c, err, "remove book")
		return
	}

	message := "Removed " + isbn + " from the catalog"
	cc.logCatalog(actor, "book_remove", isbn, message, nil)
	cc.metrics.ObserveCatalogChange("remove")
	respondMessage(c, cc.flash, http.StatusOK, message, nil)
}

func (cc *CatalogController) logCatalog(actor, action, isbn, description string, err error) {
	if cc.auditor != nil {
		cc.auditor.LogCatalog(actor, action, isbn, description, err)
	}
}
