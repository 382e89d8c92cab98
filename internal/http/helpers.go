package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/library"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned by every mutating endpoint. Message is also
// stored as the session flash.
type MessageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// Flasher stores a one-shot message in the caller's session.
type Flasher interface {
	PutFlash(r *http.Request, message string)
}

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondLibraryError maps an error kind from the library package to a status
// code. Operational and unknown errors become a generic 500.
func respondLibraryError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, library.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, library.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, library.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondMessage writes message as the response and the session flash.
func respondMessage(c *gin.Context, flash Flasher, status int, message string, data any) {
	if flash != nil {
		flash.PutFlash(c.Request, message)
	}
	c.JSON(status, MessageResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseISBNParam normalizes the :isbn URL parameter or responds with 400.
func parseISBNParam(c *gin.Context) (string, bool) {
	isbn, err := library.NormalizeISBN(c.Param("isbn"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return isbn, true
}

// parsePagination reads limit and offset query parameters, clamping limit
// to [1, 100] with a default of 25.
func parsePagination(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "25"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 25
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func identity(c *gin.Context) library.Identity {
	return auth.GetIdentity(c)
}
