package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bookreview/internal/dto"
	"bookreview/internal/middleware"
	"bookreview/internal/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	svc service.CatalogService
}

func NewBookHandler(svc service.CatalogService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, authn gin.HandlerFunc) {
	// Public routes
	rg.GET("", h.List)
	rg.GET("/featured", h.Featured)
	rg.GET("/:id", h.Get)

	// Admin-only routes
	rg.POST("", authn, middleware.RequireAdmin(), h.Create)
}

// List handles GET /api/books?page=1&keyword=...&genre=...
func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// accept either ?page=... or ?pageNumber=... for compatibility
	page := 1
	p := c.Query("page")
	if p == "" {
		p = c.Query("pageNumber")
	}
	if p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	keyword := c.Query("keyword")
	genre := c.Query("genre")

	result, err := h.svc.List(ctx, keyword, genre, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	books := make([]dto.BookResponse, 0, len(result.Books))
	for _, b := range result.Books {
		books = append(books, dto.FromModelToBookResponse(b))
	}

	c.JSON(http.StatusOK, dto.BookListResponse{
		Books: books,
		Page:  result.Page,
		Pages: result.Pages,
		Total: result.Total,
	})
}

// Featured handles GET /api/books/featured. When no book is flagged
// featured the demo set below is substituted; it is presentation-only and
// never persisted.
func (h *BookHandler) Featured(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.Featured(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(list) == 0 {
		c.JSON(http.StatusOK, fallbackFeaturedBooks)
		return
	}

	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromModelToBookResponse(b))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToBookResponse(*b))
}

// Create handles POST /api/books (admin only)
func (h *BookHandler) Create(c *gin.Context) {
	var in dto.CreateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := in.ToModel()
	if err := h.svc.Create(ctx, &book); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBook):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDuplicateISBN):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToBookResponse(book))
}

// fallbackFeaturedBooks is the demo shelf shown when no real book carries
// the featured flag.
var fallbackFeaturedBooks = []dto.BookResponse{
	{
		Title:           "The Great Gatsby",
		Author:          "F. Scott Fitzgerald",
		Description:     "The story of the enigmatic Jay Gatsby and his love for the beautiful Daisy Buchanan.",
		Genre:           []string{"Fiction", "Classic"},
		CoverImage:      "https://source.unsplash.com/random/400x600?book,gatsby",
		ISBN:            "9780743273565",
		PublicationDate: time.Date(1925, 4, 10, 0, 0, 0, 0, time.UTC),
		Publisher:       "Scribner",
		PageCount:       180,
		Featured:        true,
	},
	{
		Title:           "To Kill a Mockingbird",
		Author:          "Harper Lee",
		Description:     "A story about racial inequality and moral growth in Alabama during the Great Depression.",
		Genre:           []string{"Fiction", "Classic", "Historical"},
		CoverImage:      "https://source.unsplash.com/random/400x600?book,mockingbird",
		ISBN:            "9780061120084",
		PublicationDate: time.Date(1960, 7, 11, 0, 0, 0, 0, time.UTC),
		Publisher:       "HarperCollins",
		PageCount:       281,
		Featured:        true,
	},
}
