package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookreview/internal/cache"
	"bookreview/internal/models"
	"bookreview/internal/repository"

	"gorm.io/gorm"
)

const (
	// PageSize is the fixed catalog page size.
	PageSize = 10
	// FeaturedLimit caps the featured shelf.
	FeaturedLimit = 6

	featuredCacheKey = "books:featured"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
	ErrInvalidBook   = errors.New("invalid book data")
)

// BookPage is one page of catalog results plus the totals computed before
// pagination.
type BookPage struct {
	Books []models.Book
	Page  int
	Pages int
	Total int64
}

type CatalogService interface {
	List(ctx context.Context, keyword, genre string, page int) (*BookPage, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Featured(ctx context.Context) ([]models.Book, error)
}

type catalogService struct {
	repo     repository.BookRepository
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewCatalogService wires the catalog over the book repository. cache may be
// nil, in which case featured lookups always hit the store.
func NewCatalogService(repo repository.BookRepository, c *cache.Cache, cacheTTL time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: c, cacheTTL: cacheTTL}
}

// List returns one page of books matching keyword and genre, newest first.
// A page past the end of the result set yields an empty item list with
// total/pages still reported; that is not an error.
func (s *catalogService) List(ctx context.Context, keyword, genre string, page int) (*BookPage, error) {
	if page < 1 {
		page = 1
	}

	filter := repository.BookFilter{
		Keyword: strings.TrimSpace(keyword),
		Genre:   strings.TrimSpace(genre),
	}

	books, total, err := s.repo.List(ctx, filter, page, PageSize)
	if err != nil {
		return nil, err
	}

	pages := int((total + PageSize - 1) / PageSize)

	return &BookPage{
		Books: books,
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}

func (s *catalogService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// Create validates and persists a new book. A duplicate ISBN (exact string
// match, no normalization) surfaces as ErrDuplicateISBN.
func (s *catalogService) Create(ctx context.Context, book *models.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, book); err != nil {
		if repository.IsDuplicateKey(err) {
			return ErrDuplicateISBN
		}
		return err
	}

	if book.Featured && s.cache != nil {
		s.cache.Invalidate(ctx, featuredCacheKey)
	}
	return nil
}

// Featured returns up to FeaturedLimit featured books, read through the
// cache when one is configured. An empty result is returned as-is; the
// demo fallback is a presentation concern handled at the HTTP layer.
func (s *catalogService) Featured(ctx context.Context) ([]models.Book, error) {
	if s.cache == nil {
		return s.repo.Featured(ctx, FeaturedLimit)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, featuredCacheKey, s.cacheTTL,
		func(ctx context.Context) ([]models.Book, error) {
			return s.repo.Featured(ctx, FeaturedLimit)
		})
}

func validateBook(b *models.Book) error {
	switch {
	case strings.TrimSpace(b.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidBook)
	case strings.TrimSpace(b.Author) == "":
		return fmt.Errorf("%w: author is required", ErrInvalidBook)
	case strings.TrimSpace(b.Description) == "":
		return fmt.Errorf("%w: description is required", ErrInvalidBook)
	case len(b.Genre) == 0:
		return fmt.Errorf("%w: at least one genre must be specified", ErrInvalidBook)
	case strings.TrimSpace(b.CoverImage) == "":
		return fmt.Errorf("%w: cover image URL is required", ErrInvalidBook)
	case strings.TrimSpace(b.ISBN) == "":
		return fmt.Errorf("%w: isbn is required", ErrInvalidBook)
	case b.PublicationDate.IsZero():
		return fmt.Errorf("%w: publication date is required", ErrInvalidBook)
	case strings.TrimSpace(b.Publisher) == "":
		return fmt.Errorf("%w: publisher is required", ErrInvalidBook)
	case b.PageCount < 1:
		return fmt.Errorf("%w: page count must be a positive integer", ErrInvalidBook)
	}
	return nil
}
