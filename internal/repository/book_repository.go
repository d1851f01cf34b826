package repository

import (
	"context"
	"fmt"

	"bookreview/internal/models"

	"gorm.io/gorm"
)

// BookFilter narrows a catalog listing. Keyword goes through the store's
// full-text search over title/author/description; Genre is exact membership
// in the genre array. Both combine conjunctively.
type BookFilter struct {
	Keyword string
	Genre   string
}

type BookRepository interface {
	List(ctx context.Context, filter BookFilter, page, pageSize int) ([]models.Book, int64, error)
	Featured(ctx context.Context, limit int) ([]models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) applyFilter(db *gorm.DB, filter BookFilter) *gorm.DB {
	if filter.Keyword != "" {
		db = db.Where(
			"to_tsvector('english', title || ' ' || author || ' ' || description) @@ plainto_tsquery('english', ?)",
			filter.Keyword,
		)
	}
	if filter.Genre != "" {
		db = db.Where("? = ANY(genre)", filter.Genre)
	}
	return db
}

// List returns one page of matching books, newest first, plus the total
// match count before pagination.
func (r *bookRepository) List(ctx context.Context, filter BookFilter, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	base := r.applyFilter(r.db.WithContext(ctx).Model(&models.Book{}), filter)

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	offset := (page - 1) * pageSize
	if err := base.
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	return list, total, nil
}

// Featured returns books flagged featured, store default order. Stable
// ordering is not guaranteed without an explicit sort key.
func (r *bookRepository) Featured(ctx context.Context, limit int) ([]models.Book, error) {
	var list []models.Book
	if err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("featured books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	// The unique index on isbn turns concurrent duplicate creates into a
	// duplicate-key error for all but one of them.
	return r.db.WithContext(ctx).Create(book).Error
}
