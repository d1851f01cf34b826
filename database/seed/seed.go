// Package seed loads the demo catalog into the store. Seeding is
// idempotent: a book whose ISBN already exists is skipped, never updated.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"bookreview/internal/models"
	"bookreview/internal/repository"
)

// insertWorkers bounds concurrent inserts so seeding cannot exhaust the
// connection pool.
const insertWorkers = 4

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Books returns the demo catalog. The first six are featured so the
// featured shelf is populated out of the box.
func Books() []models.Book {
	return []models.Book{
		{
			Title:           "The Great Gatsby",
			Author:          "F. Scott Fitzgerald",
			Description:     "The story of the enigmatic Jay Gatsby and his love for the beautiful Daisy Buchanan.",
			Genre:           pq.StringArray{"Fiction", "Classic"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,gatsby",
			ISBN:            "9780743273565",
			PublicationDate: date(1925, time.April, 10),
			Publisher:       "Scribner",
			PageCount:       180,
			Featured:        true,
		},
		{
			Title:           "To Kill a Mockingbird",
			Author:          "Harper Lee",
			Description:     "A story about racial inequality and moral growth in Alabama during the Great Depression.",
			Genre:           pq.StringArray{"Fiction", "Classic", "Historical"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,mockingbird",
			ISBN:            "9780061120084",
			PublicationDate: date(1960, time.July, 11),
			Publisher:       "HarperCollins",
			PageCount:       281,
			Featured:        true,
		},
		{
			Title:           "1984",
			Author:          "George Orwell",
			Description:     "A dystopian novel set in a totalitarian society ruled by Big Brother.",
			Genre:           pq.StringArray{"Fiction", "Dystopian", "Classic"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,1984",
			ISBN:            "9780451524935",
			PublicationDate: date(1949, time.June, 8),
			Publisher:       "Signet Classic",
			PageCount:       328,
			Featured:        true,
		},
		{
			Title:           "Pride and Prejudice",
			Author:          "Jane Austen",
			Description:     "The romantic clash between the opinionated Elizabeth Bennet and the proud Mr. Darcy.",
			Genre:           pq.StringArray{"Fiction", "Romance", "Classic"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,pride",
			ISBN:            "9780141439518",
			PublicationDate: date(1813, time.January, 28),
			Publisher:       "Penguin Classics",
			PageCount:       432,
			Featured:        true,
		},
		{
			Title:           "The Hobbit",
			Author:          "J.R.R. Tolkien",
			Description:     "Bilbo Baggins is swept into a quest to reclaim the lost Dwarf Kingdom of Erebor.",
			Genre:           pq.StringArray{"Fiction", "Fantasy", "Adventure"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,hobbit",
			ISBN:            "9780547928227",
			PublicationDate: date(1937, time.September, 21),
			Publisher:       "Houghton Mifflin",
			PageCount:       310,
			Featured:        true,
		},
		{
			Title:           "The Catcher in the Rye",
			Author:          "J.D. Salinger",
			Description:     "Holden Caulfield recounts three days of wandering New York after his expulsion from prep school.",
			Genre:           pq.StringArray{"Fiction", "Coming-of-age", "Classic"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,catcher",
			ISBN:            "9780316769488",
			PublicationDate: date(1951, time.July, 16),
			Publisher:       "Little, Brown and Company",
			PageCount:       234,
			Featured:        true,
		},
		{
			Title:           "The Lord of the Rings",
			Author:          "J.R.R. Tolkien",
			Description:     "The epic quest to destroy the One Ring and defeat the Dark Lord Sauron.",
			Genre:           pq.StringArray{"Fiction", "Fantasy", "Adventure"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,rings",
			ISBN:            "9780618640157",
			PublicationDate: date(1954, time.July, 29),
			Publisher:       "Mariner Books",
			PageCount:       1178,
		},
		{
			Title:           "Harry Potter and the Sorcerer's Stone",
			Author:          "J.K. Rowling",
			Description:     "An orphaned boy discovers on his eleventh birthday that he is a wizard.",
			Genre:           pq.StringArray{"Fiction", "Fantasy", "Young Adult"},
			CoverImage:      "https://source.unsplash.com/random/400x600?book,potter",
			ISBN:            "9780590353427",
			PublicationDate: date(1997, time.June, 26),
			Publisher:       "Scholastic",
			PageCount:       309,
		},
	}
}

// Run inserts the demo catalog, skipping books whose ISBN is already
// present. Inserts fan out over a bounded worker group.
func Run(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(insertWorkers)

	for _, book := range Books() {
		book := book
		g.Go(func() error {
			var existing models.Book
			err := db.WithContext(ctx).
				Where("isbn = ?", book.ISBN).
				First(&existing).Error
			if err == nil {
				logger.Debug("book already seeded", zap.String("isbn", book.ISBN))
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := db.WithContext(ctx).Create(&book).Error; err != nil {
				// A concurrent worker or earlier run may have won the race.
				if repository.IsDuplicateKey(err) {
					return nil
				}
				return err
			}
			logger.Info("seeded book",
				zap.String("title", book.Title),
				zap.String("isbn", book.ISBN),
				zap.Bool("featured", book.Featured))
			return nil
		})
	}

	return g.Wait()
}
