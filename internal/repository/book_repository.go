package repository

import (
	"context"

	"gorm.io/gorm"

	"digilib/internal/model"
)

// BookRepository defines catalog persistence operations.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	Save(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	Search(ctx context.Context, query, category string) ([]model.Book, error)
	ListRecent(ctx context.Context, limit int) ([]model.Book, error)
	ListAvailable(ctx context.Context, limit int) ([]model.Book, error)
	Count(ctx context.Context) (int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book.
func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Save persists all fields of an existing book.
func (r *bookRepository) Save(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete removes a book from the catalog.
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Book{}, id).Error
}

// FindByID finds a book by ID.
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByISBN finds a book by its normalized ISBN.
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("isbn = ?", isbn).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Search returns books matching an optional free-text query (title, author or
// ISBN, substring match) and an optional exact category filter.
func (r *bookRepository) Search(ctx context.Context, query, category string) ([]model.Book, error) {
	tx := r.db.WithContext(ctx).Model(&model.Book{})
	if query != "" {
		pattern := "%" + query + "%"
		tx = tx.Where("title LIKE ? OR author LIKE ? OR isbn LIKE ?", pattern, pattern, pattern)
	}
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var books []model.Book
	if err := tx.Order("title").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// ListRecent returns the most recently added books.
func (r *bookRepository) ListRecent(ctx context.Context, limit int) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Order("id DESC").Limit(limit).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// ListAvailable returns books with at least one available copy.
func (r *bookRepository) ListAvailable(ctx context.Context, limit int) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).
		Where("available_copies > 0").Limit(limit).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// Count counts all books in the catalog.
func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
