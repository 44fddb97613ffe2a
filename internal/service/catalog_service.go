package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"digilib/internal/cache"
	"digilib/internal/errors"
	"digilib/internal/model"
	"digilib/internal/repository"
)

const bookCacheTTL = 5 * time.Minute

// BookInput carries the staff-editable fields of a catalog entry.
type BookInput struct {
	Title           string
	Author          string
	ISBN            string
	Category        string
	Description     string
	CoverImage      string
	TotalCopies     int
	PublicationYear int
}

// BookDetails is a book plus requester-specific context.
type BookDetails struct {
	Book        *model.Book `json:"book"`
	HasBorrowed bool        `json:"has_borrowed"`
}

// CatalogService manages the book catalog. All mutations are staff only.
type CatalogService interface {
	CreateBook(ctx context.Context, requesterID uint, input BookInput) (*model.Book, error)
	UpdateBook(ctx context.Context, requesterID, bookID uint, input BookInput) (*model.Book, error)
	DeleteBook(ctx context.Context, requesterID, bookID uint) error
	GetBook(ctx context.Context, requesterID, bookID uint) (*BookDetails, error)
	SearchBooks(ctx context.Context, query, category string) ([]model.Book, error)
}

type catalogService struct {
	userRepo   repository.UserRepository
	bookRepo   repository.BookRepository
	borrowRepo repository.BorrowRepository
	cache      *cache.Client
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	borrowRepo repository.BorrowRepository,
	cache *cache.Client,
) CatalogService {
	return &catalogService{
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		cache:      cache,
	}
}

func bookCacheKey(id uint) string {
	return fmt.Sprintf("book:%d", id)
}

// requireStaff loads the requester and checks the staff role. Authorization
// is an explicit check on the loaded user rather than route middleware.
func (s *catalogService) requireStaff(ctx context.Context, requesterID uint) (*model.User, error) {
	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load requester: %w", err)
	}
	if !requester.IsStaff() {
		return nil, errors.ErrRoleDenied
	}
	return requester, nil
}

func validateBookInput(input *BookInput) error {
	isbn, err := NormalizeISBN(input.ISBN)
	if err != nil {
		return err
	}
	input.ISBN = isbn

	if !model.IsValidCategory(input.Category) {
		return errors.ErrInvalidCategory
	}
	return nil
}

// CreateBook adds a book to the catalog. All copies start available.
func (s *catalogService) CreateBook(ctx context.Context, requesterID uint, input BookInput) (*model.Book, error) {
	if _, err := s.requireStaff(ctx, requesterID); err != nil {
		return nil, err
	}
	if err := validateBookInput(&input); err != nil {
		return nil, err
	}

	existing, err := s.bookRepo.FindByISBN(ctx, input.ISBN)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check isbn: %w", err)
	}
	if existing != nil {
		return nil, errors.ErrDuplicateISBN
	}

	book := &model.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		Category:        input.Category,
		Description:     input.Description,
		CoverImage:      input.CoverImage,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.TotalCopies,
		PublicationYear: input.PublicationYear,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	return book, nil
}

// UpdateBook edits a catalog entry. When the total copy count changes, the
// available count is reconciled so copies currently on loan stay accounted
// for (see ReconcileAvailableCopies).
func (s *catalogService) UpdateBook(ctx context.Context, requesterID, bookID uint, input BookInput) (*model.Book, error) {
	if _, err := s.requireStaff(ctx, requesterID); err != nil {
		return nil, err
	}
	if err := validateBookInput(&input); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, fmt.Errorf("load book: %w", err)
	}

	if input.ISBN != book.ISBN {
		existing, err := s.bookRepo.FindByISBN(ctx, input.ISBN)
		if err != nil && err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check isbn: %w", err)
		}
		if existing != nil {
			return nil, errors.ErrDuplicateISBN
		}
	}

	book.AvailableCopies = ReconcileAvailableCopies(book.TotalCopies, book.AvailableCopies, input.TotalCopies)
	book.TotalCopies = input.TotalCopies
	book.Title = input.Title
	book.Author = input.Author
	book.ISBN = input.ISBN
	book.Category = input.Category
	book.Description = input.Description
	if input.CoverImage != "" {
		book.CoverImage = input.CoverImage
	}
	book.PublicationYear = input.PublicationYear

	if err := s.bookRepo.Save(ctx, book); err != nil {
		return nil, fmt.Errorf("save book: %w", err)
	}

	_ = s.cache.Delete(ctx, bookCacheKey(book.ID))

	return book, nil
}

// DeleteBook removes a book, unless open borrow records still reference it.
func (s *catalogService) DeleteBook(ctx context.Context, requesterID, bookID uint) error {
	if _, err := s.requireStaff(ctx, requesterID); err != nil {
		return err
	}

	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrBookNotFound
		}
		return fmt.Errorf("load book: %w", err)
	}

	open, err := s.borrowRepo.CountOpenByBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("count open borrows: %w", err)
	}
	if open > 0 {
		return errors.ErrActiveBorrows
	}

	if err := s.bookRepo.Delete(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	_ = s.cache.Delete(ctx, bookCacheKey(bookID))

	return nil
}

// GetBook returns a book (Redis read-through) together with whether the
// requester currently has it out.
func (s *catalogService) GetBook(ctx context.Context, requesterID, bookID uint) (*BookDetails, error) {
	book, err := s.getBookCached(ctx, bookID)
	if err != nil {
		return nil, err
	}

	details := &BookDetails{Book: book}

	if _, err := s.borrowRepo.FindOpenByUserAndBook(ctx, requesterID, bookID); err == nil {
		details.HasBorrowed = true
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check open borrow: %w", err)
	}

	return details, nil
}

func (s *catalogService) getBookCached(ctx context.Context, bookID uint) (*model.Book, error) {
	if data, _ := s.cache.Get(ctx, bookCacheKey(bookID)); data != nil {
		var cached model.Book
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, fmt.Errorf("load book: %w", err)
	}

	if payload, err := json.Marshal(book); err == nil {
		_ = s.cache.Set(ctx, bookCacheKey(bookID), payload, bookCacheTTL)
	}
	return book, nil
}

// SearchBooks lists catalog entries matching an optional free-text query and
// category filter. Open to any authenticated user.
func (s *catalogService) SearchBooks(ctx context.Context, query, category string) ([]model.Book, error) {
	if category != "" && !model.IsValidCategory(category) {
		return nil, errors.ErrInvalidCategory
	}
	return s.bookRepo.Search(ctx, query, category)
}
