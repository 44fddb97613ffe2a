package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"digilib/internal/errors"
	"digilib/internal/model"
)

func validBookInput() BookInput {
	return BookInput{
		Title:           "The Pragmatic Programmer",
		Author:          "Andrew Hunt",
		ISBN:            "978-0-13-595705-9",
		Category:        "Technology",
		Description:     "From journeyman to master.",
		TotalCopies:     3,
		PublicationYear: 2019,
	}
}

func TestCatalogService_CreateBook(t *testing.T) {
	tests := []struct {
		name          string
		requesterID   uint
		input         BookInput
		setupMock     func(*MockUserRepository, *MockBookRepository)
		expectedError error
	}{
		{
			name:        "successful creation",
			requesterID: 2,
			input:       validBookInput(),
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
				mBook.On("FindByISBN", mock.Anything, "9780135957059").Return(nil, gorm.ErrRecordNotFound)
				mBook.On("Create", mock.Anything, mock.AnythingOfType("*model.Book")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:        "member cannot create",
			requesterID: 1,
			input:       validBookInput(),
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository) {
				mUser.On("FindByID", mock.Anything, uint(1)).Return(memberUser(), nil)
			},
			expectedError: errors.ErrRoleDenied,
		},
		{
			name:        "duplicate isbn",
			requesterID: 2,
			input:       validBookInput(),
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
				mBook.On("FindByISBN", mock.Anything, "9780135957059").
					Return(&model.Book{ID: 4, ISBN: "9780135957059"}, nil)
			},
			expectedError: errors.ErrDuplicateISBN,
		},
		{
			name:        "malformed isbn",
			requesterID: 2,
			input: func() BookInput {
				in := validBookInput()
				in.ISBN = "not-an-isbn"
				return in
			}(),
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
			},
			expectedError: errors.ErrInvalidISBN,
		},
		{
			name:        "unknown category",
			requesterID: 2,
			input: func() BookInput {
				in := validBookInput()
				in.Category = "Cooking"
				return in
			}(),
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
			},
			expectedError: errors.ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockBookRepo := new(MockBookRepository)
			tt.setupMock(mockUserRepo, mockBookRepo)

			service := NewCatalogService(mockUserRepo, mockBookRepo, new(MockBorrowRepository), nil)
			book, err := service.CreateBook(context.Background(), tt.requesterID, tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, book)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, book)
				assert.Equal(t, "9780135957059", book.ISBN)
				assert.Equal(t, tt.input.TotalCopies, book.TotalCopies)
				assert.Equal(t, tt.input.TotalCopies, book.AvailableCopies)
			}

			mockUserRepo.AssertExpectations(t)
			mockBookRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_UpdateBook_ReconcilesAvailability(t *testing.T) {
	// 5 total, 2 available: 3 copies are out on loan.
	stored := &model.Book{
		ID:              4,
		Title:           "The Pragmatic Programmer",
		Author:          "Andrew Hunt",
		ISBN:            "9780135957059",
		Category:        "Technology",
		TotalCopies:     5,
		AvailableCopies: 2,
	}

	tests := []struct {
		name              string
		newTotal          int
		expectedAvailable int
	}{
		{name: "grow keeps borrowed accounted", newTotal: 8, expectedAvailable: 5},
		{name: "shrink below borrowed goes negative", newTotal: 2, expectedAvailable: -1},
		{name: "unchanged total keeps availability", newTotal: 5, expectedAvailable: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := *stored

			mockUserRepo := new(MockUserRepository)
			mockBookRepo := new(MockBookRepository)
			mockUserRepo.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
			mockBookRepo.On("FindByID", mock.Anything, uint(4)).Return(&book, nil)
			mockBookRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Book")).Return(nil)

			input := validBookInput()
			input.TotalCopies = tt.newTotal

			service := NewCatalogService(mockUserRepo, mockBookRepo, new(MockBorrowRepository), nil)
			updated, err := service.UpdateBook(context.Background(), 2, 4, input)

			assert.NoError(t, err)
			assert.Equal(t, tt.newTotal, updated.TotalCopies)
			assert.Equal(t, tt.expectedAvailable, updated.AvailableCopies)

			mockBookRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_UpdateBook_ISBNChange(t *testing.T) {
	stored := func() *model.Book {
		return &model.Book{ID: 4, ISBN: "9780135957059", TotalCopies: 3, AvailableCopies: 3}
	}

	t.Run("changed isbn colliding with another book", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockBookRepo := new(MockBookRepository)
		mockUserRepo.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
		mockBookRepo.On("FindByID", mock.Anything, uint(4)).Return(stored(), nil)
		mockBookRepo.On("FindByISBN", mock.Anything, "9780451524935").
			Return(&model.Book{ID: 9, ISBN: "9780451524935"}, nil)

		input := validBookInput()
		input.ISBN = "978-0-451-52493-5"

		service := NewCatalogService(mockUserRepo, mockBookRepo, new(MockBorrowRepository), nil)
		updated, err := service.UpdateBook(context.Background(), 2, 4, input)

		assert.Equal(t, errors.ErrDuplicateISBN, err)
		assert.Nil(t, updated)
		mockBookRepo.AssertExpectations(t)
	})

	t.Run("unchanged isbn skips the collision lookup", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockBookRepo := new(MockBookRepository)
		mockUserRepo.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
		mockBookRepo.On("FindByID", mock.Anything, uint(4)).Return(stored(), nil)
		mockBookRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Book")).Return(nil)

		service := NewCatalogService(mockUserRepo, mockBookRepo, new(MockBorrowRepository), nil)
		_, err := service.UpdateBook(context.Background(), 2, 4, validBookInput())

		assert.NoError(t, err)
		mockBookRepo.AssertNotCalled(t, "FindByISBN", mock.Anything, mock.Anything)
	})
}

func TestCatalogService_DeleteBook(t *testing.T) {
	tests := []struct {
		name          string
		requesterID   uint
		setupMock     func(*MockUserRepository, *MockBookRepository, *MockBorrowRepository)
		expectedError error
	}{
		{
			name:        "successful deletion",
			requesterID: 2,
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository, mBorrow *MockBorrowRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
				mBook.On("FindByID", mock.Anything, uint(4)).Return(&model.Book{ID: 4}, nil)
				mBorrow.On("CountOpenByBook", mock.Anything, uint(4)).Return(int64(0), nil)
				mBook.On("Delete", mock.Anything, uint(4)).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:        "blocked by open borrows",
			requesterID: 2,
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository, mBorrow *MockBorrowRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
				mBook.On("FindByID", mock.Anything, uint(4)).Return(&model.Book{ID: 4}, nil)
				mBorrow.On("CountOpenByBook", mock.Anything, uint(4)).Return(int64(2), nil)
			},
			expectedError: errors.ErrActiveBorrows,
		},
		{
			name:        "member cannot delete",
			requesterID: 1,
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository, mBorrow *MockBorrowRepository) {
				mUser.On("FindByID", mock.Anything, uint(1)).Return(memberUser(), nil)
			},
			expectedError: errors.ErrRoleDenied,
		},
		{
			name:        "unknown book",
			requesterID: 2,
			setupMock: func(mUser *MockUserRepository, mBook *MockBookRepository, mBorrow *MockBorrowRepository) {
				mUser.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
				mBook.On("FindByID", mock.Anything, uint(4)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrBookNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockBookRepo := new(MockBookRepository)
			mockBorrowRepo := new(MockBorrowRepository)
			tt.setupMock(mockUserRepo, mockBookRepo, mockBorrowRepo)

			service := NewCatalogService(mockUserRepo, mockBookRepo, mockBorrowRepo, nil)
			err := service.DeleteBook(context.Background(), tt.requesterID, 4)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}

			mockUserRepo.AssertExpectations(t)
			mockBookRepo.AssertExpectations(t)
			mockBorrowRepo.AssertExpectations(t)
		})
	}
}

func TestCatalogService_GetBook(t *testing.T) {
	book := &model.Book{ID: 4, Title: "1984", AvailableCopies: 2}

	t.Run("requester with an open borrow", func(t *testing.T) {
		mockBookRepo := new(MockBookRepository)
		mockBorrowRepo := new(MockBorrowRepository)
		mockBookRepo.On("FindByID", mock.Anything, uint(4)).Return(book, nil)
		mockBorrowRepo.On("FindOpenByUserAndBook", mock.Anything, uint(1), uint(4)).
			Return(&model.BorrowRecord{ID: 5, UserID: 1, BookID: 4}, nil)

		service := NewCatalogService(new(MockUserRepository), mockBookRepo, mockBorrowRepo, nil)
		details, err := service.GetBook(context.Background(), 1, 4)

		assert.NoError(t, err)
		assert.True(t, details.HasBorrowed)
		assert.Equal(t, book.Title, details.Book.Title)
	})

	t.Run("requester without an open borrow", func(t *testing.T) {
		mockBookRepo := new(MockBookRepository)
		mockBorrowRepo := new(MockBorrowRepository)
		mockBookRepo.On("FindByID", mock.Anything, uint(4)).Return(book, nil)
		mockBorrowRepo.On("FindOpenByUserAndBook", mock.Anything, uint(3), uint(4)).
			Return(nil, gorm.ErrRecordNotFound)

		service := NewCatalogService(new(MockUserRepository), mockBookRepo, mockBorrowRepo, nil)
		details, err := service.GetBook(context.Background(), 3, 4)

		assert.NoError(t, err)
		assert.False(t, details.HasBorrowed)
	})

	t.Run("unknown book", func(t *testing.T) {
		mockBookRepo := new(MockBookRepository)
		mockBookRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := NewCatalogService(new(MockUserRepository), mockBookRepo, new(MockBorrowRepository), nil)
		details, err := service.GetBook(context.Background(), 1, 99)

		assert.Equal(t, errors.ErrBookNotFound, err)
		assert.Nil(t, details)
	})
}

func TestCatalogService_SearchBooks(t *testing.T) {
	t.Run("query and category forwarded", func(t *testing.T) {
		mockBookRepo := new(MockBookRepository)
		mockBookRepo.On("Search", mock.Anything, "orwell", "Fiction").
			Return([]model.Book{{ID: 4, Title: "1984"}}, nil)

		service := NewCatalogService(new(MockUserRepository), mockBookRepo, new(MockBorrowRepository), nil)
		books, err := service.SearchBooks(context.Background(), "orwell", "Fiction")

		assert.NoError(t, err)
		assert.Len(t, books, 1)
		mockBookRepo.AssertExpectations(t)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		service := NewCatalogService(new(MockUserRepository), new(MockBookRepository), new(MockBorrowRepository), nil)
		books, err := service.SearchBooks(context.Background(), "", "Cooking")

		assert.Equal(t, errors.ErrInvalidCategory, err)
		assert.Nil(t, books)
	})
}
