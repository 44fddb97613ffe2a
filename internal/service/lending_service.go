package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"digilib/internal/cache"
	"digilib/internal/errors"
	"digilib/internal/model"
	"digilib/internal/repository"
)

// BorrowOverview groups a user's borrow records by lifecycle state.
type BorrowOverview struct {
	Active  []model.BorrowRecord `json:"active"`
	Overdue []model.BorrowRecord `json:"overdue"`
	History []model.BorrowRecord `json:"history"`
}

// LendingService is the rules engine governing borrow-record transitions and
// their effect on catalog availability.
type LendingService interface {
	Borrow(ctx context.Context, requesterID, bookID uint) (*model.BorrowRecord, error)
	Return(ctx context.Context, requesterID, recordID uint) (*model.BorrowRecord, error)
	RefreshOverdue(ctx context.Context, now time.Time) (int64, error)
	MyBorrows(ctx context.Context, requesterID uint) (*BorrowOverview, error)
	ListBorrows(ctx context.Context, requesterID uint, status model.BorrowStatus) ([]model.BorrowRecord, error)
}

type lendingService struct {
	userRepo   repository.UserRepository
	bookRepo   repository.BookRepository
	borrowRepo repository.BorrowRepository
	cache      *cache.Client
}

// NewLendingService creates a new lending service.
func NewLendingService(
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	borrowRepo repository.BorrowRepository,
	cache *cache.Client,
) LendingService {
	return &lendingService{
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		cache:      cache,
	}
}

// Borrow lends one copy of a book to the requester.
//
// Preconditions: the requester holds the member role, the book exists, the
// requester has no open record for it, and at least one copy is available.
// The availability check and decrement are one guarded UPDATE, so two
// borrowers racing for the last copy cannot both succeed.
func (s *lendingService) Borrow(ctx context.Context, requesterID, bookID uint) (*model.BorrowRecord, error) {
	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load requester: %w", err)
	}
	if requester.Role != model.RoleMember {
		return nil, errors.ErrRoleDenied
	}

	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrBookNotFound
		}
		return nil, fmt.Errorf("load book: %w", err)
	}

	now := time.Now().UTC()
	record := &model.BorrowRecord{
		UserID:     requesterID,
		BookID:     bookID,
		BorrowedAt: now,
		DueDate:    DueDateFor(now),
		Status:     model.BorrowStatusBorrowed,
	}

	err = s.borrowRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.BorrowRepository) error {
		existing, err := txRepo.FindOpenByUserAndBook(ctx, requesterID, bookID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if existing != nil {
			return errors.ErrDuplicateBorrow
		}

		rows, err := txRepo.DecrementAvailableCopies(ctx, bookID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errors.ErrBookUnavailable
		}

		return txRepo.Create(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, fmt.Sprintf("book:%d", bookID))

	return record, nil
}

// Return closes a borrow record and releases the copy.
//
// The requester must be the record's owner or staff. The record row is
// locked for the duration of the transaction and the status guard makes a
// repeated return surface as AlreadyReturned rather than a second
// availability increment.
func (s *lendingService) Return(ctx context.Context, requesterID, recordID uint) (*model.BorrowRecord, error) {
	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load requester: %w", err)
	}

	var returned *model.BorrowRecord
	err = s.borrowRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.BorrowRepository) error {
		record, err := txRepo.FindByIDForUpdate(ctx, recordID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrRecordNotFound
			}
			return err
		}

		if record.UserID != requester.ID && !requester.IsStaff() {
			return errors.ErrRoleDenied
		}
		if record.Status == model.BorrowStatusReturned {
			return errors.ErrAlreadyReturned
		}

		now := time.Now().UTC()
		if err := txRepo.MarkReturned(ctx, record.ID, now); err != nil {
			return err
		}
		if err := txRepo.IncrementAvailableCopies(ctx, record.BookID); err != nil {
			return err
		}

		record.ReturnedAt = &now
		record.Status = model.BorrowStatusReturned
		returned = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, fmt.Sprintf("book:%d", returned.BookID))

	return returned, nil
}

// RefreshOverdue flips every past-due open record to overdue and returns the
// number of records changed. Idempotent and monotonic: records already
// overdue are untouched and nothing moves back to borrowed. Read paths that
// report status invoke this first.
func (s *lendingService) RefreshOverdue(ctx context.Context, now time.Time) (int64, error) {
	return s.borrowRepo.MarkOverdue(ctx, now)
}

// MyBorrows returns the requester's records grouped into active, overdue and
// returned, after refreshing overdue state.
func (s *lendingService) MyBorrows(ctx context.Context, requesterID uint) (*BorrowOverview, error) {
	if _, err := s.userRepo.FindByID(ctx, requesterID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load requester: %w", err)
	}

	if _, err := s.RefreshOverdue(ctx, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("refresh overdue: %w", err)
	}

	active, err := s.borrowRepo.ListByUserAndStatus(ctx, requesterID, model.BorrowStatusBorrowed)
	if err != nil {
		return nil, err
	}
	overdue, err := s.borrowRepo.ListByUserAndStatus(ctx, requesterID, model.BorrowStatusOverdue)
	if err != nil {
		return nil, err
	}
	history, err := s.borrowRepo.ListByUserAndStatus(ctx, requesterID, model.BorrowStatusReturned)
	if err != nil {
		return nil, err
	}

	return &BorrowOverview{Active: active, Overdue: overdue, History: history}, nil
}

// ListBorrows returns all records, optionally filtered by status. Staff only.
func (s *lendingService) ListBorrows(ctx context.Context, requesterID uint, status model.BorrowStatus) ([]model.BorrowRecord, error) {
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

	if _, err := s.RefreshOverdue(ctx, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("refresh overdue: %w", err)
	}

	if status == "" {
		return s.borrowRepo.ListAll(ctx)
	}
	return s.borrowRepo.ListByStatus(ctx, status)
}
