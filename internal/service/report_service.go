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

const (
	summaryCacheKey = "stats:summary"
	summaryCacheTTL = time.Minute
)

// LibrarySummary holds the public home-page statistics and the latest
// catalog additions.
type LibrarySummary struct {
	TotalBooks    int64        `json:"total_books"`
	TotalMembers  int64        `json:"total_members"`
	BorrowedBooks int64        `json:"borrowed_books"`
	RecentBooks   []model.Book `json:"recent_books"`
}

// MemberDashboard is what a member sees after login.
type MemberDashboard struct {
	ActiveBorrows  []model.BorrowRecord `json:"active_borrows"`
	OverdueBorrows []model.BorrowRecord `json:"overdue_borrows"`
	OverdueCount   int64                `json:"overdue_count"`
	AvailableBooks []model.Book         `json:"available_books"`
}

// StaffDashboard aggregates library-wide state for staff.
type StaffDashboard struct {
	TotalBooks     int64                `json:"total_books"`
	TotalMembers   int64                `json:"total_members"`
	BorrowedBooks  int64                `json:"borrowed_books"`
	OverdueBooks   int64                `json:"overdue_books"`
	RecentBorrows  []model.BorrowRecord `json:"recent_borrows"`
	OverdueRecords []model.BorrowRecord `json:"overdue_records"`
}

const (
	dashboardBookLimit   = 6
	dashboardBorrowLimit = 10
)

// ReportService produces the read-side views. Views that report borrow
// status refresh overdue state first.
type ReportService interface {
	LibrarySummary(ctx context.Context) (*LibrarySummary, error)
	MemberDashboard(ctx context.Context, requesterID uint) (*MemberDashboard, error)
	StaffDashboard(ctx context.Context, requesterID uint) (*StaffDashboard, error)
}

type reportService struct {
	userRepo   repository.UserRepository
	bookRepo   repository.BookRepository
	borrowRepo repository.BorrowRepository
	cache      *cache.Client
}

// NewReportService creates a new report service.
func NewReportService(
	userRepo repository.UserRepository,
	bookRepo repository.BookRepository,
	borrowRepo repository.BorrowRepository,
	cache *cache.Client,
) ReportService {
	return &reportService{
		userRepo:   userRepo,
		bookRepo:   bookRepo,
		borrowRepo: borrowRepo,
		cache:      cache,
	}
}

// LibrarySummary returns the public statistics, cached briefly in Redis.
func (s *reportService) LibrarySummary(ctx context.Context) (*LibrarySummary, error) {
	if data, _ := s.cache.Get(ctx, summaryCacheKey); data != nil {
		var cached LibrarySummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}
	totalMembers, err := s.userRepo.CountByRole(ctx, model.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	borrowed, err := s.borrowRepo.CountByStatus(ctx, model.BorrowStatusBorrowed)
	if err != nil {
		return nil, fmt.Errorf("count borrowed: %w", err)
	}
	recent, err := s.bookRepo.ListRecent(ctx, dashboardBookLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent books: %w", err)
	}

	summary := &LibrarySummary{
		TotalBooks:    totalBooks,
		TotalMembers:  totalMembers,
		BorrowedBooks: borrowed,
		RecentBooks:   recent,
	}

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, summaryCacheKey, payload, summaryCacheTTL)
	}
	return summary, nil
}

// MemberDashboard returns the requester's open borrows, overdue count and a
// shelf of available books.
func (s *reportService) MemberDashboard(ctx context.Context, requesterID uint) (*MemberDashboard, error) {
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

	if _, err := s.borrowRepo.MarkOverdue(ctx, time.Now().UTC()); err != nil {
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
	overdueCount, err := s.borrowRepo.CountByUserAndStatus(ctx, requesterID, model.BorrowStatusOverdue)
	if err != nil {
		return nil, err
	}
	available, err := s.bookRepo.ListAvailable(ctx, dashboardBookLimit)
	if err != nil {
		return nil, err
	}

	return &MemberDashboard{
		ActiveBorrows:  active,
		OverdueBorrows: overdue,
		OverdueCount:   overdueCount,
		AvailableBooks: available,
	}, nil
}

// StaffDashboard returns library-wide counts, recent borrows and the
// current overdue records. Staff only.
func (s *reportService) StaffDashboard(ctx context.Context, requesterID uint) (*StaffDashboard, error) {
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

	if _, err := s.borrowRepo.MarkOverdue(ctx, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("refresh overdue: %w", err)
	}

	totalBooks, err := s.bookRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalMembers, err := s.userRepo.CountByRole(ctx, model.RoleMember)
	if err != nil {
		return nil, err
	}
	borrowed, err := s.borrowRepo.CountByStatus(ctx, model.BorrowStatusBorrowed)
	if err != nil {
		return nil, err
	}
	overdueCount, err := s.borrowRepo.CountByStatus(ctx, model.BorrowStatusOverdue)
	if err != nil {
		return nil, err
	}
	recent, err := s.borrowRepo.ListRecent(ctx, dashboardBorrowLimit)
	if err != nil {
		return nil, err
	}
	overdueRecords, err := s.borrowRepo.ListByStatus(ctx, model.BorrowStatusOverdue)
	if err != nil {
		return nil, err
	}

	return &StaffDashboard{
		TotalBooks:     totalBooks,
		TotalMembers:   totalMembers,
		BorrowedBooks:  borrowed,
		OverdueBooks:   overdueCount,
		RecentBorrows:  recent,
		OverdueRecords: overdueRecords,
	}, nil
}
