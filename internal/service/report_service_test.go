package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"digilib/internal/errors"
	"digilib/internal/model"
)

func TestReportService_LibrarySummary(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockBookRepo := new(MockBookRepository)
	mockBorrowRepo := new(MockBorrowRepository)

	mockBookRepo.On("Count", mock.Anything).Return(int64(42), nil)
	mockUserRepo.On("CountByRole", mock.Anything, model.RoleMember).Return(int64(17), nil)
	mockBorrowRepo.On("CountByStatus", mock.Anything, model.BorrowStatusBorrowed).Return(int64(9), nil)
	mockBookRepo.On("ListRecent", mock.Anything, dashboardBookLimit).
		Return([]model.Book{{ID: 10, Title: "1984"}}, nil)

	service := NewReportService(mockUserRepo, mockBookRepo, mockBorrowRepo, nil)
	summary, err := service.LibrarySummary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), summary.TotalBooks)
	assert.Equal(t, int64(17), summary.TotalMembers)
	assert.Equal(t, int64(9), summary.BorrowedBooks)
	assert.Len(t, summary.RecentBooks, 1)
}

func TestReportService_MemberDashboard(t *testing.T) {
	t.Run("staff is denied", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)

		service := NewReportService(mockUserRepo, new(MockBookRepository), new(MockBorrowRepository), nil)
		dashboard, err := service.MemberDashboard(context.Background(), 2)

		assert.Equal(t, errors.ErrRoleDenied, err)
		assert.Nil(t, dashboard)
	})

	t.Run("overdue state refreshed before reading", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockBookRepo := new(MockBookRepository)
		mockBorrowRepo := new(MockBorrowRepository)

		mockUserRepo.On("FindByID", mock.Anything, uint(1)).Return(memberUser(), nil)
		mockBorrowRepo.On("MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(1), nil)
		mockBorrowRepo.On("ListByUserAndStatus", mock.Anything, uint(1), model.BorrowStatusBorrowed).
			Return([]model.BorrowRecord{{ID: 5, Status: model.BorrowStatusBorrowed}}, nil)
		mockBorrowRepo.On("ListByUserAndStatus", mock.Anything, uint(1), model.BorrowStatusOverdue).
			Return([]model.BorrowRecord{{ID: 6, Status: model.BorrowStatusOverdue}}, nil)
		mockBorrowRepo.On("CountByUserAndStatus", mock.Anything, uint(1), model.BorrowStatusOverdue).
			Return(int64(1), nil)
		mockBookRepo.On("ListAvailable", mock.Anything, dashboardBookLimit).
			Return([]model.Book{{ID: 10, AvailableCopies: 2}}, nil)

		service := NewReportService(mockUserRepo, mockBookRepo, mockBorrowRepo, nil)
		dashboard, err := service.MemberDashboard(context.Background(), 1)

		assert.NoError(t, err)
		assert.Len(t, dashboard.ActiveBorrows, 1)
		assert.Len(t, dashboard.OverdueBorrows, 1)
		assert.Equal(t, int64(1), dashboard.OverdueCount)
		assert.Len(t, dashboard.AvailableBooks, 1)
		mockBorrowRepo.AssertCalled(t, "MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time"))
	})
}

func TestReportService_StaffDashboard(t *testing.T) {
	t.Run("member is denied", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockUserRepo.On("FindByID", mock.Anything, uint(1)).Return(memberUser(), nil)

		service := NewReportService(mockUserRepo, new(MockBookRepository), new(MockBorrowRepository), nil)
		dashboard, err := service.StaffDashboard(context.Background(), 1)

		assert.Equal(t, errors.ErrRoleDenied, err)
		assert.Nil(t, dashboard)
	})

	t.Run("aggregates library-wide state", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockBookRepo := new(MockBookRepository)
		mockBorrowRepo := new(MockBorrowRepository)

		mockUserRepo.On("FindByID", mock.Anything, uint(2)).Return(staffUser(), nil)
		mockBorrowRepo.On("MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
		mockBookRepo.On("Count", mock.Anything).Return(int64(42), nil)
		mockUserRepo.On("CountByRole", mock.Anything, model.RoleMember).Return(int64(17), nil)
		mockBorrowRepo.On("CountByStatus", mock.Anything, model.BorrowStatusBorrowed).Return(int64(9), nil)
		mockBorrowRepo.On("CountByStatus", mock.Anything, model.BorrowStatusOverdue).Return(int64(3), nil)
		mockBorrowRepo.On("ListRecent", mock.Anything, dashboardBorrowLimit).
			Return([]model.BorrowRecord{{ID: 5}}, nil)
		mockBorrowRepo.On("ListByStatus", mock.Anything, model.BorrowStatusOverdue).
			Return([]model.BorrowRecord{{ID: 6, Status: model.BorrowStatusOverdue}}, nil)

		service := NewReportService(mockUserRepo, mockBookRepo, mockBorrowRepo, nil)
		dashboard, err := service.StaffDashboard(context.Background(), 2)

		assert.NoError(t, err)
		assert.Equal(t, int64(42), dashboard.TotalBooks)
		assert.Equal(t, int64(17), dashboard.TotalMembers)
		assert.Equal(t, int64(9), dashboard.BorrowedBooks)
		assert.Equal(t, int64(3), dashboard.OverdueBooks)
		assert.Len(t, dashboard.RecentBorrows, 1)
		assert.Len(t, dashboard.OverdueRecords, 1)
	})
}
