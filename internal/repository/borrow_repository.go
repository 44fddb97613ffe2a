package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"digilib/internal/model"
)

// BorrowRepository defines lending-ledger persistence operations.
//
// The availability counters live on the books table but are mutated here
// because every counter change pairs with a ledger mutation inside the same
// transaction.
type BorrowRepository interface {
	Create(ctx context.Context, record *model.BorrowRecord) error
	FindByIDForUpdate(ctx context.Context, id uint) (*model.BorrowRecord, error)
	FindOpenByUserAndBook(ctx context.Context, userID, bookID uint) (*model.BorrowRecord, error)
	MarkReturned(ctx context.Context, id uint, returnedAt time.Time) error
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	ListByUserAndStatus(ctx context.Context, userID uint, status model.BorrowStatus) ([]model.BorrowRecord, error)
	ListByStatus(ctx context.Context, status model.BorrowStatus) ([]model.BorrowRecord, error)
	ListAll(ctx context.Context) ([]model.BorrowRecord, error)
	ListRecent(ctx context.Context, limit int) ([]model.BorrowRecord, error)
	CountByStatus(ctx context.Context, status model.BorrowStatus) (int64, error)
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID uint, status model.BorrowStatus) (int64, error)
	DecrementAvailableCopies(ctx context.Context, bookID uint) (int64, error)
	IncrementAvailableCopies(ctx context.Context, bookID uint) error
	// WithTransaction executes fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo BorrowRepository) error) error
}

type borrowRepository struct {
	db *gorm.DB
}

// NewBorrowRepository creates a new borrow repository.
func NewBorrowRepository(db *gorm.DB) BorrowRepository {
	return &borrowRepository{db: db}
}

// Create creates a new borrow record.
func (r *borrowRepository) Create(ctx context.Context, record *model.BorrowRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByIDForUpdate finds a borrow record by ID with a row-level lock,
// guarding against concurrent double-returns.
func (r *borrowRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.BorrowRecord, error) {
	var record model.BorrowRecord
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindOpenByUserAndBook finds a borrowed or overdue record for the pair.
func (r *borrowRepository) FindOpenByUserAndBook(ctx context.Context, userID, bookID uint) (*model.BorrowRecord, error) {
	var record model.BorrowRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ? AND status IN ?",
			userID, bookID, []model.BorrowStatus{model.BorrowStatusBorrowed, model.BorrowStatusOverdue}).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkReturned finalizes a record. The status predicate makes the update a
// no-op if the record was already returned.
func (r *borrowRepository) MarkReturned(ctx context.Context, id uint, returnedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.BorrowRecord{}).
		Where("id = ? AND status <> ?", id, model.BorrowStatusReturned).
		Updates(map[string]interface{}{
			"returned_at": returnedAt,
			"status":      model.BorrowStatusReturned,
		}).Error
}

// MarkOverdue flips every past-due open record to overdue and returns the
// number of rows changed. Safe to run repeatedly.
func (r *borrowRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.BorrowRecord{}).
		Where("status = ? AND due_date < ?", model.BorrowStatusBorrowed, now).
		Update("status", model.BorrowStatusOverdue)
	return res.RowsAffected, res.Error
}

// ListByUserAndStatus returns a user's records in the given status, newest borrow first.
func (r *borrowRepository) ListByUserAndStatus(ctx context.Context, userID uint, status model.BorrowStatus) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).Preload("Book").
		Where("user_id = ? AND status = ?", userID, status).
		Order("borrowed_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListByStatus returns all records in the given status, newest borrow first.
func (r *borrowRepository) ListByStatus(ctx context.Context, status model.BorrowStatus) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").
		Where("status = ?", status).
		Order("borrowed_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll returns every borrow record, newest borrow first.
func (r *borrowRepository) ListAll(ctx context.Context) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").
		Order("borrowed_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListRecent returns the most recent borrow records.
func (r *borrowRepository) ListRecent(ctx context.Context, limit int) ([]model.BorrowRecord, error) {
	var records []model.BorrowRecord
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").
		Order("borrowed_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountByStatus counts records in the given status.
func (r *borrowRepository) CountByStatus(ctx context.Context, status model.BorrowStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BorrowRecord{}).
		Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOpenByBook counts borrowed or overdue records for a book.
func (r *borrowRepository) CountOpenByBook(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BorrowRecord{}).
		Where("book_id = ? AND status IN ?",
			bookID, []model.BorrowStatus{model.BorrowStatusBorrowed, model.BorrowStatusOverdue}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByUserAndStatus counts a user's records in the given status.
func (r *borrowRepository) CountByUserAndStatus(ctx context.Context, userID uint, status model.BorrowStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.BorrowRecord{}).
		Where("user_id = ? AND status = ?", userID, status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DecrementAvailableCopies atomically claims one copy of a book. The guard
// predicate means zero rows affected when no copy is left, which closes the
// last-copy race between concurrent borrowers.
func (r *borrowRepository) DecrementAvailableCopies(ctx context.Context, bookID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ? AND available_copies > 0", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
	return res.RowsAffected, res.Error
}

// IncrementAvailableCopies releases one copy of a book back to the shelf.
func (r *borrowRepository) IncrementAvailableCopies(ctx context.Context, bookID uint) error {
	return r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error
}

// WithTransaction executes a function within a database transaction.
func (r *borrowRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo BorrowRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &borrowRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
