package model

import "time"

// BorrowStatus represents the lifecycle state of a borrow record.
type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "borrowed"
	BorrowStatusOverdue  BorrowStatus = "overdue"
	BorrowStatusReturned BorrowStatus = "returned"
)

// BorrowRecord is one lending-ledger entry linking a user to a book.
//
// The due date is fixed at creation and never recalculated. Overdue is a
// derived state: an open record flips borrowed -> overdue once the due date
// has passed, and the only transition out of either open state is returned,
// which is terminal.
type BorrowRecord struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	UserID     uint         `json:"user_id" gorm:"not null;index"`
	BookID     uint         `json:"book_id" gorm:"not null;index"`
	BorrowedAt time.Time    `json:"borrowed_at" gorm:"not null"`
	DueDate    time.Time    `json:"due_date" gorm:"not null"`
	ReturnedAt *time.Time   `json:"returned_at,omitempty"`
	Status     BorrowStatus `json:"status" gorm:"type:varchar(20);not null;default:'borrowed';index"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// IsOpen reports whether the record still counts against book availability.
func (r *BorrowRecord) IsOpen() bool {
	return r.Status == BorrowStatusBorrowed || r.Status == BorrowStatusOverdue
}

// IsOverdue reports whether the record is past due at the given instant.
// Returned records are never overdue.
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	if r.Status == BorrowStatusReturned {
		return false
	}
	return now.After(r.DueDate)
}

// DaysUntilDue returns whole days until the due date, negative when past due.
func (r *BorrowRecord) DaysUntilDue(now time.Time) int {
	return int(r.DueDate.Sub(now).Hours() / 24)
}
