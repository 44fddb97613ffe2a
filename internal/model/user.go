package model

import "time"

// Role controls what a user is allowed to do.
type Role string

const (
	// RoleMember can borrow and return books.
	RoleMember Role = "member"
	// RoleStaff manages the catalog and sees all borrow records.
	RoleStaff Role = "staff"
)

// User represents a registered library user (member or staff).
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'member';index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	BorrowRecords []BorrowRecord `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// IsStaff reports whether the user holds the staff role.
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
