package model

import "time"

// Categories is the fixed set of catalog categories.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Science",
	"Technology",
	"History",
	"Biography",
	"Mystery",
	"Romance",
	"Fantasy",
	"Self-Help",
	"Business",
	"Literature",
}

// IsValidCategory reports whether category is one of the fixed set.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Book represents a title in the library catalog together with its copy counts.
type Book struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:200;not null;index"`
	Author          string    `json:"author" gorm:"size:100;not null;index"`
	ISBN            string    `json:"isbn" gorm:"uniqueIndex;size:13;not null"` // stored normalized (digits only)
	Category        string    `json:"category" gorm:"size:50;not null;index"`
	Description     string    `json:"description" gorm:"type:text"`
	CoverImage      string    `json:"cover_image" gorm:"size:200;default:'default_book.jpg'"`
	TotalCopies     int       `json:"total_copies" gorm:"not null;default:1"`
	AvailableCopies int       `json:"available_copies" gorm:"not null;default:1"`
	PublicationYear int       `json:"publication_year"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	BorrowRecords []BorrowRecord `json:"-" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"`
}

// IsAvailable reports whether at least one copy can be borrowed.
func (b *Book) IsAvailable() bool {
	return b.AvailableCopies > 0
}
