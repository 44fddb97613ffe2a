package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"digilib/internal/config"
	"digilib/internal/db"
	"digilib/internal/model"
	"digilib/internal/repository"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

var seedUsers = []seedUser{
	{Username: "admin", Email: "admin@library.com", Password: "admin123!", Role: model.RoleStaff},
	{Username: "john_doe", Email: "john@member.com", Password: "member123", Role: model.RoleMember},
	{Username: "jane_smith", Email: "jane@member.com", Password: "member123", Role: model.RoleMember},
	{Username: "bob_wilson", Email: "bob@member.com", Password: "member123", Role: model.RoleMember},
}

var seedBooks = []model.Book{
	{Title: "Python Programming", Author: "John Smith", ISBN: "9781234567897", Category: "Technology",
		Description: "A comprehensive guide to Python programming for beginners and experts.", TotalCopies: 5, PublicationYear: 2023},
	{Title: "Web Development Fundamentals", Author: "Sarah Johnson", ISBN: "9781234567898", Category: "Technology",
		Description: "Learn HTML, CSS, JavaScript, and modern web development practices.", TotalCopies: 4, PublicationYear: 2022},
	{Title: "Data Science Essentials", Author: "Michael Brown", ISBN: "9781234567899", Category: "Science",
		Description: "Master data analysis, visualization, and machine learning basics.", TotalCopies: 3, PublicationYear: 2023},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "9780743273565", Category: "Fiction",
		Description: "A classic American novel set in the Jazz Age.", TotalCopies: 6, PublicationYear: 1925},
	{Title: "1984", Author: "George Orwell", ISBN: "9780451524935", Category: "Fiction",
		Description: "A dystopian social science fiction novel.", TotalCopies: 5, PublicationYear: 1949},
	{Title: "Sapiens", Author: "Yuval Noah Harari", ISBN: "9780062316097", Category: "History",
		Description: "A brief history of humankind from the Stone Age to modern times.", TotalCopies: 4, PublicationYear: 2011},
	{Title: "Atomic Habits", Author: "James Clear", ISBN: "9780735211292", Category: "Self-Help",
		Description: "An easy and proven way to build good habits and break bad ones.", TotalCopies: 7, PublicationYear: 2018},
	{Title: "The Lean Startup", Author: "Eric Ries", ISBN: "9780307887894", Category: "Business",
		Description: "How constant innovation creates radically successful businesses.", TotalCopies: 3, PublicationYear: 2011},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.Book{}, &model.BorrowRecord{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	bookRepo := repository.NewBookRepository(gormDB)

	for _, su := range seedUsers {
		if _, err := userRepo.FindByUsername(ctx, su.Username); err == nil {
			log.Printf("user %q already exists, skipping", su.Username)
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("check user %q: %v", su.Username, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), 10)
		if err != nil {
			log.Fatalf("hash password for %q: %v", su.Username, err)
		}

		user := &model.User{
			Username:     su.Username,
			Email:        su.Email,
			PasswordHash: string(hash),
			Role:         su.Role,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("create user %q: %v", su.Username, err)
		}
		log.Printf("created %s account %q", su.Role, su.Username)
	}

	for _, sb := range seedBooks {
		if _, err := bookRepo.FindByISBN(ctx, sb.ISBN); err == nil {
			log.Printf("book %q already exists, skipping", sb.Title)
			continue
		} else if err != gorm.ErrRecordNotFound {
			log.Fatalf("check book %q: %v", sb.Title, err)
		}

		book := sb
		book.AvailableCopies = book.TotalCopies
		if err := bookRepo.Create(ctx, &book); err != nil {
			log.Fatalf("create book %q: %v", sb.Title, err)
		}
		log.Printf("created book %q (%d copies)", book.Title, book.TotalCopies)
	}

	log.Println("Seed data created successfully")
	log.Println("Staff login    - username: admin, password: admin123!")
	log.Println("Member login   - username: john_doe, password: member123")
}
