package config

import (
	"log"

	"smart-elib/internal/adapters/persistence/models"
	"smart-elib/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedStarterCatalog(); err != nil {
		log.Printf("⚠️ Catalog seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		StudentID: "ADMIN001",
		Name:      "Library Admin",
		Email:     "admin@smart.ac.th",
		Password:  hashedPassword,
		Role:      "ADMIN",
		IsActive:  true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedStarterCatalog seeds a small starter book catalog so a fresh
// development database is usable immediately
func (s *Seeder) seedStarterCatalog() error {
	var count int64
	s.db.Model(&models.Book{}).Count(&count)
	if count > 0 {
		return nil // Catalog already has books
	}

	books := []models.Book{
		{BookCode: "CS-001", Title: "Structure and Interpretation of Computer Programs", Author: "Abelson & Sussman", Category: "Computer Science", IsAvailable: true},
		{BookCode: "CS-002", Title: "The Pragmatic Programmer", Author: "Hunt & Thomas", Category: "Computer Science", IsAvailable: true},
		{BookCode: "MATH-001", Title: "Calculus", Author: "James Stewart", Category: "Mathematics", IsAvailable: true},
		{BookCode: "PHY-001", Title: "Fundamentals of Physics", Author: "Halliday & Resnick", Category: "Physics", IsAvailable: true},
		{BookCode: "LIT-001", Title: "One Hundred Years of Solitude", Author: "Gabriel Garcia Marquez", Category: "Literature", IsAvailable: true},
	}

	if err := s.db.Create(&books).Error; err != nil {
		return err
	}

	log.Printf("✅ Starter catalog created: %d books", len(books))
	return nil
}
