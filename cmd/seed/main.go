package main

import (
	"log"
	"time"

	"nirvana/internal/config"
	"nirvana/internal/database"
	"nirvana/internal/model"
	"nirvana/internal/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database with sample programs, blog posts and the
// default admin account.
func main() {
	_ = godotenv.Load()
	cfg := config.NewConfig()

	db, err := database.NewPostgresDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("Failed to close database connection: %v", err)
		}
	}()

	repo := repository.NewDatabaseRepository(db)

	if err := repo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	hasAdmin, err := repo.HasAdmin()
	if err != nil {
		log.Fatalf("Failed to check for admin account: %v", err)
	}
	if !hasAdmin {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		admin := model.User{
			ID:           uuid.New(),
			Name:         cfg.Admin.Name,
			Email:        cfg.Admin.Email,
			PasswordHash: string(hash),
			IsAdmin:      true,
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.CreateUser(admin); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Printf("Created admin account: %s", admin.Email)
	}

	programs := []model.Program{
		{
			ID:          uuid.New(),
			Name:        "Morning Meditation",
			Type:        model.ProgramTypeOffline,
			Time:        "06:00 AM - 07:00 AM",
			Date:        time.Now().UTC().AddDate(0, 0, 7),
			StartTime:   "06:00",
			EndTime:     "07:00",
			Description: "Start your day with guided breath awareness and silent sitting.",
			Status:      model.ProgramStatusActive,
			Category:    "Meditation",
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:          uuid.New(),
			Name:        "Vipassana Introduction",
			Type:        model.ProgramTypeOnline,
			Time:        "07:30 PM - 09:00 PM",
			Date:        time.Now().UTC().AddDate(0, 0, 14),
			StartTime:   "19:30",
			EndTime:     "21:00",
			Description: "A live online introduction to insight meditation practice.",
			Status:      model.ProgramStatusActive,
			Category:    "Workshop",
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:          uuid.New(),
			Name:        "Weekend Silent Retreat",
			Type:        model.ProgramTypeOffline,
			Time:        "Full day",
			Date:        time.Now().UTC().AddDate(0, 1, 0),
			Description: "Two days of noble silence, walking meditation and dhamma talks.",
			Status:      model.ProgramStatusActive,
			Category:    "Retreat",
			CreatedAt:   time.Now().UTC(),
		},
	}
	for _, program := range programs {
		if err := repo.CreateProgram(program); err != nil {
			log.Fatalf("Failed to create program %q: %v", program.Name, err)
		}
		log.Printf("Created program: %s", program.Name)
	}

	posts := []model.BlogPost{
		{
			ID:        uuid.New(),
			Title:     "Why We Sit",
			Content:   "Meditation is not about emptying the mind but about seeing it clearly. In this post we look at what actually happens during a sitting.",
			Author:    cfg.Admin.Name,
			CreatedAt: time.Now().UTC(),
		},
		{
			ID:        uuid.New(),
			Title:     "Preparing for Your First Retreat",
			Content:   "What to bring, what to expect, and how to make the most of a weekend of silence.",
			Author:    cfg.Admin.Name,
			CreatedAt: time.Now().UTC(),
		},
	}
	for _, post := range posts {
		if err := repo.CreateBlogPost(post); err != nil {
			log.Fatalf("Failed to create blog post %q: %v", post.Title, err)
		}
		log.Printf("Created blog post: %s", post.Title)
	}

	log.Println("Seed data created successfully")
}
