package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"nirvana/internal/api"
	"nirvana/internal/config"
	"nirvana/internal/database"
	"nirvana/internal/mailer"
	"nirvana/internal/middleware"
	"nirvana/internal/model"
	"nirvana/internal/repository"
	"nirvana/internal/storage"
	"nirvana/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := config.NewConfig()

	db, err := database.NewPostgresDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	repo := repository.NewDatabaseRepository(db)

	if err := repo.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seedAdmin(repo, cfg.Admin); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	// Session store backed by the same Postgres instance
	sessionStorage := postgres.New(postgres.Config{
		ConnectionURI: cfg.Database.URL,
		Table:         "sessions",
		Reset:         false, // Don't reset the table on startup
	})

	store := session.New(session.Config{
		Storage:        sessionStorage,
		KeyLookup:      "cookie:session_id",
		CookieDomain:   "",
		CookiePath:     "/",
		CookieSecure:   cfg.Server.Environment == config.EnvironmentProduction,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     24 * time.Hour,
	})

	photos, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	mail := mailer.NewDispatcher(slog.Default(), mailer.NewSMTPMailer(cfg.Mail))

	handler := api.NewHandler(store, repo, photos, mail, cfg)

	app := fiber.New(fiber.Config{
		Views:        view.NewEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(middleware.RequestLogger())

	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       view.StaticFS(),
		PathPrefix: "static",
	}))

	handler.RegisterRoutes(app)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	slog.Info("Starting server", "addr", addr)
	log.Panic(app.Listen(addr))
}

// seedAdmin creates the default back-office account on first boot so the
// dashboard is reachable out of the box.
func seedAdmin(repo repository.Repository, cfg config.AdminConfig) error {
	exists, err := repo.HasAdmin()
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		ID:           uuid.New(),
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(admin); err != nil {
		return err
	}
	slog.Info("Seeded default admin account", "email", cfg.Email)
	return nil
}
