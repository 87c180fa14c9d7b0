package api

import (
	"log/slog"
	"time"

	"nirvana/internal/config"
	"nirvana/internal/mailer"
	"nirvana/internal/middleware"
	"nirvana/internal/repository"
	"nirvana/internal/storage"
	"nirvana/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

type Handler struct {
	store    *session.Store
	repo     repository.Repository
	photos   storage.Storage
	mail     *mailer.Dispatcher
	validate *validator.Validator
	cfg      *config.Config
}

func NewHandler(store *session.Store, repo repository.Repository, photos storage.Storage, mail *mailer.Dispatcher, cfg *config.Config) Handler {
	return Handler{
		store:    store,
		repo:     repo,
		photos:   photos,
		mail:     mail,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// RegisterRoutes wires every route onto the app. The principal middleware
// runs first so each handler sees a resolved identity in locals.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(middleware.WithPrincipal(h.store))

	// Public site
	app.Get("/", h.ShowHomePage)
	app.Get("/programs", h.ShowProgramsPage)
	app.Get("/about", h.ShowAboutPage)
	app.Get("/contact", h.ShowContactPage)
	app.Post("/contact", h.SubmitContact)
	app.Get("/blog", h.ShowBlogPage)
	app.Get("/sitemap.xml", h.ShowSitemap)
	app.Get("/robots.txt", h.ShowRobots)
	app.Get("/program-image/:id", h.ServeProgramImage)
	app.Get("/health", h.Health)

	// Registrations
	app.Post("/register_program_modal", h.RegisterProgramModal)
	app.Post("/register_session_modal", h.RegisterSessionModal)
	app.Post("/register/:program_id", h.RegisterForProgram)

	// User accounts
	app.Get("/register", h.ShowRegisterPage)
	app.Post("/register", h.RegisterUser)
	app.Get("/login", h.ShowLoginPage)
	app.Post("/login", h.Login)
	app.Get("/logout", h.Logout)

	// Admin back office
	app.Get("/admin/login", h.ShowAdminLoginPage)
	app.Post("/admin/login", h.AdminLogin)
	app.Get("/admin/logout", h.AdminLogout)

	admin := app.Group("/admin", middleware.RequireAdmin())
	admin.Get("/dashboard", h.AdminDashboard)
	admin.Get("/programs", h.AdminPrograms)
	admin.Post("/programs", h.AdminCreateProgram)
	admin.Get("/programs/:id/edit", h.AdminShowEditProgram)
	admin.Post("/programs/:id/edit", h.AdminEditProgram)
	admin.Post("/programs/:id/delete", h.AdminDeleteProgram)
	admin.Get("/users", h.AdminUsers)
	admin.Get("/contacts", h.AdminContacts)
	admin.Post("/contacts/:id/reply", h.AdminReplyContact)
	admin.Post("/contacts/:id/delete", h.AdminDeleteContact)
	admin.Get("/program-registrations", h.AdminProgramRegistrations)
	admin.Get("/session-registrations", h.AdminSessionRegistrations)
	admin.Get("/blog", h.AdminBlog)
	admin.Post("/blog", h.AdminCreateBlogPost)
	admin.Post("/blog/:id/delete", h.AdminDeleteBlogPost)
}

// Health reports whether the database connection is alive. Used by
// deployment probes.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.repo.HealthCheck(c.Context()); err != nil {
		slog.Error("Health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  "database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// render wraps c.Render with the layout and the cross-page bind values
// (flash message, login state).
func (h *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}

	message, category := h.popFlash(c)
	data["Flash"] = message
	data["FlashType"] = category
	data["LoggedIn"] = middleware.PrincipalFromCtx(c).Authenticated()

	return c.Render(name, data, "layouts/main")
}

func (h *Handler) flash(c *fiber.Ctx, category, message string) {
	sess, err := h.store.Get(c)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return
	}
	sess.Set("flash", message)
	sess.Set("flash_type", category)
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
}

func (h *Handler) popFlash(c *fiber.Ctx) (message, category string) {
	sess, err := h.store.Get(c)
	if err != nil {
		return "", ""
	}
	message, _ = sess.Get("flash").(string)
	category, _ = sess.Get("flash_type").(string)
	if message == "" {
		return "", ""
	}
	sess.Delete("flash")
	sess.Delete("flash_type")
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	return message, category
}
