package api

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"nirvana/internal/middleware"
	"nirvana/internal/model"
	"nirvana/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) ShowRegisterPage(c *fiber.Ctx) error {
	return h.render(c, "register", fiber.Map{"Title": "Sign up"})
}

func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	var req RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		h.flash(c, "error", "Invalid form data")
		return c.Redirect("/register", fiber.StatusFound)
	}
	if err := h.validate.Validate(req); err != nil {
		h.flash(c, "error", "Name, email, and password are required")
		return c.Redirect("/register", fiber.StatusFound)
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	if _, err := h.repo.GetUserByEmail(email); err == nil {
		h.flash(c, "error", "Email already registered")
		return c.Redirect("/register", fiber.StatusFound)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		slog.Error("Failed to look up user by email", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	user := model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.repo.CreateUser(user); err != nil {
		slog.Error("Failed to create user", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	if err := h.setSession(c, middleware.SessionKeyUserID, user.ID.String()); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save session")
	}

	slog.Info("User registered", "email", email, "user_id", user.ID, "ip", c.IP())
	h.flash(c, "success", "Registration successful!")
	return c.Redirect("/", fiber.StatusFound)
}

func (h *Handler) ShowLoginPage(c *fiber.Ctx) error {
	return h.render(c, "login", fiber.Map{"Title": "Login"})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		h.flash(c, "error", "Invalid credentials")
		return h.render(c, "login", fiber.Map{"Title": "Login"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.repo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.flash(c, "error", "Invalid credentials")
			return h.render(c, "login", fiber.Map{"Title": "Login"})
		}
		slog.Error("Failed to get user by email", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.flash(c, "error", "Invalid credentials")
		return h.render(c, "login", fiber.Map{"Title": "Login"})
	}

	if err := h.setSession(c, middleware.SessionKeyUserID, user.ID.String()); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save session")
	}

	slog.Info("User logged in", "email", email, "user_id", user.ID, "ip", c.IP())
	h.flash(c, "success", "Login successful!")
	return c.Redirect("/", fiber.StatusFound)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.clearSession(c, middleware.SessionKeyUserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save session")
	}
	return c.Redirect("/", fiber.StatusFound)
}

func (h *Handler) ShowAdminLoginPage(c *fiber.Ctx) error {
	return h.render(c, "admin/login", fiber.Map{"Title": "Admin Login"})
}

func (h *Handler) AdminLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		h.flash(c, "error", "Invalid credentials")
		return h.render(c, "admin/login", fiber.Map{"Title": "Admin Login"})
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.repo.GetAdminByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.flash(c, "error", "Invalid credentials")
			return h.render(c, "admin/login", fiber.Map{"Title": "Admin Login"})
		}
		slog.Error("Failed to get admin by email", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.flash(c, "error", "Invalid credentials")
		return h.render(c, "admin/login", fiber.Map{"Title": "Admin Login"})
	}

	sess, err := h.store.Get(c)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Session error")
	}
	sess.Set(middleware.SessionKeyAdminID, user.ID.String())
	sess.Set(middleware.SessionKeyIsAdmin, true)
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save session")
	}

	slog.Info("Admin logged in", "email", email, "admin_id", user.ID, "ip", c.IP())
	return c.Redirect("/admin/dashboard", fiber.StatusFound)
}

func (h *Handler) AdminLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Session error")
	}
	sess.Delete(middleware.SessionKeyAdminID)
	sess.Delete(middleware.SessionKeyIsAdmin)
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to save session")
	}
	return c.Redirect("/admin/login", fiber.StatusFound)
}

func (h *Handler) setSession(c *fiber.Ctx, key string, value any) error {
	sess, err := h.store.Get(c)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return err
	}
	sess.Set(key, value)
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
		return err
	}
	return nil
}

func (h *Handler) clearSession(c *fiber.Ctx, keys ...string) error {
	sess, err := h.store.Get(c)
	if err != nil {
		slog.Error("Failed to get session", "error", err)
		return err
	}
	for _, key := range keys {
		sess.Delete(key)
	}
	if err := sess.Save(); err != nil {
		slog.Error("Failed to save session", "error", err)
		return err
	}
	return nil
}
