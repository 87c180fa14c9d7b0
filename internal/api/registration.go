package api

import (
	"errors"
	"log/slog"
	"time"

	"nirvana/internal/mailer"
	"nirvana/internal/middleware"
	"nirvana/internal/model"
	"nirvana/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RegisterProgramModal handles the lightweight registration path that does
// not require an account. Repeated submissions create repeated rows.
func (h *Handler) RegisterProgramModal(c *fiber.Ctx) error {
	var req ProgramRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Program name, full name, and phone are required",
		})
	}
	if err := h.validate.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Program name, full name, and phone are required",
		})
	}

	registration := model.ProgramRegistration{
		ID:          uuid.New(),
		ProgramName: req.ProgramName,
		FullName:    req.FullName,
		Phone:       req.Phone,
		Email:       req.Email,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.repo.CreateProgramRegistration(registration); err != nil {
		slog.Error("Failed to create program registration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if req.Email == "" {
		return c.JSON(fiber.Map{"message": "Registration successful!"})
	}

	h.mail.Dispatch(mailer.ProgramConfirmation(req.Email, req.ProgramName))
	return c.JSON(fiber.Map{
		"message": "Registration successful! Confirmation email has been sent to your email address.",
	})
}

// RegisterSessionModal handles modal registration for a single session. The
// session id is a loose reference: the program behind it may be gone, in
// which case the confirmation falls back to a generic schedule note.
func (h *Handler) RegisterSessionModal(c *fiber.Ctx) error {
	var req SessionRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}
	if err := h.validate.Validate(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "All fields are required"})
	}

	registration := model.SessionRegistration{
		ID:          uuid.New(),
		SessionID:   sessionID,
		SessionName: req.SessionName,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.repo.CreateSessionRegistration(registration); err != nil {
		slog.Error("Failed to create session registration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	sessionTime := "See schedule"
	if program, err := h.repo.GetProgramByID(sessionID); err == nil && program.StartTime != "" && program.EndTime != "" {
		sessionTime = program.StartTime + " - " + program.EndTime
	}

	h.mail.Dispatch(mailer.SessionConfirmation(req.Email, req.Name, req.SessionName, sessionTime))
	return c.JSON(fiber.Map{
		"message": "Session registration successful! Confirmation email has been sent.",
	})
}

// RegisterForProgram is the account-bound path: one registration per
// (user, program) pair, checked before insert.
func (h *Handler) RegisterForProgram(c *fiber.Ctx) error {
	principal := middleware.PrincipalFromCtx(c)
	if !principal.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please login first"})
	}

	programID, err := uuid.Parse(c.Params("program_id"))
	if err != nil {
		return fiber.ErrNotFound
	}

	program, err := h.repo.GetProgramByID(programID)
	if err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return fiber.ErrNotFound
		}
		slog.Error("Failed to get program", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if _, err := h.repo.GetRegistrationByUserAndProgram(principal.UserID, programID); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Already registered for this program"})
	} else if !errors.Is(err, repository.ErrRegistrationNotFound) {
		slog.Error("Failed to check existing registration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	registration := model.Registration{
		ID:        uuid.New(),
		UserID:    principal.UserID,
		ProgramID: programID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateRegistration(registration); err != nil {
		slog.Error("Failed to create registration", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if user, err := h.repo.GetUserByID(principal.UserID); err == nil {
		programTime := program.Time
		if display, ok := displayTimeRange(program.StartTime, program.EndTime); ok {
			programTime = display
		}
		h.mail.Dispatch(mailer.RegistrationConfirmation(
			user.Email, user.Name, program.Name,
			program.Date.Format("2006-01-02"), programTime, string(program.Type)))
	} else {
		slog.Error("Failed to get user for confirmation email", "error", err)
	}

	return c.JSON(fiber.Map{"message": "Registration successful! Confirmation email sent."})
}
