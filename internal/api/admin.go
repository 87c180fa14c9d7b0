package api

import (
	"errors"
	"log/slog"
	"time"

	"nirvana/internal/mailer"
	"nirvana/internal/model"
	"nirvana/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const dashboardRecentLimit = 10

func (h *Handler) AdminDashboard(c *fiber.Ctx) error {
	programs, err := h.repo.ListPrograms()
	if err != nil {
		slog.Error("Failed to list programs", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	users, err := h.repo.ListUsers()
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	contacts, err := h.repo.ListContacts("")
	if err != nil {
		slog.Error("Failed to list contacts", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	if len(contacts) > dashboardRecentLimit {
		contacts = contacts[:dashboardRecentLimit]
	}
	registrations, err := h.repo.ListRegistrationDetails(dashboardRecentLimit)
	if err != nil {
		slog.Error("Failed to list registrations", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	programRegs, err := h.repo.ListProgramRegistrations(dashboardRecentLimit)
	if err != nil {
		slog.Error("Failed to list program registrations", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	sessionRegs, err := h.repo.ListSessionRegistrations(dashboardRecentLimit)
	if err != nil {
		slog.Error("Failed to list session registrations", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	return h.render(c, "admin/dashboard", fiber.Map{
		"Title":                "Dashboard",
		"Programs":             programs,
		"Users":                users,
		"Contacts":             contacts,
		"Registrations":        registrations,
		"ProgramRegistrations": programRegs,
		"SessionRegistrations": sessionRegs,
	})
}

func (h *Handler) AdminPrograms(c *fiber.Ctx) error {
	programs, err := h.repo.ListPrograms()
	if err != nil {
		slog.Error("Failed to list programs", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "admin/programs", fiber.Map{"Title": "Programs", "Programs": programs})
}

func (h *Handler) AdminCreateProgram(c *fiber.Ctx) error {
	var form ProgramForm
	if err := c.BodyParser(&form); err != nil {
		h.flash(c, "error", "Invalid form data")
		return c.Redirect("/admin/programs", fiber.StatusFound)
	}
	if err := h.validate.Validate(form); err != nil {
		h.flash(c, "error", "Name, type, and date are required")
		return c.Redirect("/admin/programs", fiber.StatusFound)
	}

	date, err := time.Parse("2006-01-02", form.Date)
	if err != nil {
		h.flash(c, "error", "Invalid date format")
		return c.Redirect("/admin/programs", fiber.StatusFound)
	}

	display, start, end := resolveProgramTimes(form.Time, form.StartTime, form.EndTime)

	status := model.ProgramStatus(form.Status)
	if status == "" {
		status = model.ProgramStatusActive
	}

	program := model.Program{
		ID:          uuid.New(),
		Name:        form.Name,
		Type:        model.ProgramType(form.Type),
		Time:        display,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Description: form.Description,
		Status:      status,
		Category:    form.Category,
		CreatedAt:   time.Now().UTC(),
	}

	program.Photo = h.storeUploadedPhoto(c, program.ID)

	if err := h.repo.CreateProgram(program); err != nil {
		slog.Error("Failed to create program", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.flash(c, "success", "Program created successfully!")
	return c.Redirect("/admin/programs", fiber.StatusFound)
}

func (h *Handler) AdminShowEditProgram(c *fiber.Ctx) error {
	program, err := h.getProgramParam(c)
	if err != nil {
		return err
	}
	return h.render(c, "admin/edit_program", fiber.Map{
		"Title":     "Edit Program",
		"Program":   program,
		"DateValue": program.Date.Format("2006-01-02"),
	})
}

func (h *Handler) AdminEditProgram(c *fiber.Ctx) error {
	program, err := h.getProgramParam(c)
	if err != nil {
		return err
	}

	var form ProgramForm
	if err := c.BodyParser(&form); err != nil {
		h.flash(c, "error", "Invalid form data")
		return c.Redirect("/admin/programs", fiber.StatusFound)
	}
	if err := h.validate.Validate(form); err != nil {
		h.flash(c, "error", "Name, type, and date are required")
		return c.Redirect("/admin/programs", fiber.StatusFound)
	}

	date, err := time.Parse("2006-01-02", form.Date)
	if err != nil {
		h.flash(c, "error", "Invalid date format")
		return c.Redirect("/admin/programs", fiber.StatusFound)
	}

	display, start, end := resolveProgramTimes(form.Time, form.StartTime, form.EndTime)

	program.Name = form.Name
	program.Type = model.ProgramType(form.Type)
	program.Time = display
	program.Date = date
	program.StartTime = start
	program.EndTime = end
	program.Description = form.Description
	program.Status = model.ProgramStatus(form.Status)
	if program.Status == "" {
		program.Status = model.ProgramStatusActive
	}
	program.Category = form.Category

	// A new upload replaces whichever variant the old photo used.
	if photo := h.storeUploadedPhoto(c, program.ID); !photo.Empty() {
		if program.Photo.Key != "" && program.Photo.Key != photo.Key {
			if err := h.photos.Remove(c.Context(), program.Photo.Key); err != nil {
				slog.Warn("Failed to remove old program photo", "key", program.Photo.Key, "error", err)
			}
		}
		program.Photo = photo
	}

	if err := h.repo.UpdateProgram(program); err != nil {
		slog.Error("Failed to update program", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.flash(c, "success", "Program updated successfully!")
	return c.Redirect("/admin/programs", fiber.StatusFound)
}

func (h *Handler) AdminDeleteProgram(c *fiber.Ctx) error {
	program, err := h.getProgramParam(c)
	if err != nil {
		return err
	}

	if err := h.repo.DeleteProgram(program.ID); err != nil {
		slog.Error("Failed to delete program", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	if program.Photo.Key != "" {
		if err := h.photos.Remove(c.Context(), program.Photo.Key); err != nil {
			slog.Warn("Failed to remove program photo", "key", program.Photo.Key, "error", err)
		}
	}

	h.flash(c, "success", "Program deleted successfully!")
	return c.Redirect("/admin/programs", fiber.StatusFound)
}

func (h *Handler) AdminUsers(c *fiber.Ctx) error {
	users, err := h.repo.ListUsers()
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "admin/users", fiber.Map{"Title": "Users", "Users": users})
}

func (h *Handler) AdminContacts(c *fiber.Ctx) error {
	search := c.Query("search")
	contacts, err := h.repo.ListContacts(search)
	if err != nil {
		slog.Error("Failed to list contacts", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "admin/contacts", fiber.Map{"Title": "Contacts", "Contacts": contacts, "Search": search})
}

func (h *Handler) AdminReplyContact(c *fiber.Ctx) error {
	if _, err := h.getContactParam(c); err != nil {
		return err
	}

	email := c.FormValue("email")
	subject := c.FormValue("subject")
	message := c.FormValue("message")

	// Deliberately synchronous: the admin is told whether the reply went out.
	if err := h.mail.Send(c.Context(), mailer.Reply(email, subject, message)); err != nil {
		slog.Error("Failed to send reply", "to", email, "error", err)
		h.flash(c, "error", "Failed to send reply: "+err.Error())
	} else {
		h.flash(c, "success", "Reply sent to "+email)
	}

	return c.Redirect("/admin/contacts", fiber.StatusFound)
}

func (h *Handler) AdminDeleteContact(c *fiber.Ctx) error {
	contact, err := h.getContactParam(c)
	if err != nil {
		return err
	}

	if err := h.repo.DeleteContact(contact.ID); err != nil {
		slog.Error("Failed to delete contact", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.flash(c, "success", "Contact message deleted successfully!")
	return c.Redirect("/admin/contacts", fiber.StatusFound)
}

type programRegGroup struct {
	Name          string
	Registrations []model.ProgramRegistration
}

// AdminProgramRegistrations groups by the denormalized program_name string:
// the table keeps no program id, so the name snapshot is the only grouping
// key available. Two programs sharing a name merge in this report.
func (h *Handler) AdminProgramRegistrations(c *fiber.Ctx) error {
	registrations, err := h.repo.ListProgramRegistrations(0)
	if err != nil {
		slog.Error("Failed to list program registrations", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	var groups []programRegGroup
	index := make(map[string]int)
	for _, reg := range registrations {
		i, ok := index[reg.ProgramName]
		if !ok {
			i = len(groups)
			index[reg.ProgramName] = i
			groups = append(groups, programRegGroup{Name: reg.ProgramName})
		}
		groups[i].Registrations = append(groups[i].Registrations, reg)
	}

	return h.render(c, "admin/program_registrations", fiber.Map{
		"Title":  "Program Registrations",
		"Groups": groups,
	})
}

type sessionRegGroup struct {
	Name          string
	Registrations []model.SessionRegistration
}

// AdminSessionRegistrations groups by session id, with the display name
// resolved from the newest row of each group.
func (h *Handler) AdminSessionRegistrations(c *fiber.Ctx) error {
	registrations, err := h.repo.ListSessionRegistrations(0)
	if err != nil {
		slog.Error("Failed to list session registrations", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	var groups []sessionRegGroup
	index := make(map[uuid.UUID]int)
	for _, reg := range registrations {
		i, ok := index[reg.SessionID]
		if !ok {
			i = len(groups)
			index[reg.SessionID] = i
			groups = append(groups, sessionRegGroup{Name: reg.SessionName})
		}
		groups[i].Registrations = append(groups[i].Registrations, reg)
	}

	return h.render(c, "admin/session_registrations", fiber.Map{
		"Title":  "Session Registrations",
		"Groups": groups,
	})
}

func (h *Handler) AdminBlog(c *fiber.Ctx) error {
	posts, err := h.repo.ListBlogPosts()
	if err != nil {
		slog.Error("Failed to list blog posts", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "admin/blog", fiber.Map{"Title": "Blog", "Posts": posts})
}

func (h *Handler) AdminCreateBlogPost(c *fiber.Ctx) error {
	var form BlogPostForm
	if err := c.BodyParser(&form); err != nil {
		h.flash(c, "error", "Invalid form data")
		return c.Redirect("/admin/blog", fiber.StatusFound)
	}
	if err := h.validate.Validate(form); err != nil {
		h.flash(c, "error", "Title and content are required")
		return c.Redirect("/admin/blog", fiber.StatusFound)
	}

	post := model.BlogPost{
		ID:        uuid.New(),
		Title:     form.Title,
		Content:   form.Content,
		Author:    form.Author,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateBlogPost(post); err != nil {
		slog.Error("Failed to create blog post", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.flash(c, "success", "Blog post published!")
	return c.Redirect("/admin/blog", fiber.StatusFound)
}

func (h *Handler) AdminDeleteBlogPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.ErrNotFound
	}
	if err := h.repo.DeleteBlogPost(id); err != nil {
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return fiber.ErrNotFound
		}
		slog.Error("Failed to delete blog post", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	h.flash(c, "success", "Blog post deleted!")
	return c.Redirect("/admin/blog", fiber.StatusFound)
}

// storeUploadedPhoto hands the optional multipart "photo" field to the
// configured storage strategy. A missing file or a storage failure leaves
// the program without a photo.
func (h *Handler) storeUploadedPhoto(c *fiber.Ctx, programID uuid.UUID) model.ProgramPhoto {
	fileHeader, err := c.FormFile("photo")
	if err != nil || fileHeader == nil || fileHeader.Filename == "" {
		return model.ProgramPhoto{}
	}

	file, err := fileHeader.Open()
	if err != nil {
		slog.Error("Failed to open uploaded photo", "error", err)
		return model.ProgramPhoto{}
	}
	defer file.Close()

	photo, err := h.photos.Store(c.Context(), programID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		slog.Error("Failed to store uploaded photo", "error", err)
		return model.ProgramPhoto{}
	}
	return photo
}

func (h *Handler) getProgramParam(c *fiber.Ctx) (model.Program, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return model.Program{}, fiber.ErrNotFound
	}
	program, err := h.repo.GetProgramByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrProgramNotFound) {
			return model.Program{}, fiber.ErrNotFound
		}
		slog.Error("Failed to get program", "error", err)
		return model.Program{}, fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return program, nil
}

func (h *Handler) getContactParam(c *fiber.Ctx) (model.Contact, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return model.Contact{}, fiber.ErrNotFound
	}
	contact, err := h.repo.GetContactByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return model.Contact{}, fiber.ErrNotFound
		}
		slog.Error("Failed to get contact", "error", err)
		return model.Contact{}, fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
	return contact, nil
}
