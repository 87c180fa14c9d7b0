package api

import (
	"encoding/xml"
	"log/slog"
	"time"

	"nirvana/internal/mailer"
	"nirvana/internal/model"
	"nirvana/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ShowHomePage(c *fiber.Ctx) error {
	sessions, err := h.repo.ListActivePrograms()
	if err != nil {
		slog.Error("Failed to list active programs", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "index", fiber.Map{"Sessions": sessions})
}

func (h *Handler) ShowProgramsPage(c *fiber.Ctx) error {
	programs, err := h.repo.ListActivePrograms()
	if err != nil {
		slog.Error("Failed to list active programs", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "programs", fiber.Map{"Title": "Programs", "Programs": programs})
}

func (h *Handler) ShowAboutPage(c *fiber.Ctx) error {
	return h.render(c, "about", fiber.Map{"Title": "About"})
}

func (h *Handler) ShowContactPage(c *fiber.Ctx) error {
	return h.render(c, "contact", fiber.Map{"Title": "Contact"})
}

func (h *Handler) SubmitContact(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	isAJAX := c.Get("X-Requested-With") == "XMLHttpRequest"

	if err := h.validate.Validate(req); err != nil {
		if isAJAX {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name, email, and message are required"})
		}
		h.flash(c, "error", "Name, email, and message are required")
		return c.Redirect("/contact", fiber.StatusFound)
	}

	contact := model.Contact{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.repo.CreateContact(contact); err != nil {
		slog.Error("Failed to create contact", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	// Notify the operator address; delivery is best-effort.
	if h.cfg.Mail.Username != "" {
		h.mail.Dispatch(mailer.ContactNotification(h.cfg.Mail.Username, req.Name, req.Email, req.Phone, req.Message))
	}

	const thanks = "Thank you for your message! We will get back to you soon."
	if isAJAX {
		return c.JSON(fiber.Map{"success": true, "message": thanks})
	}
	h.flash(c, "success", thanks)
	return c.Redirect("/contact", fiber.StatusFound)
}

func (h *Handler) ShowBlogPage(c *fiber.Ctx) error {
	posts, err := h.repo.ListBlogPosts()
	if err != nil {
		slog.Error("Failed to list blog posts", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}
	return h.render(c, "blog", fiber.Map{"Title": "Blog", "Posts": posts})
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

func (h *Handler) ShowSitemap(c *fiber.Ctx) error {
	base := h.cfg.Site.BaseURL

	set := urlset{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/", LastMod: "2024-01-01", ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: base + "/about", LastMod: "2024-01-01", ChangeFreq: "monthly", Priority: "0.8"},
			{Loc: base + "/programs", LastMod: "2024-01-01", ChangeFreq: "weekly", Priority: "0.9"},
			{Loc: base + "/contact", LastMod: "2024-01-01", ChangeFreq: "monthly", Priority: "0.7"},
			{Loc: base + "/blog", LastMod: "2024-01-01", ChangeFreq: "weekly", Priority: "0.6"},
		},
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(xml.Header + string(body))
}

func (h *Handler) ShowRobots(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/plain")
	return c.SendString("User-agent: *\nAllow: /\n\nSitemap: " + h.cfg.Site.BaseURL + "/sitemap.xml\n")
}

// ServeProgramImage prefers the embedded blob, falls back to the keyed
// storage backend, and finally to the bundled logo.
func (h *Handler) ServeProgramImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.ErrNotFound
	}

	program, err := h.repo.GetProgramByID(id)
	if err != nil {
		return fiber.ErrNotFound
	}

	c.Set(fiber.HeaderCacheControl, "max-age=3600")

	if len(program.Photo.Data) > 0 {
		mime := program.Photo.MimeType
		if mime == "" {
			mime = "image/jpeg"
		}
		c.Set(fiber.HeaderContentType, mime)
		return c.Send(program.Photo.Data)
	}

	if program.Photo.Key != "" {
		file, err := h.photos.Open(c.Context(), program.Photo.Key)
		if err == nil {
			mime := program.Photo.MimeType
			if mime == "" {
				mime = "image/jpeg"
			}
			c.Set(fiber.HeaderContentType, mime)
			return c.SendStream(file)
		}
		slog.Warn("Program photo missing from storage", "program_id", id, "key", program.Photo.Key, "error", err)
	}

	logo, mime := view.DefaultLogo()
	c.Set(fiber.HeaderContentType, mime)
	return c.Send(logo)
}
