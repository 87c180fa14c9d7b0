package view

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// NewEngine builds the HTML rendering engine over the embedded template tree.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("date", func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	})
	engine.AddFunc("datetime", func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	})
	return engine
}

// StaticFS exposes the embedded static assets (css, images).
func StaticFS() http.FileSystem {
	return http.FS(staticFS)
}

// DefaultLogo returns the fallback program image and its MIME type.
func DefaultLogo() ([]byte, string) {
	data, err := staticFS.ReadFile("static/images/logo.svg")
	if err != nil {
		return nil, ""
	}
	return data, "image/svg+xml"
}
