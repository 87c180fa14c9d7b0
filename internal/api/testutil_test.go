package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"nirvana/internal/api"
	"nirvana/internal/config"
	"nirvana/internal/mailer"
	"nirvana/internal/model"
	"nirvana/internal/repository"
	"nirvana/internal/storage"
	"nirvana/internal/view"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeRepo is an in-memory Repository so handler tests run without Postgres.
type fakeRepo struct {
	mu                   sync.Mutex
	users                []model.User
	programs             []model.Program
	contacts             []model.Contact
	registrations        []model.Registration
	programRegistrations []model.ProgramRegistration
	sessionRegistrations []model.SessionRegistration
	blogPosts            []model.BlogPost
	healthErr            error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (r *fakeRepo) CreateUser(user model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, user)
	return nil
}

func (r *fakeRepo) GetUserByID(id uuid.UUID) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (r *fakeRepo) GetUserByEmail(email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (r *fakeRepo) GetAdminByEmail(email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.IsAdmin {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (r *fakeRepo) HasAdmin() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.IsAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ListUsers() ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.User(nil), r.users...), nil
}

func (r *fakeRepo) CreateProgram(program model.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs = append(r.programs, program)
	return nil
}

func (r *fakeRepo) UpdateProgram(program model.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.programs {
		if p.ID == program.ID {
			r.programs[i] = program
			return nil
		}
	}
	return repository.ErrProgramNotFound
}

func (r *fakeRepo) DeleteProgram(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.programs {
		if p.ID == id {
			r.programs = append(r.programs[:i], r.programs[i+1:]...)
			return nil
		}
	}
	return repository.ErrProgramNotFound
}

func (r *fakeRepo) GetProgramByID(id uuid.UUID) (model.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.programs {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Program{}, repository.ErrProgramNotFound
}

func (r *fakeRepo) ListPrograms() ([]model.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Program(nil), r.programs...), nil
}

func (r *fakeRepo) ListActivePrograms() ([]model.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []model.Program
	for _, p := range r.programs {
		if p.Status == model.ProgramStatusActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (r *fakeRepo) CreateContact(contact model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, contact)
	return nil
}

func (r *fakeRepo) GetContactByID(id uuid.UUID) (model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Contact{}, repository.ErrContactNotFound
}

func (r *fakeRepo) DeleteContact(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.contacts {
		if c.ID == id {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)
			return nil
		}
	}
	return repository.ErrContactNotFound
}

func (r *fakeRepo) ListContacts(search string) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if search == "" {
		return append([]model.Contact(nil), r.contacts...), nil
	}
	needle := strings.ToLower(search)
	var matched []model.Contact
	for _, c := range r.contacts {
		if strings.Contains(strings.ToLower(c.Name), needle) ||
			strings.Contains(strings.ToLower(c.Email), needle) ||
			strings.Contains(strings.ToLower(c.Message), needle) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (r *fakeRepo) CreateRegistration(registration model.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrations = append(r.registrations, registration)
	return nil
}

func (r *fakeRepo) GetRegistrationByUserAndProgram(userID, programID uuid.UUID) (model.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.registrations {
		if reg.UserID == userID && reg.ProgramID == programID {
			return reg, nil
		}
	}
	return model.Registration{}, repository.ErrRegistrationNotFound
}

func (r *fakeRepo) ListRegistrationDetails(limit int) ([]model.RegistrationDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var details []model.RegistrationDetail
	for _, reg := range r.registrations {
		if limit > 0 && len(details) == limit {
			break
		}
		details = append(details, model.RegistrationDetail{Registration: reg})
	}
	return details, nil
}

func (r *fakeRepo) CreateProgramRegistration(registration model.ProgramRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programRegistrations = append(r.programRegistrations, registration)
	return nil
}

func (r *fakeRepo) ListProgramRegistrations(limit int) ([]model.ProgramRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]model.ProgramRegistration(nil), r.programRegistrations...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) CreateSessionRegistration(registration model.SessionRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionRegistrations = append(r.sessionRegistrations, registration)
	return nil
}

func (r *fakeRepo) ListSessionRegistrations(limit int) ([]model.SessionRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]model.SessionRegistration(nil), r.sessionRegistrations...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeRepo) CreateBlogPost(post model.BlogPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blogPosts = append(r.blogPosts, post)
	return nil
}

func (r *fakeRepo) DeleteBlogPost(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.blogPosts {
		if p.ID == id {
			r.blogPosts = append(r.blogPosts[:i], r.blogPosts[i+1:]...)
			return nil
		}
	}
	return repository.ErrBlogPostNotFound
}

func (r *fakeRepo) ListBlogPosts() ([]model.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.BlogPost(nil), r.blogPosts...), nil
}

func (r *fakeRepo) Migrate() error { return nil }

func (r *fakeRepo) HealthCheck(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.healthErr
}

func (r *fakeRepo) countProgramRegistrations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.programRegistrations)
}

func (r *fakeRepo) countSessionRegistrations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessionRegistrations)
}

func (r *fakeRepo) countRegistrations() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.registrations)
}

func (r *fakeRepo) countContacts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.contacts)
}

// fakeMailer records messages on a channel so tests can assert on async
// dispatches.
type fakeMailer struct {
	sent chan mailer.Message
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan mailer.Message, 16)}
}

func (m *fakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.sent <- msg
	return nil
}

// waitForMessage blocks until the mailer records a message or the deadline
// passes.
func (m *fakeMailer) waitForMessage(t *testing.T) mailer.Message {
	t.Helper()
	select {
	case msg := <-m.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email to be sent")
		return mailer.Message{}
	}
}

// assertNoMessage verifies no email goes out within a grace period.
func (m *fakeMailer) assertNoMessage(t *testing.T) {
	t.Helper()
	select {
	case msg := <-m.sent:
		t.Fatalf("unexpected email sent: %q", msg.Subject)
	case <-time.After(100 * time.Millisecond):
	}
}

type testEnv struct {
	app    *fiber.App
	repo   *fakeRepo
	mail   *fakeMailer
	photos storage.Storage
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newFakeRepo()
	mail := newFakeMailer()

	cfg := &config.Config{}
	cfg.Site.BaseURL = "http://localhost:8080"

	store := session.New(session.Config{
		KeyLookup: "cookie:session_id",
	})

	photos, err := storage.New(config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)

	handler := api.NewHandler(store, repo, photos, mailer.NewDispatcher(slog.Default(), mail), cfg)

	app := fiber.New(fiber.Config{Views: view.NewEngine()})
	handler.RegisterRoutes(app)

	return &testEnv{app: app, repo: repo, mail: mail, photos: photos, cfg: cfg}
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

// seedUser inserts a user with the given password and returns it.
func (e *testEnv) seedUser(t *testing.T, email, password string, isAdmin bool) model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, e.repo.CreateUser(user))
	return user
}

// loginUser authenticates through the real login endpoint and returns the
// session cookie.
func (e *testEnv) loginUser(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	resp := e.postForm(t, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	return sessionCookie(t, resp)
}

// loginAdmin authenticates through the admin login endpoint.
func (e *testEnv) loginAdmin(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	resp := e.postForm(t, "/admin/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
	return sessionCookie(t, resp)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}
