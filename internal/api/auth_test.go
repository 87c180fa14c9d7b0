package api_test

import (
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/register", url.Values{
		"name":     {"Asha Patel"},
		"email":    {"Asha@Example.com"},
		"phone":    {"+91 98765 43210"},
		"password": {"secret"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// Email is normalized to lower case.
	user, err := env.repo.GetUserByEmail("asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Asha Patel", user.Name)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "secret", user.PasswordHash)

	// The new session is logged in.
	cookie := sessionCookie(t, resp)
	home := env.get(t, "/", cookie)
	require.Equal(t, fiber.StatusOK, home.StatusCode)
	assert.Contains(t, readBody(t, home), "Logout")
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.seedUser(t, "asha@example.com", "secret", false)

	resp := env.postForm(t, "/register", url.Values{
		"name":     {"Asha Again"},
		"email":    {"asha@example.com"},
		"password": {"other"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))

	users, err := env.repo.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRegisterUser_InvalidPhone(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/register", url.Values{
		"name":     {"Asha Patel"},
		"email":    {"asha@example.com"},
		"phone":    {"not a phone"},
		"password": {"secret"},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))

	users, err := env.repo.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.seedUser(t, "asha@example.com", "secret", false)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "wrong_password", form: url.Values{"email": {"asha@example.com"}, "password": {"wrong"}}},
		{name: "unknown_email", form: url.Values{"email": {"nobody@example.com"}, "password": {"secret"}}},
		{name: "empty_form", form: url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.postForm(t, "/login", tt.form)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Contains(t, readBody(t, resp), "Invalid credentials")
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "asha@example.com", "secret", false)
	cookie := env.loginUser(t, user.Email, "secret")

	resp := env.get(t, "/logout", cookie)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	home := env.get(t, "/", cookie)
	require.Equal(t, fiber.StatusOK, home.StatusCode)
	assert.Contains(t, readBody(t, home), "Login")
}

func TestAdminLogout_KeepsUserSession(t *testing.T) {
	env := newTestEnv(t)

	// One browser session carrying both identities.
	user := env.seedUser(t, "asha@example.com", "secret", false)
	admin := env.seedUser(t, "admin@nirvanabuddha.com", "admin123", true)

	cookie := env.loginUser(t, user.Email, "secret")

	resp := env.postForm(t, "/admin/login", url.Values{
		"email":    {admin.Email},
		"password": {"admin123"},
	}, cookie)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	resp = env.get(t, "/admin/logout", cookie)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/login", resp.Header.Get("Location"))

	// The admin flag is gone but the user login survives.
	dash := env.get(t, "/admin/dashboard", cookie)
	assert.Equal(t, fiber.StatusFound, dash.StatusCode)

	home := env.get(t, "/", cookie)
	require.Equal(t, fiber.StatusOK, home.StatusCode)
	assert.Contains(t, readBody(t, home), "Logout")
}
