package api_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"nirvana/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestRegisterProgramModal_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "missing_program_name",
			form: url.Values{"full_name": {"Asha"}, "phone": {"+91 98765 43210"}},
		},
		{
			name: "missing_full_name",
			form: url.Values{"program_name": {"Vipassana"}, "phone": {"+91 98765 43210"}},
		},
		{
			name: "missing_phone",
			form: url.Values{"program_name": {"Vipassana"}, "full_name": {"Asha"}},
		},
		{
			name: "empty_form",
			form: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.postForm(t, "/register_program_modal", tt.form)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			payload := decodeJSON(t, resp)
			assert.Equal(t, "Program name, full name, and phone are required", payload["error"])
		})
	}

	assert.Zero(t, env.repo.countProgramRegistrations())
	env.mail.assertNoMessage(t)
}

func TestRegisterProgramModal_WithEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/register_program_modal", url.Values{
		"program_name": {"Vipassana Introduction"},
		"full_name":    {"Asha Patel"},
		"phone":        {"+91 98765 43210"},
		"email":        {"asha@example.com"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	assert.Equal(t, "Registration successful! Confirmation email has been sent to your email address.", payload["message"])
	assert.Equal(t, 1, env.repo.countProgramRegistrations())

	msg := env.mail.waitForMessage(t)
	assert.Equal(t, []string{"asha@example.com"}, msg.To)
	assert.Contains(t, msg.HTML, "Vipassana Introduction")
}

func TestRegisterProgramModal_WithoutEmail(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/register_program_modal", url.Values{
		"program_name": {"Morning Meditation"},
		"full_name":    {"Ravi Kumar"},
		"phone":        {"9876543210"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	assert.Equal(t, "Registration successful!", payload["message"])
	assert.Equal(t, 1, env.repo.countProgramRegistrations())

	env.mail.assertNoMessage(t)
}

func TestRegisterProgramModal_RepeatSubmissionsCreateRows(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{
		"program_name": {"Morning Meditation"},
		"full_name":    {"Ravi Kumar"},
		"phone":        {"9876543210"},
	}
	for i := 0; i < 3; i++ {
		resp := env.postForm(t, "/register_program_modal", form)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 3, env.repo.countProgramRegistrations())
}

func TestRegisterSessionModal(t *testing.T) {
	env := newTestEnv(t)

	program := model.Program{
		ID:        uuid.New(),
		Name:      "Morning Meditation",
		Type:      model.ProgramTypeOffline,
		Date:      time.Now().UTC(),
		StartTime: "06:00",
		EndTime:   "07:00",
		Status:    model.ProgramStatusActive,
	}
	require.NoError(t, env.repo.CreateProgram(program))

	resp := env.postForm(t, "/register_session_modal", url.Values{
		"session_id":   {program.ID.String()},
		"session_name": {program.Name},
		"name":         {"Asha Patel"},
		"email":        {"asha@example.com"},
		"phone":        {"9876543210"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	assert.Equal(t, "Session registration successful! Confirmation email has been sent.", payload["message"])
	assert.Equal(t, 1, env.repo.countSessionRegistrations())

	msg := env.mail.waitForMessage(t)
	assert.Contains(t, msg.HTML, "06:00 - 07:00")
}

func TestRegisterSessionModal_UnknownSessionFallsBackToSchedule(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/register_session_modal", url.Values{
		"session_id":   {uuid.NewString()},
		"session_name": {"Deleted Program"},
		"name":         {"Asha Patel"},
		"email":        {"asha@example.com"},
		"phone":        {"9876543210"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The row is kept even though the program is gone.
	assert.Equal(t, 1, env.repo.countSessionRegistrations())

	msg := env.mail.waitForMessage(t)
	assert.Contains(t, msg.HTML, "See schedule")
}

func TestRegisterSessionModal_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{
			name: "missing_fields",
			form: url.Values{"session_name": {"Morning Meditation"}},
		},
		{
			name: "malformed_session_id",
			form: url.Values{
				"session_id":   {"not-a-uuid"},
				"session_name": {"Morning Meditation"},
				"name":         {"Asha"},
				"email":        {"asha@example.com"},
				"phone":        {"9876543210"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.postForm(t, "/register_session_modal", tt.form)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			payload := decodeJSON(t, resp)
			assert.Equal(t, "All fields are required", payload["error"])
		})
	}

	assert.Zero(t, env.repo.countSessionRegistrations())
}

func TestRegisterForProgram_RequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/register/"+uuid.NewString(), url.Values{})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	payload := decodeJSON(t, resp)
	assert.Equal(t, "Please login first", payload["error"])
	assert.Zero(t, env.repo.countRegistrations())
}

func TestRegisterForProgram(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "ravi@example.com", "secret", false)
	cookie := env.loginUser(t, user.Email, "secret")

	program := model.Program{
		ID:        uuid.New(),
		Name:      "Weekend Retreat",
		Type:      model.ProgramTypeOffline,
		Time:      "Full day",
		Date:      time.Now().UTC().AddDate(0, 0, 7),
		StartTime: "09:00",
		EndTime:   "17:30",
		Status:    model.ProgramStatusActive,
	}
	require.NoError(t, env.repo.CreateProgram(program))

	resp := env.postForm(t, "/register/"+program.ID.String(), url.Values{}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	assert.Equal(t, "Registration successful! Confirmation email sent.", payload["message"])
	assert.Equal(t, 1, env.repo.countRegistrations())

	// The derived 12-hour range overrides the stored free-text time.
	msg := env.mail.waitForMessage(t)
	assert.Equal(t, []string{user.Email}, msg.To)
	assert.Contains(t, msg.HTML, "09:00 AM - 05:30 PM")
}

func TestRegisterForProgram_Duplicate(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "ravi@example.com", "secret", false)
	cookie := env.loginUser(t, user.Email, "secret")

	program := model.Program{
		ID:     uuid.New(),
		Name:   "Weekend Retreat",
		Type:   model.ProgramTypeOffline,
		Date:   time.Now().UTC(),
		Status: model.ProgramStatusActive,
	}
	require.NoError(t, env.repo.CreateProgram(program))

	resp := env.postForm(t, "/register/"+program.ID.String(), url.Values{}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	env.mail.waitForMessage(t)

	resp = env.postForm(t, "/register/"+program.ID.String(), url.Values{}, cookie)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	payload := decodeJSON(t, resp)
	assert.Equal(t, "Already registered for this program", payload["error"])
	assert.Equal(t, 1, env.repo.countRegistrations())
	env.mail.assertNoMessage(t)
}

func TestRegisterForProgram_UnknownProgram(t *testing.T) {
	env := newTestEnv(t)

	user := env.seedUser(t, "ravi@example.com", "secret", false)
	cookie := env.loginUser(t, user.Email, "secret")

	resp := env.postForm(t, "/register/"+uuid.NewString(), url.Values{}, cookie)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Zero(t, env.repo.countRegistrations())
}
