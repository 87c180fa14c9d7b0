package api

// Typed request payloads, validated once at the boundary. Fiber's BodyParser
// fills them from form-encoded or multipart bodies.

type ProgramRegistrationRequest struct {
	ProgramName string `form:"program_name" validate:"required"`
	FullName    string `form:"full_name" validate:"required"`
	Phone       string `form:"phone" validate:"required"`
	Email       string `form:"email"`
}

type SessionRegistrationRequest struct {
	SessionID   string `form:"session_id" validate:"required"`
	SessionName string `form:"session_name" validate:"required"`
	Name        string `form:"name" validate:"required"`
	Email       string `form:"email" validate:"required"`
	Phone       string `form:"phone" validate:"required"`
}

type ContactRequest struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"required"`
	Phone   string `form:"phone"`
	Message string `form:"message" validate:"required"`
}

type RegisterUserRequest struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone" validate:"omitempty,phone"`
	Password string `form:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type ProgramForm struct {
	Name        string `form:"name" validate:"required"`
	Type        string `form:"type" validate:"required"`
	Time        string `form:"time"`
	StartTime   string `form:"start_time"`
	EndTime     string `form:"end_time"`
	Date        string `form:"date" validate:"required"`
	Description string `form:"description"`
	Status      string `form:"status"`
	Category    string `form:"category"`
}

type BlogPostForm struct {
	Title   string `form:"title" validate:"required"`
	Author  string `form:"author"`
	Content string `form:"content" validate:"required"`
}
