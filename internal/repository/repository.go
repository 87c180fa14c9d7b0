package repository

import (
	"context"
	"errors"

	"nirvana/internal/model"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProgramNotFound      = errors.New("program not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrBlogPostNotFound     = errors.New("blog post not found")
)

// Repository defines the contract for repository implementations
type Repository interface {
	// User operations
	CreateUser(user model.User) error
	GetUserByID(id uuid.UUID) (model.User, error)
	GetUserByEmail(email string) (model.User, error)
	GetAdminByEmail(email string) (model.User, error)
	HasAdmin() (bool, error)
	ListUsers() ([]model.User, error)

	// Program operations
	CreateProgram(program model.Program) error
	UpdateProgram(program model.Program) error
	DeleteProgram(id uuid.UUID) error
	GetProgramByID(id uuid.UUID) (model.Program, error)
	ListPrograms() ([]model.Program, error)
	ListActivePrograms() ([]model.Program, error)

	// Contact operations
	CreateContact(contact model.Contact) error
	GetContactByID(id uuid.UUID) (model.Contact, error)
	DeleteContact(id uuid.UUID) error
	ListContacts(search string) ([]model.Contact, error)

	// Account-bound registration operations
	CreateRegistration(registration model.Registration) error
	GetRegistrationByUserAndProgram(userID, programID uuid.UUID) (model.Registration, error)
	ListRegistrationDetails(limit int) ([]model.RegistrationDetail, error)

	// Modal registration operations
	CreateProgramRegistration(registration model.ProgramRegistration) error
	ListProgramRegistrations(limit int) ([]model.ProgramRegistration, error)
	CreateSessionRegistration(registration model.SessionRegistration) error
	ListSessionRegistrations(limit int) ([]model.SessionRegistration, error)

	// Blog operations
	CreateBlogPost(post model.BlogPost) error
	DeleteBlogPost(id uuid.UUID) error
	ListBlogPosts() ([]model.BlogPost, error)

	// Database operations
	Migrate() error
	HealthCheck(ctx context.Context) error
}
