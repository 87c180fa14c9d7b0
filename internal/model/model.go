package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProgramStatus string

const (
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusCompleted ProgramStatus = "completed"
	ProgramStatusCancelled ProgramStatus = "cancelled"
)

type ProgramType string

const (
	ProgramTypeOnline  ProgramType = "online"
	ProgramTypeOffline ProgramType = "offline"
)

// Program is a scheduled offering listed publicly while its status is active.
// Photo carries whichever persistence variant the configured storage strategy
// produced: a key (local path or S3 object) or embedded bytes.
type Program struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Type        ProgramType   `json:"type"`
	Time        string        `json:"time"` // human-readable display string
	Date        time.Time     `json:"date"`
	StartTime   string        `json:"start_time"` // "15:04" or empty
	EndTime     string        `json:"end_time"`   // "15:04" or empty
	Description string        `json:"description"`
	Status      ProgramStatus `json:"status"`
	Category    string        `json:"category"`
	Photo       ProgramPhoto  `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ProgramPhoto struct {
	Key      string `json:"key"` // storage key for local/s3 variants
	Data     []byte `json:"-"`   // raw bytes for the database variant
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

func (p ProgramPhoto) Empty() bool {
	return p.Key == "" && len(p.Data) == 0
}

type Contact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Registration is an account-bound registration; at most one per
// (user, program) pair, enforced by a read-before-write check.
type Registration struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProgramID uuid.UUID `json:"program_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationDetail joins a registration with the display fields the admin
// dashboard shows.
type RegistrationDetail struct {
	Registration
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	ProgramName string `json:"program_name"`
}

// ProgramRegistration is the anonymous modal path. ProgramName is a string
// snapshot, not a foreign key. Email is optional.
type ProgramRegistration struct {
	ID          uuid.UUID `json:"id"`
	ProgramName string    `json:"program_name"`
	FullName    string    `json:"full_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRegistration references a program loosely: SessionID may point at a
// deleted or nonexistent program and lookups must tolerate that.
type SessionRegistration struct {
	ID          uuid.UUID `json:"id"`
	SessionID   uuid.UUID `json:"session_id"`
	SessionName string    `json:"session_name"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

type BlogPost struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}
