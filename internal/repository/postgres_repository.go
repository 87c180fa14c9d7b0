package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"nirvana/internal/database"
	"nirvana/internal/model"

	"github.com/google/uuid"
)

type DatabaseRepository struct {
	db database.Database
}

func NewDatabaseRepository(db database.Database) *DatabaseRepository {
	return &DatabaseRepository{db: db}
}

func (r *DatabaseRepository) Migrate() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_user (
		id UUID PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_program (
		id UUID PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		type VARCHAR(50) NOT NULL,
		time VARCHAR(100) NOT NULL DEFAULT '',
		date DATE NOT NULL,
		start_time VARCHAR(5) NOT NULL DEFAULT '',
		end_time VARCHAR(5) NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		category VARCHAR(100) NOT NULL DEFAULT '',
		photo_key VARCHAR(255) NOT NULL DEFAULT '',
		photo_data BYTEA,
		photo_filename VARCHAR(255) NOT NULL DEFAULT '',
		photo_mime VARCHAR(100) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_contact (
		id UUID PRIMARY KEY,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		message TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_registration (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES tbl_user(id),
		program_id UUID NOT NULL REFERENCES tbl_program(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Modal registrations are denormalized on purpose: program_name and
	// session_id are snapshots, not foreign keys.
	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_program_registration (
		id UUID PRIMARY KEY,
		program_name VARCHAR(200) NOT NULL,
		full_name VARCHAR(150) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		email VARCHAR(150) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_session_registration (
		id UUID PRIMARY KEY,
		session_id UUID NOT NULL,
		session_name VARCHAR(200) NOT NULL,
		name VARCHAR(150) NOT NULL,
		email VARCHAR(150) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS tbl_blog_post (
		id UUID PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		content TEXT NOT NULL,
		image VARCHAR(255) NOT NULL DEFAULT '',
		author VARCHAR(150) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Session storage table used by gofiber/storage/postgres
	_, err = r.db.Exec(`
	CREATE TABLE IF NOT EXISTS sessions (
		k VARCHAR(255) PRIMARY KEY,
		v BYTEA,
		e BIGINT
	);`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}

	slog.Info("Database migration completed")
	return nil
}

func (r *DatabaseRepository) CreateUser(user model.User) error {
	_, err := r.db.Exec("INSERT INTO tbl_user (id, name, email, phone, password_hash, is_admin, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.IsAdmin, user.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

const userColumns = "id, name, email, phone, password_hash, is_admin, created_at"

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *DatabaseRepository) GetUserByID(id uuid.UUID) (model.User, error) {
	return scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM tbl_user WHERE id = $1", id))
}

func (r *DatabaseRepository) GetUserByEmail(email string) (model.User, error) {
	return scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM tbl_user WHERE email = $1", email))
}

func (r *DatabaseRepository) GetAdminByEmail(email string) (model.User, error) {
	return scanUser(r.db.QueryRow("SELECT "+userColumns+" FROM tbl_user WHERE email = $1 AND is_admin = TRUE", email))
}

func (r *DatabaseRepository) HasAdmin() (bool, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM tbl_user WHERE is_admin = TRUE").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DatabaseRepository) ListUsers() ([]model.User, error) {
	rows, err := r.db.Query("SELECT " + userColumns + " FROM tbl_user ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const programColumns = "id, name, type, time, date, start_time, end_time, description, status, category, photo_key, photo_data, photo_filename, photo_mime, created_at"

func (r *DatabaseRepository) CreateProgram(program model.Program) error {
	_, err := r.db.Exec(`INSERT INTO tbl_program (`+programColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		program.ID, program.Name, program.Type, program.Time, program.Date,
		program.StartTime, program.EndTime, program.Description, program.Status,
		program.Category, program.Photo.Key, program.Photo.Data,
		program.Photo.Filename, program.Photo.MimeType, program.CreatedAt)
	return err
}

func (r *DatabaseRepository) UpdateProgram(program model.Program) error {
	result, err := r.db.Exec(`UPDATE tbl_program SET
		name = $1, type = $2, time = $3, date = $4, start_time = $5, end_time = $6,
		description = $7, status = $8, category = $9,
		photo_key = $10, photo_data = $11, photo_filename = $12, photo_mime = $13
		WHERE id = $14`,
		program.Name, program.Type, program.Time, program.Date, program.StartTime,
		program.EndTime, program.Description, program.Status, program.Category,
		program.Photo.Key, program.Photo.Data, program.Photo.Filename,
		program.Photo.MimeType, program.ID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func (r *DatabaseRepository) DeleteProgram(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM tbl_program WHERE id = $1", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProgramNotFound
	}
	return nil
}

func scanProgram(scan func(dest ...any) error) (model.Program, error) {
	var program model.Program
	err := scan(&program.ID, &program.Name, &program.Type, &program.Time,
		&program.Date, &program.StartTime, &program.EndTime, &program.Description,
		&program.Status, &program.Category, &program.Photo.Key, &program.Photo.Data,
		&program.Photo.Filename, &program.Photo.MimeType, &program.CreatedAt)
	return program, err
}

func (r *DatabaseRepository) GetProgramByID(id uuid.UUID) (model.Program, error) {
	program, err := scanProgram(r.db.QueryRow("SELECT "+programColumns+" FROM tbl_program WHERE id = $1", id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Program{}, ErrProgramNotFound
		}
		return model.Program{}, err
	}
	return program, nil
}

func (r *DatabaseRepository) listPrograms(query string, args ...any) ([]model.Program, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var programs []model.Program
	for rows.Next() {
		program, err := scanProgram(rows.Scan)
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	return programs, rows.Err()
}

func (r *DatabaseRepository) ListPrograms() ([]model.Program, error) {
	return r.listPrograms("SELECT " + programColumns + " FROM tbl_program ORDER BY created_at DESC")
}

func (r *DatabaseRepository) ListActivePrograms() ([]model.Program, error) {
	return r.listPrograms("SELECT "+programColumns+" FROM tbl_program WHERE status = $1 ORDER BY date DESC", model.ProgramStatusActive)
}

func (r *DatabaseRepository) CreateContact(contact model.Contact) error {
	_, err := r.db.Exec("INSERT INTO tbl_contact (id, name, email, phone, message, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Message, contact.CreatedAt)
	return err
}

func (r *DatabaseRepository) GetContactByID(id uuid.UUID) (model.Contact, error) {
	var contact model.Contact
	err := r.db.QueryRow("SELECT id, name, email, phone, message, created_at FROM tbl_contact WHERE id = $1", id).
		Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Phone, &contact.Message, &contact.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Contact{}, ErrContactNotFound
		}
		return model.Contact{}, err
	}
	return contact, nil
}

func (r *DatabaseRepository) DeleteContact(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM tbl_contact WHERE id = $1", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (r *DatabaseRepository) ListContacts(search string) ([]model.Contact, error) {
	query := "SELECT id, name, email, phone, message, created_at FROM tbl_contact"
	var args []any
	if search != "" {
		query += " WHERE name ILIKE $1 OR email ILIKE $1 OR message ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var contacts []model.Contact
	for rows.Next() {
		var contact model.Contact
		if err := rows.Scan(&contact.ID, &contact.Name, &contact.Email, &contact.Phone, &contact.Message, &contact.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, rows.Err()
}

func (r *DatabaseRepository) CreateRegistration(registration model.Registration) error {
	_, err := r.db.Exec("INSERT INTO tbl_registration (id, user_id, program_id, created_at) VALUES ($1, $2, $3, $4)",
		registration.ID, registration.UserID, registration.ProgramID, registration.CreatedAt)
	return err
}

func (r *DatabaseRepository) GetRegistrationByUserAndProgram(userID, programID uuid.UUID) (model.Registration, error) {
	var registration model.Registration
	err := r.db.QueryRow("SELECT id, user_id, program_id, created_at FROM tbl_registration WHERE user_id = $1 AND program_id = $2",
		userID, programID).
		Scan(&registration.ID, &registration.UserID, &registration.ProgramID, &registration.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Registration{}, ErrRegistrationNotFound
		}
		return model.Registration{}, err
	}
	return registration, nil
}

func (r *DatabaseRepository) ListRegistrationDetails(limit int) ([]model.RegistrationDetail, error) {
	query := `
		SELECT reg.id, reg.user_id, reg.program_id, reg.created_at, u.name, u.email, p.name
		FROM tbl_registration reg
		JOIN tbl_user u ON reg.user_id = u.id
		JOIN tbl_program p ON reg.program_id = p.id
		ORDER BY reg.created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var details []model.RegistrationDetail
	for rows.Next() {
		var d model.RegistrationDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.ProgramID, &d.CreatedAt, &d.UserName, &d.UserEmail, &d.ProgramName); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

func (r *DatabaseRepository) CreateProgramRegistration(registration model.ProgramRegistration) error {
	_, err := r.db.Exec("INSERT INTO tbl_program_registration (id, program_name, full_name, phone, email, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		registration.ID, registration.ProgramName, registration.FullName, registration.Phone, registration.Email, registration.CreatedAt)
	return err
}

func (r *DatabaseRepository) ListProgramRegistrations(limit int) ([]model.ProgramRegistration, error) {
	query := "SELECT id, program_name, full_name, phone, email, created_at FROM tbl_program_registration ORDER BY created_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var registrations []model.ProgramRegistration
	for rows.Next() {
		var reg model.ProgramRegistration
		if err := rows.Scan(&reg.ID, &reg.ProgramName, &reg.FullName, &reg.Phone, &reg.Email, &reg.CreatedAt); err != nil {
			return nil, err
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func (r *DatabaseRepository) CreateSessionRegistration(registration model.SessionRegistration) error {
	_, err := r.db.Exec("INSERT INTO tbl_session_registration (id, session_id, session_name, name, email, phone, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)",
		registration.ID, registration.SessionID, registration.SessionName, registration.Name, registration.Email, registration.Phone, registration.CreatedAt)
	return err
}

func (r *DatabaseRepository) ListSessionRegistrations(limit int) ([]model.SessionRegistration, error) {
	query := "SELECT id, session_id, session_name, name, email, phone, created_at FROM tbl_session_registration ORDER BY created_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var registrations []model.SessionRegistration
	for rows.Next() {
		var reg model.SessionRegistration
		if err := rows.Scan(&reg.ID, &reg.SessionID, &reg.SessionName, &reg.Name, &reg.Email, &reg.Phone, &reg.CreatedAt); err != nil {
			return nil, err
		}
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func (r *DatabaseRepository) CreateBlogPost(post model.BlogPost) error {
	_, err := r.db.Exec("INSERT INTO tbl_blog_post (id, title, content, image, author, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		post.ID, post.Title, post.Content, post.Image, post.Author, post.CreatedAt)
	return err
}

func (r *DatabaseRepository) DeleteBlogPost(id uuid.UUID) error {
	result, err := r.db.Exec("DELETE FROM tbl_blog_post WHERE id = $1", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrBlogPostNotFound
	}
	return nil
}

func (r *DatabaseRepository) ListBlogPosts() ([]model.BlogPost, error) {
	rows, err := r.db.Query("SELECT id, title, content, image, author, created_at FROM tbl_blog_post ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var posts []model.BlogPost
	for rows.Next() {
		var post model.BlogPost
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.Image, &post.Author, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// HealthCheck performs a simple health check on the database connection
func (r *DatabaseRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
