package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"community-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepository abstracts account persistence and directory lookups.
type UserRepository interface {
	CreateUser(ctx context.Context, name, email, passwordHash, role string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	ListResidentsExcept(ctx context.Context, userID int) ([]models.User, error)
	ListPending(ctx context.Context, role string) ([]models.User, error)
	SetVerified(ctx context.Context, userID int) (models.User, error)
	DeleteUser(ctx context.Context, userID int) error
	ListEmails(ctx context.Context) ([]string, error)
}

const userColumns = `id, name, email, password_hash, role, phone, shop, proof, profile, nearby, verified, created_at`

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// CreateUser inserts a new unverified account.
func (r *UserRepo) CreateUser(ctx context.Context, name, email, passwordHash, role string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING `+userColumns,
		name, email, passwordHash, role)
	if err != nil && strings.Contains(err.Error(), "users_email_key") {
		return models.User{}, ErrEmailTaken
	}
	return user, err
}

// GetByEmail fetches an account by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// ListAll returns every account.
func (r *UserRepo) ListAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	return users, err
}

// ListByRole returns accounts of the given role.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE role=$1 ORDER BY name ASC`, role)
	return users, err
}

// ListResidentsExcept returns verified residents other than the caller,
// used as the private-chat directory.
func (r *UserRepo) ListResidentsExcept(ctx context.Context, userID int) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE id<>$1 AND role=$2 AND verified = TRUE ORDER BY name ASC`,
		userID, models.RoleResident)
	return users, err
}

// ListPending returns unverified accounts, optionally filtered by role.
func (r *UserRepo) ListPending(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	if role == "" {
		err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users WHERE verified = FALSE ORDER BY created_at ASC`)
		return users, err
	}
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE verified = FALSE AND role=$1 ORDER BY created_at ASC`, role)
	return users, err
}

// SetVerified marks an account verified.
func (r *UserRepo) SetVerified(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`UPDATE users SET verified = TRUE WHERE id=$1 RETURNING `+userColumns, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// DeleteUser removes an account.
func (r *UserRepo) DeleteUser(ctx context.Context, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListEmails returns every account email, for platform-wide notices.
func (r *UserRepo) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.SelectContext(ctx, &emails, `SELECT email FROM users`)
	return emails, err
}
