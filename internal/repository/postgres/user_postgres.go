package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"docexchange/internal/errs"
	"docexchange/internal/model"
	"docexchange/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// Users and their role records live in the users and user_roles tables.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `u.id, u.email, u.password_hash, u.first_name, u.last_name, u.is_active, r.is_ops_user, u.last_login, u.created_at`

// Create inserts the user row and its role row atomically.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const qUser = `
		INSERT INTO users (email, password_hash, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	out := *u
	if err := tx.QueryRowContext(ctx, qUser,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.IsActive,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		if uniqueConstraint(err) == constraintUserEmail {
			return nil, errs.NewFieldError(errs.ErrDuplicate, "email", "already exist with this field")
		}
		return nil, err
	}

	const qRole = `INSERT INTO user_roles (user_id, is_ops_user) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, qRole, out.ID, u.Role == model.RoleOps); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &out, nil
}

// FindByID fetches a user and its role by id.
func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users u
		JOIN user_roles r ON r.user_id = u.id
		WHERE u.id = $1
	`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// FindByEmail fetches a user and its role by email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users u
		JOIN user_roles r ON r.user_id = u.id
		WHERE u.email = $1
	`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// FindRole reads the role record directly so role changes are visible on the next call.
func (r *UserPostgres) FindRole(ctx context.Context, userID int64) (model.Role, error) {
	const q = `SELECT is_ops_user FROM user_roles WHERE user_id = $1`
	var isOps bool
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&isOps); err != nil {
		return "", notFound(err, "user role")
	}
	return model.RoleFromFlag(isOps), nil
}

// Activate marks the user as verified.
func (r *UserPostgres) Activate(ctx context.Context, id int64) error {
	const q = `UPDATE users SET is_active = TRUE WHERE id = $1`
	return r.execOne(ctx, q, id)
}

// TouchLastLogin stamps last_login with the database clock.
func (r *UserPostgres) TouchLastLogin(ctx context.Context, id int64) error {
	const q = `UPDATE users SET last_login = now() WHERE id = $1`
	return r.execOne(ctx, q, id)
}

func (r *UserPostgres) execOne(ctx context.Context, q string, id int64) error {
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %d: %w", id, errs.ErrNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u         model.User
		isOps     bool
		lastLogin sql.NullTime
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&isOps,
		&lastLogin,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = model.RoleFromFlag(isOps)
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
