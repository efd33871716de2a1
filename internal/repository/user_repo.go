package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"todolist/internal/model"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user and fills in the generated id.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, u.Username, u.Email, u.PasswordHash).Scan(&u.ID)
	if err != nil {
		r.logger.Error("Failed to insert user",
			zap.Error(err),
			zap.String("username", u.Username),
		)
		return err
	}
	r.logger.Info("User created", zap.Int("user_id", u.ID), zap.String("username", u.Username))
	return nil
}

// FindByUsername returns the user with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
        SELECT id, username, email, password_hash
        FROM users
        WHERE username = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
        SELECT id, username, email, password_hash
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID re-resolves a user from its persisted identifier. Called at
// the start of every request carrying a session cookie.
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	query := `
        SELECT id, username, email, password_hash
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users, used to populate the assignee selector.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `
        SELECT id, username, email, password_hash
        FROM users
        ORDER BY username
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash); err != nil {
			r.logger.Error("Failed to scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
