package repository

import (
	"context"
	"errors"

	"tempo/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

const userColumns = `id, COALESCE(google_id, ''), email, COALESCE(name, ''), COALESCE(picture, ''), created_at`

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (google_id, email, name, picture)
		 VALUES (NULLIF($1, ''), $2, $3, $4)
		 RETURNING id, created_at`,
		u.GoogleID, u.Email, u.Name, u.Picture,
	).Scan(&u.ID, &u.CreatedAt)
}

// UpdateProfile refreshes the mutable identity fields on login.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, picture string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET name = $1, picture = $2 WHERE id = $3`,
		name, picture, id,
	)
	return err
}
