package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	HasRole(ctx context.Context, userID uint, role string) (bool, error)
	GetProfile(ctx context.Context, userID uint) (*Profile, error)
	UpdateProfile(ctx context.Context, p *Profile) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) (*User, error) {
	query := `
	INSERT INTO users (email, password_hash, name, phone, role)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.Phone, u.Role,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return u, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
	SELECT id, email, password_hash, name, phone, role, created_at, updated_at
	FROM users
	WHERE LOWER(email) = LOWER($1)
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*User, error) {
	query := `
	SELECT id, email, password_hash, name, phone, role, created_at, updated_at
	FROM users
	WHERE id = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Phone, &u.Role,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) HasRole(ctx context.Context, userID uint, role string) (bool, error) {
	query := `
	SELECT EXISTS (
		SELECT 1 FROM user_roles
		WHERE user_id = $1 AND role = $2
	)
	`

	var has bool
	if err := r.db.QueryRowContext(ctx, query, userID, role).Scan(&has); err != nil {
		return false, err
	}
	return has, nil
}

func (r *repository) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	query := `
	SELECT user_id, name, phone, city, country
	FROM profiles
	WHERE user_id = $1
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Phone, &p.City, &p.Country,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) UpdateProfile(ctx context.Context, p *Profile) error {
	query := `
	INSERT INTO profiles (user_id, name, phone, city, country)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE SET
		name = EXCLUDED.name,
		phone = EXCLUDED.phone,
		city = EXCLUDED.city,
		country = EXCLUDED.country
	`

	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.Name, p.Phone, p.City, p.Country,
	)
	return err
}
