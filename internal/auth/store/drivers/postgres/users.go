package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/cms/internal/auth/domain"
)

const userColumns = `id, username, name, email, password, role, is_active, last_login, created_at, updated_at`

type usersRepo struct {
	q querier
}

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u         domain.User
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.IsActive,
		&lastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.LastLogin = mapNullTimePtr(lastLogin)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username = $1 OR (email <> '' AND lower(email) = lower($1))
		 ORDER BY username = $1 DESC
		 LIMIT 1`, handle))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Role == "" {
		u.Role = domain.DefaultRole
	}

	row := r.q.QueryRowContext(ctx,
		`INSERT INTO users (username, name, email, password, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.Username, u.Name, u.Email, u.PasswordHash, string(u.Role), u.IsActive)

	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return created, nil
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE users SET last_login = $1 WHERE id = $2`, at.UTC(), id))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE users SET password = $1, updated_at = now() WHERE id = $2`, hash, id))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id int64, username, name, email string) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE users SET username = $1, name = $2, email = $3, updated_at = now() WHERE id = $4`,
		username, name, email, id))
}

func (r *usersRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var taken bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, excludeID).Scan(&taken)
	return taken, err
}

func (r *usersRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2)`,
		email, excludeID).Scan(&taken)
	return taken, err
}
