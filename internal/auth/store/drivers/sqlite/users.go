package sqlite

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
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username = ? OR (email <> '' AND lower(email) = lower(?))
		 ORDER BY username = ? DESC
		 LIMIT 1`, handle, handle, handle))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	if u.Role == "" {
		u.Role = domain.DefaultRole
	}

	res, err := r.q.ExecContext(ctx,
		`INSERT INTO users (username, name, email, password, role, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Name, u.Email, u.PasswordHash, string(u.Role), u.IsActive, now, now)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	return r.GetUserByID(ctx, id)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, at.UTC(), id))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE users SET password = ?, updated_at = ? WHERE id = ?`, hash, time.Now().UTC(), id))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, id int64, username, name, email string) error {
	return requireAffected(r.q.ExecContext(ctx,
		`UPDATE users SET username = ?, name = ?, email = ?, updated_at = ? WHERE id = ?`,
		username, name, email, time.Now().UTC(), id))
}

func (r *usersRepo) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	var taken bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = ? AND id <> ?)`,
		username, excludeID).Scan(&taken)
	return taken, err
}

func (r *usersRepo) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	err := r.q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower(?) AND id <> ?)`,
		email, excludeID).Scan(&taken)
	return taken, err
}
