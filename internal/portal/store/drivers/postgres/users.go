package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
)

const userColumns = `id, first_name, last_name, email, password_hash, phone, address,
       unit_number, property_type, role, verified, mfa_enabled, mfa_secret,
       created_at, updated_at`

type usersRepo struct {
	db DBTX
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u            domain.User
		propertyType string
		role         string
		mfaEnabled   sql.NullTime
		mfaSecret    sql.NullString
	)
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone, &u.Address,
		&u.UnitNumber, &propertyType, &role, &u.Verified, &mfaEnabled, &mfaSecret,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.PropertyType = domain.PropertyType(propertyType)
	u.Role = domain.Role(role)
	u.MFAEnabled = timePtr(mfaEnabled)
	u.MFASecret = stringPtr(mfaSecret)
	return u, nil
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return domain.User{}, mapErr(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "email", domain.NormalizeEmail(email))
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	u.Email = domain.NormalizeEmail(u.Email)
	if u.PropertyType == "" {
		u.PropertyType = domain.DefaultPropertyType
	}
	if u.Role == "" {
		u.Role = domain.DefaultRole
	}
	if err := u.Validate(); err != nil {
		return err
	}

	query := `INSERT INTO users (
        id, first_name, last_name, email, password_hash, phone, address,
        unit_number, property_type, role, verified, created_at, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`

	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.Address,
		u.UnitNumber, string(u.PropertyType), string(u.Role), u.Verified, stampOrNow(u.CreatedAt),
	)
	return mapErr(err)
}

func (r *usersRepo) UpdateUser(ctx context.Context, userID string, upd store.UserUpdate) error {
	current, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	u := store.ApplyUserUpdate(current, upd)
	if err := u.Validate(); err != nil {
		return err
	}

	query := `UPDATE users SET
        first_name = $1, last_name = $2, email = $3, phone = $4, address = $5,
        unit_number = $6, property_type = $7, role = $8, verified = $9, updated_at = $10
    WHERE id = $11`

	return requireRow(r.db.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Email, u.Phone, u.Address,
		u.UnitNumber, string(u.PropertyType), string(u.Role), u.Verified, now(), userID,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	return requireRow(r.db.ExecContext(ctx, query, newHash, now(), userID))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, mapErr(err)
	}
	return count == 0, nil
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID string, secret string) error {
	query := `UPDATE users SET mfa_secret = $1, updated_at = $2 WHERE id = $3`
	return requireRow(r.db.ExecContext(ctx, query,
		sql.NullString{String: secret, Valid: secret != ""}, now(), userID))
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	query := `UPDATE users SET mfa_enabled = $1, updated_at = $1 WHERE id = $2`
	return requireRow(r.db.ExecContext(ctx, query, now(), userID))
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	query := `UPDATE users SET mfa_enabled = NULL, mfa_secret = NULL, updated_at = $1 WHERE id = $2`
	return requireRow(r.db.ExecContext(ctx, query, now(), userID))
}
