package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite/gen"
)

type usersRepo struct {
	q *gen.Queries
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row, err := r.q.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row, err := r.q.GetUserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return mapUser(row), nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapUser(row))
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

	created := stampOrNow(u.CreatedAt)
	return mapWriteErr(r.q.CreateUser(ctx, gen.CreateUserParams{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Address:      u.Address,
		UnitNumber:   u.UnitNumber,
		PropertyType: string(u.PropertyType),
		Role:         string(u.Role),
		Verified:     u.Verified,
		CreatedAt:    created,
		UpdatedAt:    created,
	}))
}

func (r *usersRepo) UpdateUser(ctx context.Context, userID string, upd store.UserUpdate) error {
	row, err := r.q.GetUserByID(ctx, userID)
	if err != nil {
		return mapNotFound(err)
	}
	u := store.ApplyUserUpdate(mapUser(row), upd)
	if err := u.Validate(); err != nil {
		return err
	}

	return requireRow(r.q.UpdateUser(ctx, gen.UpdateUserParams{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		UnitNumber:   u.UnitNumber,
		PropertyType: string(u.PropertyType),
		Role:         string(u.Role),
		Verified:     u.Verified,
		UpdatedAt:    now(),
		ID:           userID,
	}))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return requireRow(r.q.UpdateUserPasswordHash(ctx, gen.UpdateUserPasswordHashParams{
		PasswordHash: newHash,
		UpdatedAt:    now(),
		ID:           userID,
	}))
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	return requireRow(r.q.DeleteUser(ctx, userID))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) UpdateMFASecret(ctx context.Context, userID string, secret string) error {
	return requireRow(r.q.UpdateUserMFASecret(ctx, gen.UpdateUserMFASecretParams{
		MfaSecret: sql.NullString{String: secret, Valid: secret != ""},
		UpdatedAt: now(),
		ID:        userID,
	}))
}

func (r *usersRepo) EnableMFA(ctx context.Context, userID string) error {
	at := now()
	return requireRow(r.q.EnableUserMFA(ctx, gen.EnableUserMFAParams{
		MfaEnabled: sql.NullTime{Time: at, Valid: true},
		UpdatedAt:  at,
		ID:         userID,
	}))
}

func (r *usersRepo) DisableMFA(ctx context.Context, userID string) error {
	return requireRow(r.q.DisableUserMFA(ctx, gen.DisableUserMFAParams{
		UpdatedAt: now(),
		ID:        userID,
	}))
}
