package postgres

import (
	"context"

	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// ApplyMigrations runs every pending goose migration embedded in the binary.
func (s *Store) ApplyMigrations() error {
	return s.migrate(context.Background())
}

func (s *Store) migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.db, ".")
}
