package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
)

const announcementColumns = `id, title, content, priority, created_by, created_at, updated_at`

type announcementsRepo struct {
	db DBTX
}

func scanAnnouncement(row rowScanner) (domain.Announcement, error) {
	var (
		a         domain.Announcement
		priority  string
		createdBy sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &priority, &createdBy, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Announcement{}, err
	}
	a.Priority = domain.Priority(priority)
	a.CreatedBy = stringPtr(createdBy)
	return a, nil
}

func (r *announcementsRepo) CreateAnnouncement(ctx context.Context, a domain.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO announcements (` + announcementColumns + `)
    VALUES ($1, $2, $3, $4, $5, $6, $6)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Title, a.Content, string(a.Priority), nullString(a.CreatedBy), stampOrNow(a.CreatedAt))
	return mapErr(err)
}

func (r *announcementsRepo) GetAnnouncementByID(ctx context.Context, id string) (domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements WHERE id = $1`
	a, err := scanAnnouncement(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Announcement{}, mapErr(err)
	}
	return a, nil
}

func (r *announcementsRepo) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	query := `SELECT ` + announcementColumns + ` FROM announcements ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []domain.Announcement{}
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *announcementsRepo) UpdateAnnouncement(ctx context.Context, id string, upd store.AnnouncementUpdate) (domain.Announcement, error) {
	current, err := r.GetAnnouncementByID(ctx, id)
	if err != nil {
		return domain.Announcement{}, err
	}
	a := store.ApplyAnnouncementUpdate(current, upd)
	if err := a.Validate(); err != nil {
		return domain.Announcement{}, err
	}

	query := `UPDATE announcements
    SET title = $1, content = $2, priority = $3, updated_at = $4
    WHERE id = $5
    RETURNING ` + announcementColumns
	updated, err := scanAnnouncement(r.db.QueryRowContext(ctx, query,
		a.Title, a.Content, string(a.Priority), now(), id))
	if err != nil {
		return domain.Announcement{}, mapErr(err)
	}
	return updated, nil
}

func (r *announcementsRepo) DeleteAnnouncement(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id))
}
