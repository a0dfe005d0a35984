package sqlite

import (
	"context"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store/drivers/sqlite/gen"
)

type announcementsRepo struct {
	q *gen.Queries
}

func (r *announcementsRepo) CreateAnnouncement(ctx context.Context, a domain.Announcement) error {
	if err := a.Validate(); err != nil {
		return err
	}
	created := stampOrNow(a.CreatedAt)
	return mapWriteErr(r.q.CreateAnnouncement(ctx, gen.CreateAnnouncementParams{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		Priority:  string(a.Priority),
		CreatedBy: mapOptionalString(a.CreatedBy),
		CreatedAt: created,
		UpdatedAt: created,
	}))
}

func (r *announcementsRepo) GetAnnouncementByID(ctx context.Context, id string) (domain.Announcement, error) {
	row, err := r.q.GetAnnouncementByID(ctx, id)
	if err != nil {
		return domain.Announcement{}, mapNotFound(err)
	}
	return mapAnnouncement(row), nil
}

func (r *announcementsRepo) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := r.q.ListAnnouncements(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Announcement, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapAnnouncement(row))
	}
	return out, nil
}

func (r *announcementsRepo) UpdateAnnouncement(ctx context.Context, id string, upd store.AnnouncementUpdate) (domain.Announcement, error) {
	row, err := r.q.GetAnnouncementByID(ctx, id)
	if err != nil {
		return domain.Announcement{}, mapNotFound(err)
	}
	a := store.ApplyAnnouncementUpdate(mapAnnouncement(row), upd)
	if err := a.Validate(); err != nil {
		return domain.Announcement{}, err
	}

	updated, err := r.q.UpdateAnnouncement(ctx, gen.UpdateAnnouncementParams{
		Title:     a.Title,
		Content:   a.Content,
		Priority:  string(a.Priority),
		UpdatedAt: now(),
		ID:        id,
	})
	if err != nil {
		return domain.Announcement{}, mapNotFound(err)
	}
	return mapAnnouncement(updated), nil
}

func (r *announcementsRepo) DeleteAnnouncement(ctx context.Context, id string) error {
	return requireRow(r.q.DeleteAnnouncement(ctx, id))
}
