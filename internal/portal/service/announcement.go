package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/authz"
	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

type AnnouncementService struct {
	Store store.Store
	Clock func() time.Time
}

// AnnouncementInput is the bulletin form. On update, empty fields keep the
// stored value.
type AnnouncementInput struct {
	Title    string
	Content  string
	Priority string
}

func (s *AnnouncementService) List(ctx context.Context, actor Actor) ([]domain.Announcement, error) {
	if err := actor.Authorize(authz.ReadAnnouncements); err != nil {
		return nil, err
	}
	return s.Store.Announcements().ListAnnouncements(ctx)
}

func (s *AnnouncementService) Create(ctx context.Context, actor Actor, in AnnouncementInput) (domain.Announcement, error) {
	if err := actor.Authorize(authz.ManageAnnouncements); err != nil {
		return domain.Announcement{}, err
	}

	v := domain.NewValidationError()
	priority, ok := domain.ParsePriority(in.Priority)
	if !ok {
		v.Add("priority", "must be one of low, normal, high")
	}

	now := clockOrNow(s.Clock)
	author := actor.UserID
	a := domain.Announcement{
		ID:        idx.NewAt(now).String(),
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Priority:  priority,
		CreatedBy: &author,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := mergeValidation(v, a.Validate(), "priority"); err != nil {
		return domain.Announcement{}, err
	}
	if err := v.OrNil(); err != nil {
		return domain.Announcement{}, err
	}

	if err := s.Store.Announcements().CreateAnnouncement(ctx, a); err != nil {
		return domain.Announcement{}, err
	}
	slogx.FromContext(ctx).Info("announcement published", slog.String("announcement_id", a.ID))
	return s.Store.Announcements().GetAnnouncementByID(ctx, a.ID)
}

func (s *AnnouncementService) Update(ctx context.Context, actor Actor, id string, in AnnouncementInput) (domain.Announcement, error) {
	if err := actor.Authorize(authz.ManageAnnouncements); err != nil {
		return domain.Announcement{}, err
	}

	current, err := s.Store.Announcements().GetAnnouncementByID(ctx, id)
	if err != nil {
		return domain.Announcement{}, err
	}

	v := domain.NewValidationError()
	var upd store.AnnouncementUpdate
	if strings.TrimSpace(in.Title) != "" {
		upd.Title = &in.Title
	}
	if strings.TrimSpace(in.Content) != "" {
		upd.Content = &in.Content
	}
	if strings.TrimSpace(in.Priority) != "" {
		p, ok := domain.ParsePriority(in.Priority)
		if !ok {
			v.Add("priority", "must be one of low, normal, high")
		} else {
			upd.Priority = &p
		}
	}
	if err := mergeValidation(v, store.ApplyAnnouncementUpdate(current, upd).Validate()); err != nil {
		return domain.Announcement{}, err
	}
	if err := v.OrNil(); err != nil {
		return domain.Announcement{}, err
	}

	return s.Store.Announcements().UpdateAnnouncement(ctx, id, upd)
}

func (s *AnnouncementService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := actor.Authorize(authz.ManageAnnouncements); err != nil {
		return err
	}
	if err := s.Store.Announcements().DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("announcement deleted", slog.String("announcement_id", id))
	return nil
}
