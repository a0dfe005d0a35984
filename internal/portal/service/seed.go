package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/hoaportal/internal/portal/domain"
	"github.com/aussiebroadwan/hoaportal/internal/portal/store"
	"github.com/aussiebroadwan/hoaportal/pkg/idx"
	"github.com/aussiebroadwan/hoaportal/pkg/slogx"
)

// AdminSeed describes the administrator created on an empty database.
type AdminSeed struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Address   string
}

type SeedService struct {
	Store store.Store
	Clock func() time.Time
}

// SeedAdmin creates a verified administrator when no user exists yet. It
// reports whether an account was created; a populated database is left
// untouched.
func (s *SeedService) SeedAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	if !empty {
		l.Debug("users present, skipping admin seed")
		return false, nil
	}

	in := RegisterInput{
		FirstName: seed.FirstName,
		LastName:  seed.LastName,
		Email:     seed.Email,
		Password:  seed.Password,
		Address:   seed.Address,
	}
	if in.FirstName == "" {
		in.FirstName = "Portal"
	}
	if in.LastName == "" {
		in.LastName = "Administrator"
	}
	if in.Address == "" {
		in.Address = "HOA Office"
	}

	u, err := newUser(in, domain.RoleAdmin, true, clockOrNow(s.Clock))
	if err != nil {
		return false, err
	}

	created := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// re-checked inside the transaction so two replicas starting together
		// seed at most once
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil || !empty {
			return err
		}
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil || !created {
		return false, err
	}

	l.Info("seeded administrator", slog.String("user_id", u.ID), slog.String("email", u.Email))
	return true, nil
}

// sampleAnnouncements are published on a fresh board, first entry newest.
var sampleAnnouncements = []struct {
	title    string
	content  string
	priority domain.Priority
}{
	{
		"Welcome to Our HOA Community!",
		"Dear residents, welcome to our HOA community! This portal keeps everyone informed about community updates, events and important notices. Please check back regularly for new announcements.",
		domain.PriorityHigh,
	},
	{
		"Monthly Community Clean-up Drive",
		"Join us for the monthly clean-up drive this Saturday from 8 AM to 11 AM. We meet at the community park. Please bring gloves and wear comfortable clothing. Refreshments will be provided.",
		domain.PriorityNormal,
	},
	{
		"Important: New Parking Regulations",
		"New parking regulations start next month. Each household will be issued two parking stickers and additional vehicles must use the visitor areas. Stickers are available at the admin office.",
		domain.PriorityHigh,
	},
	{
		"Community Garden Project",
		"Residents who would like to keep a garden plot can sign up at the admin office. Spots are limited and allocated first come, first served.",
		domain.PriorityNormal,
	},
	{
		"Pool Maintenance Schedule",
		"The community pool will be closed from Monday to Wednesday next week for routine maintenance. Thank you for your understanding.",
		domain.PriorityLow,
	},
}

// SeedAnnouncements publishes the sample bulletins when the board is empty and
// returns how many were written. They are credited to the member with
// authorEmail when that account exists, and left without an author otherwise.
func (s *SeedService) SeedAnnouncements(ctx context.Context, authorEmail string) (int, error) {
	l := slogx.FromContext(ctx)

	var author *string
	if authorEmail != "" {
		u, err := s.Store.Users().GetUserByEmail(ctx, domain.NormalizeEmail(authorEmail))
		switch {
		case err == nil:
			author = &u.ID
		case !errors.Is(err, store.ErrNotFound):
			return 0, err
		}
	}

	now := clockOrNow(s.Clock)
	created := 0
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Announcements().ListAnnouncements(ctx)
		if err != nil || len(existing) > 0 {
			return err
		}
		for i, sample := range sampleAnnouncements {
			at := now.Add(-time.Duration(i) * time.Second)
			a := domain.Announcement{
				ID:        idx.NewAt(at).String(),
				Title:     sample.title,
				Content:   sample.content,
				Priority:  sample.priority,
				CreatedBy: author,
				CreatedAt: at,
				UpdatedAt: at,
			}
			if err := tx.Announcements().CreateAnnouncement(ctx, a); err != nil {
				return err
			}
		}
		created = len(sampleAnnouncements)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created == 0 {
		l.Debug("announcements present, skipping sample seed")
	} else {
		l.Info("seeded sample announcements", slog.Int("count", created))
	}
	return created, nil
}
