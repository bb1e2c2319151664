package forms

import (
	"context"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/store"
)

var defaultPreferences = []string{"new_work"}

type NewsletterForm struct {
	Email       string   `json:"email" validate:"required,email"`
	Name        string   `json:"name"`
	Preferences []string `json:"preferences"`
}

func (f *NewsletterForm) Normalize() {
	f.Email = plainText(f.Email)
	if f.Preferences == nil {
		f.Preferences = append([]string(nil), defaultPreferences...)
	}
	for i, p := range f.Preferences {
		f.Preferences[i] = plainText(p)
	}
}

func (s *Service) Subscribe(ctx context.Context, in *NewsletterForm) (*Submit, error) {
	sub := &store.NewsletterSubscription{
		Email:       in.Email,
		Name:        optional(in.Name),
		Preferences: in.Preferences,
	}
	if err := s.repo.UpsertNewsletter(ctx, sub); err != nil {
		return nil, err
	}
	dlog.Info().Str("form", "newsletter").Str("status", "success").Str("subscriptionId", sub.ID).Msg("Newsletter subscribed")
	return &Submit{Success: true, Message: "Successfully subscribed to newsletter!", ID: sub.ID}, nil
}

type NewsletterUnsubscribeForm struct {
	Email  string `json:"email" validate:"required"`
	Reason string `json:"reason"`
}

func (f *NewsletterUnsubscribeForm) Normalize() {
	f.Email = plainText(f.Email)
}

func (s *Service) Unsubscribe(ctx context.Context, in *NewsletterUnsubscribeForm) (*Submit, error) {
	if err := s.repo.Unsubscribe(ctx, in.Email, optional(in.Reason)); err != nil {
		return nil, err
	}
	dlog.Info().Str("form", "newsletter").Str("status", "unsubscribed").Msg("Newsletter unsubscribed")
	return &Submit{Success: true, Message: "Successfully unsubscribed"}, nil
}
