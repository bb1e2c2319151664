package forms

import (
	"context"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/store"
)

type ContactForm struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"min=10"`

	ForwardedFor string `json:"HeaderX-Forwarded-For"`
	RealIP       string `json:"HeaderX-Real-Ip"`
}

func (f *ContactForm) Normalize() {
	f.Name, f.Email, f.Message = plainText(f.Name), plainText(f.Email), plainText(f.Message)
}

func (s *Service) SubmitContact(ctx context.Context, in *ContactForm) (*Submit, error) {
	sub := &store.ContactSubmission{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   optional(in.Subject),
		Message:   in.Message,
		IPAddress: ClientIP(in.ForwardedFor, in.RealIP),
	}
	if err := s.repo.CreateContactSubmission(ctx, sub); err != nil {
		return nil, err
	}
	dlog.Info().Str("form", "contact").Str("status", "success").
		Str("submissionId", sub.ID).Str("email", sub.Email).Msg("Contact form submitted")
	return &Submit{Success: true, Message: "Thank you for your message! I will get back to you soon.", ID: sub.ID}, nil
}

type ContactListQuery struct {
	Limit int `json:"limit" validate:"omitempty,min=1,max=50"`
}

// ListContacts returns the latest submissions, at most 50.
func (s *Service) ListContacts(ctx context.Context, in *ContactListQuery) ([]store.ContactSubmission, error) {
	limit := in.Limit
	if limit == 0 {
		limit = 50
	}
	return s.repo.ListContactSubmissions(ctx, limit)
}

type ContactStatusForm struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required,oneof=NEW READ REPLIED ARCHIVED"`

	UpdatedBy string `json:"JwtSub"`
}

func (s *Service) UpdateContactStatus(ctx context.Context, in *ContactStatusForm) (*Submit, error) {
	if err := s.repo.UpdateContactStatus(ctx, in.ID, store.ContactStatus(in.Status)); err != nil {
		return nil, err
	}
	dlog.Info().Str("form", "contact").Str("submissionId", in.ID).Str("status", in.Status).Str("by", in.UpdatedBy).Msg("Contact submission updated")
	return &Submit{Success: true, Message: "Submission updated", ID: in.ID}, nil
}
