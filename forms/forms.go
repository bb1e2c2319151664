package forms

import (
	"context"
	"html"
	"net/http"
	"strings"

	"github.com/aandrx/portfolio/api"
	"github.com/aandrx/portfolio/store"
	"github.com/microcosm-cc/bluemonday"
)

// Repository is the persistence the forms need, *store.Store implements it.
type Repository interface {
	CreateContactSubmission(ctx context.Context, sub *store.ContactSubmission) error
	ListContactSubmissions(ctx context.Context, limit int) ([]store.ContactSubmission, error)
	UpdateContactStatus(ctx context.Context, id string, status store.ContactStatus) error
	UpsertNewsletter(ctx context.Context, sub *store.NewsletterSubscription) error
	Unsubscribe(ctx context.Context, email string, reason *string) error
	UpsertRSVP(ctx context.Context, rsvp *store.EventRSVP) error
	CountRSVP(ctx context.Context, eventID string) (store.RSVPCount, error)
	ListRSVPs(ctx context.Context, eventID string) ([]store.EventRSVP, error)
}

// Service implements the form apis on top of a Repository.
type Service struct {
	repo Repository
	// counts caches rsvp counts in redis, a nil client disables it
	counts *CountCache
	// OnRSVPCount is called with the fresh count after an rsvp is written
	OnRSVPCount func(eventID string, count store.RSVPCount)
}

func NewService(repo Repository, counts *CountCache) *Service {
	if counts == nil {
		counts = NewCountCache(nil, "")
	}
	return &Service{repo: repo, counts: counts}
}

// Route binds an api to an http endpoint with its user facing messages.
type Route struct {
	Method string
	Path   string
	Api    api.ApiInterface
	// Status on success
	Status int
	// Permission needed in the admin jwt, empty for public routes
	Permission string
	// Invalid is sent with 400 when params fail to decode or validate
	Invalid string
	// Failed is sent with 500 on any other error
	Failed string
	// NotFound is sent with 404 when the record to change does not exist
	NotFound string
}

// Submit is the reply to a successful form post
type Submit struct {
	Success bool   `json:"success" msgpack:"success"`
	Message string `json:"message" msgpack:"message"`
	ID      string `json:"id,omitempty" msgpack:"id,omitempty"`
}

var stripTags = bluemonday.StrictPolicy()

// plainText removes markup and surrounding space from user input. Entities are
// decoded and stripped again until the text is stable, so encoded tags never
// come back to life. Text that does not settle is kept escaped.
func plainText(s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(stripTags.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	return strings.TrimSpace(stripTags.Sanitize(s))
}

func optional(s string) *string {
	if s = plainText(s); s == "" {
		return nil
	}
	return &s
}

// UnknownIP is recorded when a request names no client address
const UnknownIP = "unknown"

// ClientIP picks the address a form was sent from: the first X-Forwarded-For
// entry, then X-Real-Ip, else "unknown".
func ClientIP(forwardedFor, realIP string) string {
	if first, _, _ := strings.Cut(forwardedFor, ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if realIP = strings.TrimSpace(realIP); realIP != "" {
		return realIP
	}
	return UnknownIP
}

// ClientIPOf is ClientIP over request headers
func ClientIPOf(h http.Header) string {
	return ClientIP(h.Get("X-Forwarded-For"), h.Get("X-Real-Ip"))
}

// Routes registers every form api into reg and returns their endpoints.
func (s *Service) Routes(reg *api.Registry) []Route {
	in := api.WithRegistry(reg)
	return []Route{
		{
			Method:  http.MethodPost,
			Path:    "/api/contact",
			Status:  http.StatusCreated,
			Api:     api.Api(s.SubmitContact, in),
			Invalid: "Invalid form data. Please check your inputs.",
			Failed:  "Failed to submit contact form. Please try again.",
		},
		{
			Method:     http.MethodGet,
			Path:       "/api/contact",
			Status:     http.StatusOK,
			Permission: PermContactList,
			Api:        api.Api(s.ListContacts, in),
			Invalid:    "Invalid query.",
			Failed:     "Failed to fetch submissions",
		},
		{
			Method:     http.MethodPatch,
			Path:       "/api/contact/{id}",
			Status:     http.StatusOK,
			Permission: PermContactUpdate,
			Api:        api.Api(s.UpdateContactStatus, in),
			Invalid:    "Invalid status.",
			Failed:     "Failed to update submission",
			NotFound:   "Submission not found",
		},
		{
			Method:  http.MethodPost,
			Path:    "/api/newsletter",
			Status:  http.StatusCreated,
			Api:     api.Api(s.Subscribe, in),
			Invalid: "Invalid email address.",
			Failed:  "Failed to subscribe. Please try again.",
		},
		{
			Method:   http.MethodDelete,
			Path:     "/api/newsletter",
			Status:   http.StatusOK,
			Api:      api.Api(s.Unsubscribe, in),
			Invalid:  "Email is required",
			Failed:   "Failed to unsubscribe",
			NotFound: "Subscription not found",
		},
		{
			Method:  http.MethodPost,
			Path:    "/api/rsvp",
			Status:  http.StatusCreated,
			Api:     api.Api(s.SubmitRSVP, in),
			Invalid: "Invalid form data. Please check your inputs.",
			Failed:  "Failed to submit RSVP. Please try again.",
		},
		{
			Method:  http.MethodGet,
			Path:    "/api/rsvp",
			Status:  http.StatusOK,
			Api:     api.Api(s.CountRSVP, in),
			Invalid: "eventId parameter is required",
			Failed:  "Failed to fetch RSVP count",
		},
		{
			Method:     http.MethodGet,
			Path:       "/api/rsvp/list",
			Status:     http.StatusOK,
			Permission: PermRSVPList,
			Api:        api.Api(s.ListRSVPs, in),
			Invalid:    "eventId parameter is required",
			Failed:     "Failed to fetch RSVPs",
		},
	}
}

const (
	PermContactList   = "contact:list"
	PermContactUpdate = "contact:update"
	PermRSVPList      = "rsvp:list"
)
