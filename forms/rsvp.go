package forms

import (
	"context"
	"time"

	"github.com/aandrx/portfolio/dlog"
	"github.com/aandrx/portfolio/rdsdb"
	"github.com/aandrx/portfolio/store"
	"github.com/redis/go-redis/v9"
)

const countCacheTTL = 10 * time.Minute

type RSVPForm struct {
	EventID             string `json:"eventId" validate:"required"`
	Name                string `json:"name" validate:"min=2"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone"`
	GuestCount          int    `json:"guestCount" validate:"min=1,max=10"`
	Attending           string `json:"attending" validate:"required,oneof=YES NO MAYBE"`
	DietaryRestrictions string `json:"dietaryRestrictions"`
	Message             string `json:"message"`
}

func (f *RSVPForm) Normalize() {
	f.EventID, f.Name, f.Email = plainText(f.EventID), plainText(f.Name), plainText(f.Email)
}

// CachedCount is an rsvp count tagged with the event version it was read at.
type CachedCount struct {
	Version int64           `msgpack:"v"`
	Count   store.RSVPCount `msgpack:"c"`
}

// CountCache keeps rsvp counts in redis. Writers bump the event version after
// every upsert, so a count read before a write never matches afterwards.
type CountCache struct {
	Counts   *rdsdb.CtxString[string, *CachedCount]
	Versions *rdsdb.CtxString[string, int64]
}

// NewCountCache stores counts under "<prefix>:<eventId>" and versions under
// "<prefix>version:<eventId>". rc may be nil.
func NewCountCache(rc *redis.Client, prefix string) *CountCache {
	return &CountCache{
		Counts:   rdsdb.StringKey[string, *CachedCount](rc, prefix),
		Versions: rdsdb.StringKey[string, int64](rc, prefix+"version"),
	}
}

func (c *CountCache) version(ctx context.Context, eventID string) (int64, error) {
	v, err := c.Versions.Get(ctx, eventID)
	if rdsdb.IsMissing(err) {
		return 0, nil
	}
	return v, err
}

// get returns the cached count when it was read at the current version
func (c *CountCache) get(ctx context.Context, eventID string) (count *store.RSVPCount, version int64, err error) {
	if version, err = c.version(ctx, eventID); err != nil {
		return nil, 0, err
	}
	cached, err := c.Counts.Get(ctx, eventID)
	if rdsdb.IsMissing(err) {
		return nil, version, nil
	} else if err != nil {
		return nil, version, err
	}
	if cached.Version != version {
		return nil, version, nil
	}
	return &cached.Count, version, nil
}

func (c *CountCache) put(ctx context.Context, eventID string, version int64, count store.RSVPCount) error {
	return c.Counts.Set(ctx, eventID, &CachedCount{Version: version, Count: count}, countCacheTTL)
}

func (s *Service) SubmitRSVP(ctx context.Context, in *RSVPForm) (*Submit, error) {
	rsvp := &store.EventRSVP{
		EventID:             in.EventID,
		Name:                in.Name,
		Email:               in.Email,
		Phone:               optional(in.Phone),
		GuestCount:          in.GuestCount,
		Attending:           store.Attendance(in.Attending),
		DietaryRestrictions: optional(in.DietaryRestrictions),
		Message:             optional(in.Message),
	}
	if err := s.repo.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, err
	}
	dlog.Info().Str("form", "rsvp").Str("status", "success").Str("eventId", rsvp.EventID).Str("rsvpId", rsvp.ID).Msg("RSVP submitted")

	version, err := s.counts.Versions.Incr(ctx, rsvp.EventID)
	if err != nil && err != rdsdb.ErrNoRedis {
		dlog.Warn().Err(err).Str("eventId", rsvp.EventID).Msg("rsvp count cache not invalidated")
	}
	count, err := s.repo.CountRSVP(ctx, rsvp.EventID)
	if err != nil {
		dlog.Warn().Err(err).Str("eventId", rsvp.EventID).Msg("rsvp count after submit failed")
		return &Submit{Success: true, Message: "RSVP submitted successfully!", ID: rsvp.ID}, nil
	}
	if version > 0 {
		if err := s.counts.put(ctx, rsvp.EventID, version, count); err != nil {
			dlog.Warn().Err(err).Str("eventId", rsvp.EventID).Msg("rsvp count cache write failed")
		}
	}
	if s.OnRSVPCount != nil {
		s.OnRSVPCount(rsvp.EventID, count)
	}
	return &Submit{Success: true, Message: "RSVP submitted successfully!", ID: rsvp.ID}, nil
}

type RSVPCountQuery struct {
	EventID string `json:"eventId" validate:"required"`
}

// CountRSVP is read through the redis cache when one is configured
func (s *Service) CountRSVP(ctx context.Context, in *RSVPCountQuery) (*store.RSVPCount, error) {
	cached, version, err := s.counts.get(ctx, in.EventID)
	if cached != nil {
		return cached, nil
	}
	cacheUsable := err == nil
	if err != nil && err != rdsdb.ErrNoRedis {
		dlog.Warn().Err(err).Str("eventId", in.EventID).Msg("rsvp count cache read failed")
	}
	count, err := s.repo.CountRSVP(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if cacheUsable {
		if err := s.counts.put(ctx, in.EventID, version, count); err != nil {
			dlog.Warn().Err(err).Str("eventId", in.EventID).Msg("rsvp count cache write failed")
		}
	}
	return &count, nil
}

type RSVPListQuery struct {
	EventID string `json:"eventId" validate:"required"`
}

func (s *Service) ListRSVPs(ctx context.Context, in *RSVPListQuery) ([]store.EventRSVP, error) {
	return s.repo.ListRSVPs(ctx, in.EventID)
}
