package forms

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aandrx/portfolio/api"
	"github.com/aandrx/portfolio/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, withRedis bool) (*Service, *store.Store, map[string]api.ApiInterface) {
	t.Helper()
	db, err := store.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "forms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var rc *redis.Client
	if withRedis {
		mr := miniredis.RunT(t)
		rc = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { rc.Close() })
	}
	svc := NewService(db, NewCountCache(rc, "rsvpcount"))
	apis := map[string]api.ApiInterface{}
	for _, r := range svc.Routes(api.NewRegistry()) {
		apis[r.Api.GetName()] = r.Api
	}
	return svc, db, apis
}

func TestRouteNames(t *testing.T) {
	_, _, apis := newTestService(t, false)
	for _, name := range []string{"contact", "contact-list", "contact-status", "newsletter",
		"newsletter-unsubscribe", "rsvp", "rsvp-count", "rsvp-list"} {
		assert.Contains(t, apis, name)
	}
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "1.1.1.1", ClientIP("1.1.1.1, 10.0.0.1", "2.2.2.2"))
	assert.Equal(t, "2.2.2.2", ClientIP("", "2.2.2.2"))
	assert.Equal(t, "unknown", ClientIP(" ", ""))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Ann", plainText("  <b>Ann</b> "))
	assert.Equal(t, "Tom & Jerry", plainText("Tom &amp; Jerry"))
	assert.Equal(t, "a < b", plainText("a < b"))
	for _, in := range []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;Ann",
		"&amp;lt;img src=x onerror=alert(1)&amp;gt;Ann",
		"<<b>img src=x onerror=alert(1)>Ann",
	} {
		out := plainText(in)
		assert.NotContains(t, out, "<script", in)
		assert.NotContains(t, out, "<img", in)
		assert.Contains(t, out, "Ann", in)
	}
}

func TestSubmitContact(t *testing.T) {
	ctx := context.Background()
	_, db, apis := newTestService(t, false)

	out, err := apis["contact"].CallByMap(ctx, map[string]interface{}{
		"name":                  "<b>Ann</b>",
		"email":                 "ann@example.com",
		"message":               "I love the starry night series",
		"HeaderX-Forwarded-For": "9.9.9.9",
	})
	require.NoError(t, err)
	submit := out.(*Submit)
	assert.True(t, submit.Success)

	subs, err := db.ListContactSubmissions(ctx, 50)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Ann", subs[0].Name)
	assert.Equal(t, "9.9.9.9", subs[0].IPAddress)
	assert.Nil(t, subs[0].Subject)
	assert.Equal(t, submit.ID, subs[0].ID)
}

func TestSubmitContactInvalid(t *testing.T) {
	_, _, apis := newTestService(t, false)
	cases := []map[string]interface{}{
		{"name": "A", "email": "ann@example.com", "message": "long enough message"},
		{"name": "Ann", "email": "not-an-email", "message": "long enough message"},
		{"name": "Ann", "email": "ann@example.com", "message": "short"},
		{"name": "Ann", "email": "ann@example.com", "message": "<i></i>         "},
	}
	for _, c := range cases {
		_, err := apis["contact"].CallByMap(context.Background(), c)
		assert.ErrorIs(t, err, api.ErrInvalidParam)
	}
}

func TestUpdateContactStatus(t *testing.T) {
	ctx := context.Background()
	_, db, apis := newTestService(t, false)

	sub := &store.ContactSubmission{Name: "Ann", Email: "ann@example.com", Message: "hello there friend"}
	require.NoError(t, db.CreateContactSubmission(ctx, sub))

	_, err := apis["contact-status"].CallByMap(ctx, map[string]interface{}{"id": sub.ID, "status": "READ"})
	require.NoError(t, err)
	subs, err := db.ListContactSubmissions(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, store.StatusRead, subs[0].Status)

	_, err = apis["contact-status"].CallByMap(ctx, map[string]interface{}{"id": sub.ID, "status": "SPAM"})
	assert.ErrorIs(t, err, api.ErrInvalidParam)

	_, err = apis["contact-status"].CallByMap(ctx, map[string]interface{}{"id": "missing", "status": "READ"})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestListContactsLimit(t *testing.T) {
	ctx := context.Background()
	_, db, apis := newTestService(t, false)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.CreateContactSubmission(ctx, &store.ContactSubmission{Name: "Ann", Email: "a@b.co", Message: "hello there friend"}))
	}
	out, err := apis["contact-list"].CallByMap(ctx, map[string]interface{}{})
	require.NoError(t, err)
	assert.Len(t, out.([]store.ContactSubmission), 3)

	out, err = apis["contact-list"].CallByMap(ctx, map[string]interface{}{"limit": "2"})
	require.NoError(t, err)
	assert.Len(t, out.([]store.ContactSubmission), 2)

	_, err = apis["contact-list"].CallByMap(ctx, map[string]interface{}{"limit": 51})
	assert.ErrorIs(t, err, api.ErrInvalidParam)
}

func TestNewsletter(t *testing.T) {
	ctx := context.Background()
	_, db, apis := newTestService(t, false)

	_, err := apis["newsletter"].CallByMap(ctx, map[string]interface{}{"email": "fan@example.com"})
	require.NoError(t, err)
	sub, err := db.GetNewsletter(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"new_work"}, sub.Preferences)
	assert.True(t, sub.IsActive)

	_, err = apis["newsletter"].CallByMap(ctx, map[string]interface{}{"email": "fan@example.com", "name": "Fan", "preferences": []interface{}{"events"}})
	require.NoError(t, err)
	sub, err = db.GetNewsletter(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"events"}, sub.Preferences)
	require.NotNil(t, sub.Name)
	assert.Equal(t, "Fan", *sub.Name)

	_, err = apis["newsletter"].CallByMap(ctx, map[string]interface{}{"email": "nope"})
	assert.ErrorIs(t, err, api.ErrInvalidParam)

	out, err := apis["newsletter-unsubscribe"].CallByMap(ctx, map[string]interface{}{"email": "fan@example.com", "reason": "too many mails"})
	require.NoError(t, err)
	assert.Equal(t, "Successfully unsubscribed", out.(*Submit).Message)
	sub, err = db.GetNewsletter(ctx, "fan@example.com")
	require.NoError(t, err)
	assert.False(t, sub.IsActive)

	_, err = apis["newsletter-unsubscribe"].CallByMap(ctx, map[string]interface{}{})
	assert.ErrorIs(t, err, api.ErrInvalidParam)
	_, err = apis["newsletter-unsubscribe"].CallByMap(ctx, map[string]interface{}{"email": "ghost@example.com"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRSVP(t *testing.T) {
	ctx := context.Background()
	svc, _, apis := newTestService(t, true)

	var notified []store.RSVPCount
	svc.OnRSVPCount = func(eventID string, count store.RSVPCount) {
		assert.Equal(t, "opening", eventID)
		notified = append(notified, count)
	}

	rsvp := map[string]interface{}{"eventId": "opening", "name": "Ann", "email": "ann@example.com", "guestCount": "2", "attending": "YES"}
	_, err := apis["rsvp"].CallByMap(ctx, rsvp)
	require.NoError(t, err)

	count, err := apis["rsvp-count"].CallByMap(ctx, map[string]interface{}{"eventId": "opening"})
	require.NoError(t, err)
	assert.Equal(t, &store.RSVPCount{AttendingCount: 1, TotalGuests: 2}, count)

	// a second answer from the same email replaces the first and outdates the cached count
	rsvp["guestCount"] = 4
	_, err = apis["rsvp"].CallByMap(ctx, rsvp)
	require.NoError(t, err)
	count, err = apis["rsvp-count"].CallByMap(ctx, map[string]interface{}{"eventId": "opening"})
	require.NoError(t, err)
	assert.Equal(t, &store.RSVPCount{AttendingCount: 1, TotalGuests: 4}, count)

	require.Len(t, notified, 2)
	assert.Equal(t, int64(4), notified[1].TotalGuests)

	list, err := apis["rsvp-list"].CallByMap(ctx, map[string]interface{}{"eventId": "opening"})
	require.NoError(t, err)
	assert.Len(t, list.([]store.EventRSVP), 1)
}

func TestRSVPInvalid(t *testing.T) {
	_, _, apis := newTestService(t, false)
	base := func() map[string]interface{} {
		return map[string]interface{}{"eventId": "opening", "name": "Ann", "email": "ann@example.com", "guestCount": 1, "attending": "YES"}
	}
	for key, bad := range map[string]interface{}{"guestCount": 11, "attending": "SURE", "eventId": "", "name": "A"} {
		m := base()
		m[key] = bad
		_, err := apis["rsvp"].CallByMap(context.Background(), m)
		assert.ErrorIs(t, err, api.ErrInvalidParam, key)
	}
	m := base()
	delete(m, "guestCount")
	_, err := apis["rsvp"].CallByMap(context.Background(), m)
	assert.ErrorIs(t, err, api.ErrInvalidParam)

	_, err = apis["rsvp-count"].CallByMap(context.Background(), map[string]interface{}{})
	assert.ErrorIs(t, err, api.ErrInvalidParam)
}

// gatedRepo holds the next CountRSVP after it has read the database.
type gatedRepo struct {
	*store.Store
	read, release chan struct{}
}

func (g *gatedRepo) CountRSVP(ctx context.Context, eventID string) (store.RSVPCount, error) {
	count, err := g.Store.CountRSVP(ctx, eventID)
	if read := g.read; read != nil {
		g.read = nil
		read <- struct{}{}
		<-g.release
	}
	return count, err
}

func TestRSVPCountSlowReadDoesNotOutliveWrite(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "forms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	repo := &gatedRepo{Store: db, read: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(repo, NewCountCache(rc, "rsvpcount"))

	done := make(chan *store.RSVPCount)
	go func() {
		count, err := svc.CountRSVP(ctx, &RSVPCountQuery{EventID: "opening"})
		assert.NoError(t, err)
		done <- count
	}()
	<-repo.read

	_, err = svc.SubmitRSVP(ctx, &RSVPForm{EventID: "opening", Name: "Ann", Email: "ann@example.com", GuestCount: 3, Attending: "YES"})
	require.NoError(t, err)
	close(repo.release)
	assert.Equal(t, &store.RSVPCount{}, <-done)

	count, err := svc.CountRSVP(ctx, &RSVPCountQuery{EventID: "opening"})
	require.NoError(t, err)
	assert.Equal(t, &store.RSVPCount{AttendingCount: 1, TotalGuests: 3}, count)

	// every event expires on its own
	assert.Equal(t, countCacheTTL, mr.TTL("rsvpcount:opening"))
	_, err = svc.CountRSVP(ctx, &RSVPCountQuery{EventID: "gala"})
	require.NoError(t, err)
	assert.Equal(t, countCacheTTL, mr.TTL("rsvpcount:gala"))
	assert.Equal(t, "1", mustGet(t, mr, "rsvpcountversion:opening"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
