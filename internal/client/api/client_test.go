package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/httpapi"
	servermodels "github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/valyala/fasthttp/fasthttputil"
	"golang.org/x/crypto/bcrypt"
)

type catalog struct{}

func (catalog) Search(ctx context.Context, query string) ([]*servermodels.Duck, error) {
	return []*servermodels.Duck{{ID: "d1", Title: query}}, nil
}

func (catalog) Retrieve(ctx context.Context, id string) (*servermodels.Duck, error) {
	if id != "d1" {
		return nil, common.ErrorNotFound
	}
	return &servermodels.Duck{ID: "d1", Title: "Rubber"}, nil
}

func serve(t *testing.T, h fasthttp.RequestHandler) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: h}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	hc := &fasthttp.Client{Dial: func(addr string) (net.Conn, error) { return ln.Dial() }}
	return New("http://notekeeper.test/api/", time.Second, hc)
}

// newServerClient runs the real HTTP API in memory.
func newServerClient(t *testing.T) *Client {
	t.Helper()
	m := repomanager.NewMemoryRepositoryManager()
	creds := auth.NewCredentials(auth.BcryptHasher{Cost: bcrypt.MinCost}, auth.NewTokenManager([]byte("k"), time.Hour))
	s := httpapi.NewHTTPServer(":0", logging.Discard(),
		services.NewUserService(m, creds),
		services.NewNoteService(m),
		services.NewDuckService(m, catalog{}),
	)
	return serve(t, fasthttpadaptor.NewFastHTTPHandler(s.Handler()))
}

func TestClient_EndToEnd(t *testing.T) {
	c := newServerClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	p, err := c.Register(ctx, "Jane", "Doe", "jane@mail.com", "123")
	require.NoError(t, err)
	assert.Equal(t, "jane@mail.com", p.Email)

	_, err = c.Register(ctx, "Jane", "Doe", "jane@mail.com", "123")
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.EqualError(t, err, `user with email "jane@mail.com" already exists`)

	_, err = c.Login(ctx, "jane@mail.com", "bad")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	s, err := c.Login(ctx, "jane@mail.com", "123")
	require.NoError(t, err)
	assert.Equal(t, p.ID, s.UserID)
	assert.False(t, s.Expired(time.Now()))

	me, err := c.Profile(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "Jane", me.Name)

	roe := "Roe"
	me, err = c.UpdateProfile(ctx, s, models.UserUpdate{Surname: &roe})
	require.NoError(t, err)
	assert.Equal(t, "Roe", me.Surname)

	n, err := c.AddNote(ctx, s, "hello", false)
	require.NoError(t, err)
	_, err = c.AddNote(ctx, s, "secret", true)
	require.NoError(t, err)

	all, err := c.Notes(ctx, s)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := c.MyNotes(ctx, s)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, c.DeleteNote(ctx, s, n.ID))
	require.ErrorIs(t, c.DeleteNote(ctx, s, n.ID), common.ErrorNotFound)

	ducks, err := c.SearchDucks(ctx, "blue duck")
	require.NoError(t, err)
	require.Len(t, ducks, 1)
	assert.Equal(t, "blue duck", ducks[0].Title)

	on, err := c.ToggleFavorite(ctx, s, "d1")
	require.NoError(t, err)
	assert.True(t, on)

	favs, err := c.Favorites(ctx, s)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Rubber", favs[0].Title)

	require.NoError(t, c.DeleteAccount(ctx, s))
	_, err = c.Profile(ctx, s)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestClient_Unauthenticated(t *testing.T) {
	c := newServerClient(t)

	_, err := c.Profile(context.Background(), Session{Token: "garbage"})
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
}

func TestClient_BadRequest(t *testing.T) {
	c := newServerClient(t)

	_, err := c.Register(context.Background(), "", "Doe", "jane@mail.com", "1")
	require.ErrorIs(t, err, ErrBadRequest)
	assert.EqualError(t, err, "name is empty")
}

func TestClient_Unavailable(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	require.NoError(t, ln.Close())
	hc := &fasthttp.Client{Dial: func(addr string) (net.Conn, error) { return ln.Dial() }}
	c := New("http://notekeeper.test/api", time.Second, hc)

	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
	})
	c.timeout = 50 * time.Millisecond

	err := c.Ping(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, common.ErrorTimeout)
}

func TestClient_CancelledContext(t *testing.T) {
	c := serve(t, func(ctx *fasthttp.RequestCtx) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, c.Ping(ctx), context.Canceled)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "server answered 500", (&Error{Status: 500}).Error())
	assert.ErrorIs(t, &Error{Status: 500}, common.ErrorInternal)
	assert.ErrorIs(t, &Error{Status: 502}, common.ErrorConnection)
	assert.ErrorIs(t, &Error{Status: 403}, common.ErrorForbidden)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.True(t, Session{ExpiresAt: now.Add(-time.Second)}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.False(t, Session{}.Expired(now))
}
