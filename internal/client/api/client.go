// Package api is a stateless client of the notekeeper HTTP API. Calls that
// need authentication take an explicit Session.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

// Session is the result of a login. It is immutable; logging out means
// dropping it.
type Session struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// New builds a client for baseURL (".../api"). A nil hc gets a default
// fasthttp.Client.
func New(baseURL string, timeout time.Duration, hc *fasthttp.Client) *Client {
	if hc == nil {
		hc = &fasthttp.Client{Name: "notekeeper-cli"}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, http: hc}
}

func (c *Client) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(c.timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}

// do sends one request. in is encoded as the JSON body when not nil and the
// response body is decoded into out when not nil.
func (c *Client) do(ctx context.Context, method, path string, sess *Session, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if sess != nil {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+sess.Token)
	}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return fmt.Errorf("%w: %w", ErrUnavailable, common.ErrorTimeout)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &payload)
		return &Error{Status: code, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, fasthttp.MethodGet, "/ping", nil, nil, nil)
}

func (c *Client) Register(ctx context.Context, name, surname, email, password string) (*models.Profile, error) {
	in := map[string]string{"name": name, "surname": surname, "email": email, "password": password}
	var p models.Profile
	if err := c.do(ctx, fasthttp.MethodPost, "/users", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.do(ctx, fasthttp.MethodPost, "/users/auth", nil, map[string]string{"email": email, "password": password}, &s)
	return s, err
}

func (c *Client) Profile(ctx context.Context, s Session) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, fasthttp.MethodGet, "/users", &s, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, s Session, upd models.UserUpdate) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, fasthttp.MethodPut, "/users", &s, upd, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteAccount(ctx context.Context, s Session) error {
	return c.do(ctx, fasthttp.MethodDelete, "/users", &s, nil, nil)
}

func (c *Client) Notes(ctx context.Context, s Session) ([]models.Note, error) {
	var res []models.Note
	err := c.do(ctx, fasthttp.MethodGet, "/notes", &s, nil, &res)
	return res, err
}

func (c *Client) MyNotes(ctx context.Context, s Session) ([]models.Note, error) {
	var res []models.Note
	err := c.do(ctx, fasthttp.MethodGet, "/users/notes", &s, nil, &res)
	return res, err
}

func (c *Client) AddNote(ctx context.Context, s Session, text string, private bool) (*models.Note, error) {
	path := "/notes"
	if private {
		path = "/notes/private"
	}
	var n models.Note
	if err := c.do(ctx, fasthttp.MethodPost, path, &s, map[string]string{"text": text}, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, s Session, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, "/notes/"+url.PathEscape(id), &s, nil, nil)
}

func (c *Client) SearchDucks(ctx context.Context, query string) ([]models.Duck, error) {
	var res []models.Duck
	err := c.do(ctx, fasthttp.MethodGet, "/ducks?query="+url.QueryEscape(query), nil, nil, &res)
	return res, err
}

func (c *Client) ToggleFavorite(ctx context.Context, s Session, duckID string) (bool, error) {
	var res struct {
		Favorite bool `json:"favorite"`
	}
	err := c.do(ctx, fasthttp.MethodPost, "/favorites/"+url.PathEscape(duckID), &s, nil, &res)
	return res.Favorite, err
}

func (c *Client) Favorites(ctx context.Context, s Session) ([]models.Duck, error) {
	var res []models.Duck
	err := c.do(ctx, fasthttp.MethodGet, "/favorites", &s, nil, &res)
	return res, err
}
