// Package ducks is a client for the third-party duck catalogue API.
package ducks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const DefaultBaseURL = "https://duckling-api.herokuapp.com/api"

// Client calls the catalogue with fasthttp. Each call is bounded by the
// configured timeout or the context deadline, whichever comes first.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient builds a client. A nil hc gets a default fasthttp.Client.
func NewClient(baseURL string, timeout time.Duration, hc *fasthttp.Client) *Client {
	if hc == nil {
		hc = &fasthttp.Client{Name: "notekeeper"}
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

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", common.ErrorTimeout, err)
		}
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoDeadline(req, resp, c.deadline(ctx)); err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("%w: duck api %s: %v", common.ErrorTimeout, path, err)
		}
		return nil, fmt.Errorf("%w: duck api %s: %v", common.ErrorConnection, path, err)
	}

	switch code := resp.StatusCode(); {
	case code == fasthttp.StatusNotFound:
		return nil, common.ErrorNotFound
	case code >= 500:
		return nil, fmt.Errorf("%w: duck api %s: status %d", common.ErrorConnection, path, code)
	case code != fasthttp.StatusOK:
		return nil, fmt.Errorf("%w: duck api %s: unexpected status %d", common.ErrorConnection, path, code)
	}

	return append([]byte(nil), resp.Body()...), nil
}

// Search returns the ducks matching query. Any payload that is not a JSON
// array (the API answers {"error": ...} when nothing matches) is an empty result.
func (c *Client) Search(ctx context.Context, query string) ([]*models.Duck, error) {
	body, err := c.get(ctx, "/search", url.Values{"q": []string{query}})
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return []*models.Duck{}, nil
	}

	var res []*models.Duck
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: decode ducks: %v", common.ErrorConnection, err)
	}
	if res == nil {
		res = []*models.Duck{}
	}
	return res, nil
}

type duckPayload struct {
	models.Duck
	Error string `json:"error"`
}

func (c *Client) Retrieve(ctx context.Context, id string) (*models.Duck, error) {
	body, err := c.get(ctx, "/ducks/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var p duckPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode duck: %v", common.ErrorConnection, err)
	}
	if p.Error != "" || p.ID == "" {
		return nil, common.ErrorNotFound
	}
	return &p.Duck, nil
}
