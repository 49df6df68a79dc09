package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/auth"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/client/models"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/common"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// HTTPClient speaks the study backend's REST API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	creds   *auth.Credentials
	timeout time.Duration
}

type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

func NewHTTPClient(baseURL string, creds *auth.Credentials, timeout time.Duration, opts ...HTTPOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{baseURL: u, http: &http.Client{}, creds: creds, timeout: timeout}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// entityRef picks the identifiers a route needs out of a mutation payload.
type entityRef struct {
	ID     int64 `json:"id"`
	DeckID int64 `json:"deck_id"`
}

func route(action models.MutationAction, payload json.RawMessage) (method, path string, body []byte, err error) {
	var ref entityRef
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &ref); err != nil {
			return "", "", nil, fmt.Errorf("%w: %v", models.ErrInvalidPayload, err)
		}
	}

	need := func(v int64, name string) error {
		if v <= 0 {
			return fmt.Errorf("%w: %s is required for %s", models.ErrInvalidPayload, name, action)
		}
		return nil
	}

	switch action {
	case models.ActionReview:
		return http.MethodPost, "/study/review", payload, nil
	case models.ActionCreateCard:
		if err := need(ref.DeckID, "deck_id"); err != nil {
			return "", "", nil, err
		}
		return http.MethodPost, fmt.Sprintf("/decks/%d/cards", ref.DeckID), payload, nil
	case models.ActionUpdateCard:
		if err := need(ref.ID, "id"); err != nil {
			return "", "", nil, err
		}
		return http.MethodPut, fmt.Sprintf("/cards/%d", ref.ID), payload, nil
	case models.ActionDeleteCard:
		if err := need(ref.ID, "id"); err != nil {
			return "", "", nil, err
		}
		return http.MethodDelete, fmt.Sprintf("/cards/%d", ref.ID), nil, nil
	case models.ActionCreateDeck:
		return http.MethodPost, "/decks", payload, nil
	case models.ActionUpdateDeck:
		if err := need(ref.ID, "id"); err != nil {
			return "", "", nil, err
		}
		return http.MethodPut, fmt.Sprintf("/decks/%d", ref.ID), payload, nil
	}

	return "", "", nil, models.ErrUnknownAction
}

func (c *HTTPClient) Call(ctx context.Context, action models.MutationAction, payload json.RawMessage) ([]byte, error) {
	method, path, body, err := route(action, payload)
	if err != nil {
		return nil, &RemoteError{Op: string(action), Code: "invalid", Permanent: true, Err: err}
	}
	return c.do(ctx, string(action), method, path, nil, body)
}

func (c *HTTPClient) Query(ctx context.Context, key models.QueryKey) ([]byte, error) {
	switch key.Kind {
	case models.QueryStudyQueue:
		q := url.Values{}
		if key.DeckID != 0 {
			q.Set("deck_id", strconv.FormatInt(key.DeckID, 10))
		}
		return c.do(ctx, key.String(), http.MethodGet, "/study/queue", q, nil)
	case models.QueryDecks:
		return c.do(ctx, key.String(), http.MethodGet, "/decks", nil, nil)
	}
	return nil, &RemoteError{Op: key.String(), Code: "invalid", Permanent: true, Err: ErrUnknownQuery}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/health", nil, nil)
	return err
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body []byte) ([]byte, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.baseURL
	u.Path += path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &RemoteError{Op: op, Code: "invalid", Permanent: true, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token, ok := c.creds.Token(); ok {
			req.Header.Set("Authorization", common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RemoteError{Op: op, Code: "transport", Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &RemoteError{Op: op, Code: strconv.Itoa(resp.StatusCode), Err: fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)}
	}
	tooLarge := len(data) > maxResponseBytes

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if tooLarge {
			return nil, &RemoteError{
				Op:        op,
				Code:      strconv.Itoa(resp.StatusCode),
				Permanent: true,
				Err:       fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, maxResponseBytes),
			}
		}
		return data, nil
	}

	if tooLarge {
		data = data[:maxResponseBytes]
	}

	return nil, c.statusError(op, resp.StatusCode, data)
}

func (c *HTTPClient) statusError(op string, code int, body []byte) error {
	re := &RemoteError{Op: op, Code: strconv.Itoa(code)}
	msg := errors.New(strings.TrimSpace(string(body)))
	if len(body) == 0 {
		msg = errors.New(http.StatusText(code))
	}

	switch {
	case code == http.StatusUnauthorized:
		if c.creds != nil {
			c.creds.Clear()
		}
		re.Err = fmt.Errorf("%w: %v", ErrUnauthorized, msg)
	case code == http.StatusForbidden:
		re.Err = fmt.Errorf("%w: %v", ErrUnauthorized, msg)
	case code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= 500:
		re.Err = fmt.Errorf("%w: %v", ErrUnavailable, msg)
	default:
		re.Permanent = true
		re.Err = msg
	}
	return re
}
