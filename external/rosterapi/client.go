// Package rosterapi is an HTTP client for a downstream roster service
// instance. It satisfies member.Repository, so the web tier can page and
// score against a remote store exactly as it would against a local one.
package rosterapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/volleyhub/roster-service/internal/domain/member"
	"github.com/volleyhub/roster-service/internal/platform/logging"
	"github.com/volleyhub/roster-service/internal/platform/resilience"
	"github.com/volleyhub/roster-service/internal/usecase"
)

const maxResponseBytes = 6 << 20

var errRosterAPITransient = crerr.New("roster api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 5 * time.Second
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

type apiEnvelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data,omitempty"`
}

type memberPayload struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Position      string  `json:"position"`
	Number        int     `json:"number"`
	MatchesPlayed int     `json:"matchesPlayed"`
	PointsScored  int     `json:"pointsScored"`
	MedalsWon     int     `json:"medalsWon"`
	Score         float64 `json:"score"`
}

func (p memberPayload) toDomain() member.Member {
	return member.Member{
		ID:            p.ID,
		Name:          p.Name,
		Position:      p.Position,
		Number:        p.Number,
		MatchesPlayed: p.MatchesPlayed,
		PointsScored:  p.PointsScored,
		MedalsWon:     p.MedalsWon,
	}
}

type memberPagePayload struct {
	Items      []memberPayload `json:"items"`
	TotalCount int             `json:"totalCount"`
}

type memberCountPayload struct {
	TotalCount int `json:"totalCount"`
}

func (c *Client) Count(ctx context.Context) (int, error) {
	var out memberCountPayload
	if err := c.getJSON(ctx, "/v1/members/count", &out); err != nil {
		return 0, err
	}

	return out.TotalCount, nil
}

func (c *Client) List(ctx context.Context) ([]member.Member, error) {
	var payload []memberPayload
	if err := c.getJSON(ctx, "/v1/members/all", &payload); err != nil {
		return nil, err
	}

	out := make([]member.Member, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toDomain())
	}

	return out, nil
}

// ListPage maps an offset/limit window onto the upstream page parameters.
// Offsets produced by the paging layer are always page-aligned; anything
// else falls back to a full fetch and a local slice.
func (c *Client) ListPage(ctx context.Context, offset, limit int) ([]member.Member, error) {
	if limit <= 0 {
		return nil, nil
	}
	if offset%limit != 0 {
		all, err := c.List(ctx)
		if err != nil {
			return nil, err
		}
		if offset >= len(all) {
			return nil, nil
		}
		hi := offset + limit
		if hi > len(all) {
			hi = len(all)
		}
		return all[offset:hi], nil
	}

	page := offset/limit + 1
	path := "/v1/members?page=" + strconv.Itoa(page) + "&pageSize=" + strconv.Itoa(limit)

	var payload memberPagePayload
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	out := make([]member.Member, 0, len(payload.Items))
	for _, item := range payload.Items {
		out = append(out, item.toDomain())
	}

	return out, nil
}

func (c *Client) GetByID(ctx context.Context, id int64) (member.Member, bool, error) {
	var payload memberPayload
	err := c.getJSON(ctx, "/v1/members/"+strconv.FormatInt(id, 10), &payload)
	if err != nil {
		if stderrors.Is(err, errNotFound) {
			return member.Member{}, false, nil
		}
		return member.Member{}, false, err
	}

	return payload.toDomain(), true, nil
}

func (c *Client) Insert(ctx context.Context, item member.Member) (member.Member, error) {
	var payload memberPayload
	status, err := c.sendJSON(ctx, http.MethodPost, "/v1/members", memberToPayload(item), &payload)
	if err != nil {
		return member.Member{}, err
	}
	if status != http.StatusCreated {
		return member.Member{}, fmt.Errorf("roster api insert returned status %d", status)
	}

	return payload.toDomain(), nil
}

func (c *Client) Update(ctx context.Context, item member.Member) (bool, error) {
	path := "/v1/members/" + strconv.FormatInt(item.ID, 10)
	status, err := c.sendJSON(ctx, http.MethodPut, path, memberToPayload(item), nil)
	if err != nil {
		if stderrors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	if status != http.StatusNoContent {
		return false, fmt.Errorf("roster api update returned status %d", status)
	}

	return true, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (bool, error) {
	path := "/v1/members/" + strconv.FormatInt(id, 10)
	status, err := c.sendJSON(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		if stderrors.Is(err, errNotFound) {
			return false, nil
		}
		return false, err
	}
	if status != http.StatusNoContent {
		return false, fmt.Errorf("roster api delete returned status %d", status)
	}

	return true, nil
}

func memberToPayload(item member.Member) map[string]any {
	payload := map[string]any{
		"name":          item.Name,
		"position":      item.Position,
		"number":        item.Number,
		"matchesPlayed": item.MatchesPlayed,
		"pointsScored":  item.PointsScored,
		"medalsWon":     item.MedalsWon,
	}
	if item.ID > 0 {
		payload["id"] = item.ID
	}

	return payload
}

var errNotFound = stderrors.New("roster api: not found")

// getJSON runs a read through the singleflight group so concurrent
// identical lookups share one upstream call.
func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	if err := c.allow(ctx); err != nil {
		return err
	}

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, _, reqErr := c.execute(ctx, http.MethodGet, path, nil)
		c.record(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	return decodeEnvelope(raw, target)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body any, target any) (int, error) {
	if err := c.allow(ctx); err != nil {
		return 0, err
	}

	var encoded []byte
	if body != nil {
		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		if err := sonic.ConfigDefault.NewEncoder(buf).Encode(body); err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		encoded = buf.Bytes()
	}

	raw, status, err := c.execute(ctx, method, path, encoded)
	c.record(err)
	if err != nil {
		return status, err
	}

	if target != nil {
		if err := decodeEnvelope(raw, target); err != nil {
			return status, err
		}
	}

	return status, nil
}

func (c *Client) allow(ctx context.Context) error {
	if !c.circuitEnabled {
		return nil
	}
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "roster api circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: circuit open", errRosterAPITransient)
	}

	return nil
}

func (c *Client) record(err error) {
	if !c.circuitEnabled {
		return
	}
	if err != nil && stderrors.Is(err, errRosterAPITransient) {
		c.breaker.MarkFailure()
		return
	}
	c.breaker.MarkSuccess()
}

func (c *Client) execute(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build roster api request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: send request: %v", errRosterAPITransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response body: %v", errRosterAPITransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, resp.StatusCode, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, errNotFound
	case resp.StatusCode == http.StatusConflict:
		return nil, resp.StatusCode, fmt.Errorf("roster api conflict: %w", member.ErrConflict)
	case resp.StatusCode == http.StatusBadRequest:
		return nil, resp.StatusCode, fmt.Errorf("%w: roster api rejected request: %s", usecase.ErrInvalidInput, abbreviateBody(raw))
	case isRetryableStatus(resp.StatusCode):
		return nil, resp.StatusCode, fmt.Errorf("%w: status=%d body=%s", errRosterAPITransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, resp.StatusCode, fmt.Errorf("roster api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

func decodeEnvelope(raw []byte, target any) error {
	var envelope apiEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode roster api envelope: %w", err)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("roster api response has no data")
	}
	if err := sonic.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("decode roster api data: %w", err)
	}

	return nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}

	return text
}
