package offchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"votedesk/pkg/domain"
	dErrors "votedesk/pkg/domain-errors"
)

const defaultTimeout = 15 * time.Second

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Client is the REST client for the off-chain store.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	verbose    bool
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds every request. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithVerbose logs every request and response at debug level.
func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// NewClient creates a client rooted at baseURL, e.g. http://localhost:5000/api.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "offchain base url must be absolute: "+baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, request{op: "health", method: http.MethodGet, path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegisterVoter(ctx context.Context, reg VoterRegistration) (*Ack, error) {
	var out Ack
	err := c.do(ctx, request{op: "register voter", method: http.MethodPost, path: "/voters/register", json: reg}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadDocument streams an identity document as the multipart field "document".
func (c *Client) UploadDocument(ctx context.Context, voter domain.Address, filename string, r io.Reader) (*Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build upload")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "failed to read document")
	}
	if err := mw.Close(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build upload")
	}

	var out Document
	err = c.do(ctx, request{
		op:          "upload document",
		method:      http.MethodPost,
		path:        "/voters/" + url.PathEscape(voter.String()) + "/documents",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Voter(ctx context.Context, voter domain.Address) (*Voter, error) {
	var out Voter
	err := c.do(ctx, request{op: "voter detail", method: http.MethodGet, path: "/voters/" + url.PathEscape(voter.String())}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VoterStatus(ctx context.Context, voter domain.Address) (*VoterStatus, error) {
	var out VoterStatus
	err := c.do(ctx, request{op: "voter status", method: http.MethodGet, path: "/voters/" + url.PathEscape(voter.String()) + "/status"}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VerifyVoter(ctx context.Context, admin domain.Address, cmd VerifyVoterCommand) (*Ack, error) {
	var out Ack
	err := c.do(ctx, request{
		op:     "verify voter",
		method: http.MethodPost,
		path:   "/admin/voters/" + url.PathEscape(cmd.Voter.String()) + "/verify",
		admin:  admin,
		json:   cmd,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListVoters normalizes and validates the filter before sending it.
func (c *Client) ListVoters(ctx context.Context, admin domain.Address, filter VoterFilter) (*VoterPage, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var out VoterPage
	err := c.do(ctx, request{op: "list voters", method: http.MethodGet, path: "/admin/voters", query: filter.Query(), admin: admin}, &out)
	if err != nil {
		return nil, err
	}
	if out.Voters == nil {
		out.Voters = []Voter{}
	}
	return &out, nil
}

func (c *Client) Stats(ctx context.Context, admin domain.Address) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, request{op: "stats", method: http.MethodGet, path: "/admin/stats", admin: admin}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type historyResponse struct {
	Days    int         `json:"days"`
	History []DailyStat `json:"history"`
}

// History returns per-day counters for the last days days, oldest first.
func (c *Client) History(ctx context.Context, admin domain.Address, days int) ([]DailyStat, error) {
	if days < 1 {
		return nil, dErrors.New(dErrors.CodeValidation, "days must be at least 1")
	}
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))
	var out historyResponse
	err := c.do(ctx, request{op: "stats history", method: http.MethodGet, path: "/admin/stats/history", query: q, admin: admin}, &out)
	if err != nil {
		return nil, err
	}
	if out.History == nil {
		out.History = []DailyStat{}
	}
	return out.History, nil
}

func (c *Client) Logs(ctx context.Context, admin domain.Address, filter LogFilter) (*LogPage, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var out LogPage
	err := c.do(ctx, request{op: "admin logs", method: http.MethodGet, path: "/admin/logs", query: filter.Query(), admin: admin}, &out)
	if err != nil {
		return nil, err
	}
	if out.Logs == nil {
		out.Logs = []LogEntry{}
	}
	return &out, nil
}

func (c *Client) RecordElection(ctx context.Context, admin domain.Address, cmd ScheduleElectionCommand) (*Ack, error) {
	var out Ack
	err := c.do(ctx, request{op: "record election", method: http.MethodPost, path: "/admin/elections", admin: admin, json: cmd}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordCandidate(ctx context.Context, admin domain.Address, cmd AddCandidateCommand) (*Ack, error) {
	var out Ack
	err := c.do(ctx, request{
		op:     "record candidate",
		method: http.MethodPost,
		path:   "/admin/elections/" + cmd.ElectionID.String() + "/candidates",
		admin:  admin,
		json:   cmd,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	admin       domain.Address
	json        any
	body        io.Reader
	contentType string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	body := r.body
	contentType := r.contentType
	if r.json != nil {
		payload, err := json.Marshal(r.json)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, r.op+": failed to marshal request")
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, r.op+": failed to create request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !r.admin.IsNil() {
		req.Header.Set(HeaderWalletAddress, r.admin.String())
	}

	start := time.Now()
	if c.verbose {
		c.logger.DebugContext(ctx, "api request",
			"op", r.op,
			"method", r.method,
			"url", target,
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.verbose {
			c.logger.DebugContext(ctx, "api transport failure", "op", r.op, "error", err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return networkError(r.op+" timed out", err)
		}
		return networkError(r.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return networkError(r.op, err)
	}

	if c.verbose {
		c.logger.DebugContext(ctx, "api response",
			"op", r.op,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", len(raw),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		_ = json.Unmarshal(raw, &errResp)
		return statusError(r.op, resp.StatusCode, errResp)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return decodeError(r.op, resp.StatusCode, fmt.Errorf("decode %s: %w", r.op, err))
	}
	return nil
}
