// Package opentdb fetches question batches from the Open Trivia DB HTTP API.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"trivia-quiz/internal/domain"
)

const DefaultBaseURL = "https://opentdb.com"

// Client implements app.QuestionSource against Open Trivia DB. Identical requests
// issued while one is already in flight share its response. The shared request is not
// tied to any single caller's context, so one caller giving up never fails the others.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *slog.Logger
	sf      singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchBatch performs GET /api.php. A non-zero response_code is returned in the batch,
// not as an error; transport and decoding failures are errors.
func (c *Client) FetchBatch(ctx context.Context, req domain.BatchRequest) (domain.Batch, error) {
	endpoint := c.endpoint(req)

	ch := c.sf.DoChan(endpoint, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.get(callCtx, endpoint)
	})

	select {
	case <-ctx.Done():
		return domain.Batch{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.Batch{}, res.Err
		}
		if res.Shared {
			c.log.Debug("shared in-flight question request", "url", endpoint)
		}
		return res.Val.(domain.Batch), nil
	}
}

func (c *Client) endpoint(req domain.BatchRequest) string {
	q := url.Values{}
	amount := req.Amount
	if amount <= 0 {
		amount = 10
	}
	q.Set("amount", strconv.Itoa(amount))
	if req.Category != domain.CategoryAny {
		q.Set("category", strconv.Itoa(int(req.Category)))
	}
	if req.Difficulty != domain.DifficultyAny {
		q.Set("difficulty", string(req.Difficulty))
	}
	if req.Type != domain.TypeAny {
		q.Set("type", string(req.Type))
	}
	return c.baseURL + "/api.php?" + q.Encode()
}

func (c *Client) get(ctx context.Context, endpoint string) (domain.Batch, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.Batch{ResponseCode: domain.ResponseRateLimit, Results: []domain.Question{}}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Batch{}, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	var batch domain.Batch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return domain.Batch{}, fmt.Errorf("decode questions: %w", err)
	}
	for i := range batch.Results {
		batch.Results[i] = unescape(batch.Results[i])
	}
	if batch.Results == nil {
		batch.Results = []domain.Question{}
	}
	return batch, nil
}

// unescape decodes the HTML entities Open Trivia DB embeds in its default encoding.
func unescape(q domain.Question) domain.Question {
	q.Category = html.UnescapeString(q.Category)
	q.Text = html.UnescapeString(q.Text)
	q.CorrectAnswer = html.UnescapeString(q.CorrectAnswer)
	incorrect := make([]string, len(q.IncorrectAnswers))
	for i, a := range q.IncorrectAnswers {
		incorrect[i] = html.UnescapeString(a)
	}
	q.IncorrectAnswers = incorrect
	return q
}
