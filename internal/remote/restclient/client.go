// Package restclient implements remote.Service against a PostgREST API.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/remote"
)

const (
	tableDaily       = "daily_progress"
	tableCustomTasks = "custom_tasks"
	tableExams       = "exams"
	tableTopicNotes  = "topic_notes"
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
	now      func() time.Time
}

var (
	_ remote.Service = (*Client)(nil)
	_ remote.Pusher  = (*Client)(nil)
)

func New(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
		now:      time.Now,
	}
}

// do sends one logical request with retries. A nil out discards the body.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any, prefer string, out any) error {
	start := time.Now()
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
	}

	var lastErr error
	attempts := 0
	for i := 0; i <= c.cfg.MaxRetries; i++ {
		if i > 0 && !c.sleep(ctx, time.Duration(i)*c.cfg.Backoff) {
			break
		}
		attempts++
		err := c.doOnce(ctx, method, table, query, payload, prefer, out)
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Method: method, Table: table, Attempts: attempts,
				Latency: time.Since(start), Success: true,
			})
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			break
		}
	}

	err := c.classify(ctx, lastErr, attempts)
	c.observer.OnCallComplete(CallEvent{
		Method: method, Table: table, Attempts: attempts,
		Latency: time.Since(start), ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) classify(ctx context.Context, err error, attempts int) error {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", remote.ErrTimeout, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", remote.ErrUnavailable, err)
	case attempts > 1:
		return fmt.Errorf("%w: %w", remote.ErrRetryExhausted, err)
	default:
		return err
	}
}

func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) doOnce(ctx context.Context, method, table string, query url.Values, payload []byte, prefer string, out any) error {
	u := c.cfg.BaseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", table, err)
	}
	return nil
}

func (c *Client) userFilter() url.Values {
	return url.Values{"user_id": {"eq." + c.cfg.UserID}}
}

func (c *Client) upsert(ctx context.Context, table, conflict string, rows any) error {
	q := url.Values{"on_conflict": {conflict}}
	return c.do(ctx, http.MethodPost, table, q, rows, "resolution=merge-duplicates,return=minimal", nil)
}

func (c *Client) delete(ctx context.Context, table string, id domain.TaskID) error {
	q := c.userFilter()
	q.Set("id", "eq."+id.String())
	return c.do(ctx, http.MethodDelete, table, q, nil, "return=minimal", nil)
}

func fetch[T any](ctx context.Context, c *Client, table, order string) ([]T, error) {
	q := c.userFilter()
	q.Set("select", "*")
	q.Set("order", order)
	var rows []T
	if err := c.do(ctx, http.MethodGet, table, q, nil, "", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchAll reads the four tables concurrently.
func (c *Client) FetchAll(ctx context.Context) (*remote.Snapshot, error) {
	var (
		daily []dailyRow
		tasks []customTaskRow
		exams []examRow
		notes []topicNoteRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		daily, err = fetch[dailyRow](gctx, c, tableDaily, "date.asc")
		return err
	})
	g.Go(func() (err error) {
		tasks, err = fetch[customTaskRow](gctx, c, tableCustomTasks, "created_at.asc")
		return err
	})
	g.Go(func() (err error) {
		exams, err = fetch[examRow](gctx, c, tableExams, "date.asc")
		return err
	})
	g.Go(func() (err error) {
		notes, err = fetch[topicNoteRow](gctx, c, tableTopicNotes, "created_at.asc")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &remote.Snapshot{}
	for _, r := range daily {
		snap.Daily = append(snap.Daily, r.toDomain())
	}
	for _, r := range tasks {
		snap.CustomTasks = append(snap.CustomTasks, r.toDomain())
	}
	for _, r := range exams {
		snap.Exams = append(snap.Exams, r.toDomain())
	}
	for _, r := range notes {
		snap.TopicNotes = append(snap.TopicNotes, r.toDomain())
	}
	return snap, nil
}

func (c *Client) UpsertDaily(ctx context.Context, d domain.DailyProgress) error {
	return c.upsert(ctx, tableDaily, "user_id,date", toDailyRow(c.cfg.UserID, d, c.now().UTC()))
}

func (c *Client) UpsertCustomTask(ctx context.Context, t domain.CustomTask) error {
	return c.upsert(ctx, tableCustomTasks, "user_id,id", toCustomTaskRow(c.cfg.UserID, t))
}

func (c *Client) UpsertExam(ctx context.Context, e domain.Exam) error {
	return c.upsert(ctx, tableExams, "user_id,id", toExamRow(c.cfg.UserID, e))
}

func (c *Client) UpsertTopicNote(ctx context.Context, n domain.TopicNote) error {
	return c.upsert(ctx, tableTopicNotes, "user_id,id", toTopicNoteRow(c.cfg.UserID, n))
}

func (c *Client) DeleteCustomTask(ctx context.Context, id domain.TaskID) error {
	return c.delete(ctx, tableCustomTasks, id)
}

func (c *Client) DeleteExam(ctx context.Context, id domain.TaskID) error {
	return c.delete(ctx, tableExams, id)
}

func (c *Client) DeleteTopicNote(ctx context.Context, id domain.TaskID) error {
	return c.delete(ctx, tableTopicNotes, id)
}

// PushAll sends one bulk upsert per table. PostgREST applies each request
// atomically but the four tables are independent requests.
func (c *Client) PushAll(ctx context.Context, snap *remote.Snapshot) error {
	now := c.now().UTC()
	daily := make([]dailyRow, 0, len(snap.Daily))
	for _, d := range snap.Daily {
		daily = append(daily, toDailyRow(c.cfg.UserID, d, now))
	}
	tasks := make([]customTaskRow, 0, len(snap.CustomTasks))
	for _, t := range snap.CustomTasks {
		tasks = append(tasks, toCustomTaskRow(c.cfg.UserID, t))
	}
	exams := make([]examRow, 0, len(snap.Exams))
	for _, e := range snap.Exams {
		exams = append(exams, toExamRow(c.cfg.UserID, e))
	}
	notes := make([]topicNoteRow, 0, len(snap.TopicNotes))
	for _, n := range snap.TopicNotes {
		notes = append(notes, toTopicNoteRow(c.cfg.UserID, n))
	}

	batches := []struct {
		table, conflict string
		n               int
		rows            any
	}{
		{tableDaily, "user_id,date", len(daily), daily},
		{tableCustomTasks, "user_id,id", len(tasks), tasks},
		{tableExams, "user_id,id", len(exams), exams},
		{tableTopicNotes, "user_id,id", len(notes), notes},
	}
	for _, b := range batches {
		if b.n == 0 {
			continue
		}
		if err := c.upsert(ctx, b.table, b.conflict, b.rows); err != nil {
			return fmt.Errorf("pushing %s: %w", b.table, err)
		}
	}
	return nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, remote.ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, remote.ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, remote.ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		var se *StatusError
		if errors.As(err, &se) {
			return fmt.Sprintf("HTTP_%d", se.Code)
		}
		return "UNKNOWN"
	}
}
