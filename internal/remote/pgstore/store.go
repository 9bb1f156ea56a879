// Package pgstore implements remote.Service on PostgreSQL. Rows are scoped
// by user id so one database can hold several installations.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/remote"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

type Store struct {
	pool   *pgxpool.Pool
	db     querier
	userID string
}

var _ remote.Service = (*Store)(nil)

func New(pool *pgxpool.Pool, userID string) *Store {
	return &Store{pool: pool, db: pool, userID: userID}
}

func (s *Store) Close() {
	s.pool.Close()
}

// FetchAll reads the four tables concurrently.
func (s *Store) FetchAll(ctx context.Context) (*remote.Snapshot, error) {
	var snap remote.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Daily, err = s.fetchDaily(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.CustomTasks, err = s.fetchCustomTasks(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Exams, err = s.fetchExams(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.TopicNotes, err = s.fetchTopicNotes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, classify(err)
	}
	return &snap, nil
}

func (s *Store) fetchDaily(ctx context.Context) ([]domain.DailyProgress, error) {
	rows, err := s.db.Query(ctx, `
		SELECT date, tasks, routine_completed
		FROM daily_progress
		WHERE user_id = $1
		ORDER BY date`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch daily: %w", err)
	}
	defer rows.Close()

	var out []domain.DailyProgress
	for rows.Next() {
		var (
			date  time.Time
			tasks []byte
			d     domain.DailyProgress
		)
		if err := rows.Scan(&date, &tasks, &d.RoutineCompleted); err != nil {
			return nil, fmt.Errorf("fetch daily: %w", err)
		}
		d.Date = domain.DayOf(date)
		if err := json.Unmarshal(tasks, &d.Tasks); err != nil {
			return nil, fmt.Errorf("decode tasks of %s: %w", d.Date, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) fetchCustomTasks(ctx context.Context) ([]domain.CustomTask, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, subject, description, date, time_slot_start, time_slot_end, type, completed, created_at
		FROM custom_tasks
		WHERE user_id = $1
		ORDER BY created_at`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch custom tasks: %w", err)
	}
	defer rows.Close()

	var out []domain.CustomTask
	for rows.Next() {
		var (
			id, subject, typ   string
			description        *string
			date               time.Time
			slotStart, slotEnd *string
			t                  domain.CustomTask
		)
		if err := rows.Scan(&id, &t.Title, &subject, &description, &date, &slotStart, &slotEnd, &typ, &t.Completed, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("fetch custom tasks: %w", err)
		}
		t.ID = domain.ParseTaskID(id)
		t.Subject = domain.Subject(subject)
		t.Type = domain.TaskType(typ)
		t.Date = domain.DayOf(date)
		if description != nil {
			t.Description = *description
		}
		if slotStart != nil && slotEnd != nil {
			t.TimeSlot = &domain.TimeSlot{Start: *slotStart, End: *slotEnd}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) fetchExams(ctx context.Context) ([]domain.Exam, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, type, subject, date, completed, results, created_at
		FROM exams
		WHERE user_id = $1
		ORDER BY date, created_at`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch exams: %w", err)
	}
	defer rows.Close()

	var out []domain.Exam
	for rows.Next() {
		var (
			id, typ string
			subject *string
			date    time.Time
			results []byte
			e       domain.Exam
		)
		if err := rows.Scan(&id, &e.Title, &typ, &subject, &date, &e.Completed, &results, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("fetch exams: %w", err)
		}
		e.ID = domain.ParseTaskID(id)
		e.Type = domain.ExamType(typ)
		e.Date = domain.DayOf(date)
		if subject != nil {
			sub := domain.Subject(*subject)
			e.Subject = &sub
		}
		if len(results) > 0 {
			if err := json.Unmarshal(results, &e.Results); err != nil {
				return nil, fmt.Errorf("decode results of %s: %w", id, err)
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) fetchTopicNotes(ctx context.Context) ([]domain.TopicNote, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, topic_id, subject, content, created_at, updated_at
		FROM topic_notes
		WHERE user_id = $1
		ORDER BY created_at`, s.userID)
	if err != nil {
		return nil, fmt.Errorf("fetch topic notes: %w", err)
	}
	defer rows.Close()

	var out []domain.TopicNote
	for rows.Next() {
		var (
			id, subject string
			n           domain.TopicNote
		)
		if err := rows.Scan(&id, &n.TopicID, &subject, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("fetch topic notes: %w", err)
		}
		n.ID = domain.ParseTaskID(id)
		n.Subject = domain.Subject(subject)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UpsertDaily(ctx context.Context, d domain.DailyProgress) error {
	tasks := d.Tasks
	if tasks == nil {
		tasks = []domain.TaskCompletion{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO daily_progress (user_id, date, tasks, routine_completed, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, date)
		DO UPDATE SET
			tasks = excluded.tasks,
			routine_completed = excluded.routine_completed,
			updated_at = excluded.updated_at`,
		s.userID, d.Date.Time(), raw, d.RoutineCompleted)
	if err != nil {
		return fmt.Errorf("upsert daily %s: %w", d.Date, classify(err))
	}
	return nil
}

func (s *Store) UpsertCustomTask(ctx context.Context, t domain.CustomTask) error {
	var slotStart, slotEnd *string
	if t.TimeSlot != nil {
		slotStart, slotEnd = &t.TimeSlot.Start, &t.TimeSlot.End
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO custom_tasks (user_id, id, title, subject, description, date, time_slot_start, time_slot_end, type, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, id)
		DO UPDATE SET
			title = excluded.title,
			subject = excluded.subject,
			description = excluded.description,
			date = excluded.date,
			time_slot_start = excluded.time_slot_start,
			time_slot_end = excluded.time_slot_end,
			type = excluded.type,
			completed = excluded.completed`,
		s.userID, t.ID.String(), t.Title, string(t.Subject), nullable(t.Description), t.Date.Time(),
		slotStart, slotEnd, string(t.Type), t.Completed, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert custom task %s: %w", t.ID, classify(err))
	}
	return nil
}

func (s *Store) UpsertExam(ctx context.Context, e domain.Exam) error {
	var results []byte
	if len(e.Results) > 0 {
		var err error
		if results, err = json.Marshal(e.Results); err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
	}
	var subject *string
	if e.Subject != nil {
		sub := string(*e.Subject)
		subject = &sub
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO exams (user_id, id, title, type, subject, date, completed, results, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, id)
		DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			subject = excluded.subject,
			date = excluded.date,
			completed = excluded.completed,
			results = excluded.results`,
		s.userID, e.ID.String(), e.Title, string(e.Type), subject, e.Date.Time(), e.Completed, results, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert exam %s: %w", e.ID, classify(err))
	}
	return nil
}

func (s *Store) UpsertTopicNote(ctx context.Context, n domain.TopicNote) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO topic_notes (user_id, id, topic_id, subject, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, id)
		DO UPDATE SET
			topic_id = excluded.topic_id,
			subject = excluded.subject,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		s.userID, n.ID.String(), n.TopicID, string(n.Subject), n.Content, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert topic note %s: %w", n.ID, classify(err))
	}
	return nil
}

func (s *Store) DeleteCustomTask(ctx context.Context, id domain.TaskID) error {
	return s.delete(ctx, "custom_tasks", id)
}

func (s *Store) DeleteExam(ctx context.Context, id domain.TaskID) error {
	return s.delete(ctx, "exams", id)
}

func (s *Store) DeleteTopicNote(ctx context.Context, id domain.TaskID) error {
	return s.delete(ctx, "topic_notes", id)
}

// delete is idempotent: removing a missing row is not an error.
func (s *Store) delete(ctx context.Context, table string, id domain.TaskID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1 AND id = $2`, s.userID, id.String())
	if err != nil {
		return fmt.Errorf("delete from %s %s: %w", table, id, classify(err))
	}
	return nil
}

// PushAll writes every record of snap in one transaction.
func (s *Store) PushAll(ctx context.Context, snap *remote.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", classify(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	txs := &Store{pool: s.pool, db: tx, userID: s.userID}
	for _, d := range snap.Daily {
		if err := txs.UpsertDaily(ctx, d); err != nil {
			return err
		}
	}
	for _, t := range snap.CustomTasks {
		if err := txs.UpsertCustomTask(ctx, t); err != nil {
			return err
		}
	}
	for _, e := range snap.Exams {
		if err := txs.UpsertExam(ctx, e); err != nil {
			return err
		}
	}
	for _, n := range snap.TopicNotes {
		if err := txs.UpsertTopicNote(ctx, n); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", classify(err))
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// classify tags connection and deadline failures with the remote sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, remote.ErrUnavailable) || errors.Is(err, remote.ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", remote.ErrTimeout, err)
	}
	var connectErr *pgconn.ConnectError
	var netErr *net.OpError
	if errors.As(err, &connectErr) || errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", remote.ErrUnavailable, err)
	}
	return err
}
