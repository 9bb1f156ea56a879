// Package persistence stores user progress locally and, in remote mode,
// mirrors every change to a remote record service in the background.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/remote"
)

// Mode selects the persistence strategy for the whole process.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeLocal, ModeRemote:
		return m, nil
	case "":
		return ModeLocal, nil
	default:
		return "", fmt.Errorf("unknown storage mode %q", s)
	}
}

// ErrNoRemote is returned by remote-only operations without a remote service.
var ErrNoRemote = errors.New("no remote service configured")

// Record names the kind of record a Change touches.
type Record string

const (
	RecordDaily      Record = "daily"
	RecordCustomTask Record = "custom_task"
	RecordExam       Record = "exam"
	RecordTopicNote  Record = "topic_note"
)

// Change identifies one record written or deleted by a mutation. Daily
// changes are keyed by Day; the others by ID.
type Change struct {
	Record  Record
	ID      domain.TaskID
	Day     domain.Day
	Deleted bool
}

func (c Change) String() string {
	verb := "upsert"
	if c.Deleted {
		verb = "delete"
	}
	if c.Record == RecordDaily {
		return fmt.Sprintf("%s %s %s", verb, c.Record, c.Day)
	}
	return fmt.Sprintf("%s %s %s", verb, c.Record, c.ID)
}

type Options struct {
	Mode   Mode
	Local  *LocalStore
	Remote remote.Service
	Outbox OutboxOptions
	Logger *zap.Logger
}

// Adapter is the single persistence entry point used by the progress store.
type Adapter struct {
	mode   Mode
	local  *LocalStore
	remote remote.Service
	outbox *Outbox
	log    *zap.Logger
}

func New(opts Options) (*Adapter, error) {
	if opts.Local == nil {
		return nil, errors.New("local store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	a := &Adapter{
		mode:   opts.Mode,
		local:  opts.Local,
		remote: opts.Remote,
		log:    opts.Logger,
	}
	switch opts.Mode {
	case ModeLocal:
	case ModeRemote:
		if opts.Remote == nil {
			return nil, fmt.Errorf("remote mode: %w", ErrNoRemote)
		}
		a.outbox = NewOutbox(opts.Outbox, opts.Logger.Named("outbox"))
	default:
		return nil, fmt.Errorf("unknown storage mode %q", opts.Mode)
	}
	return a, nil
}

func (a *Adapter) Mode() Mode { return a.mode }

// Load returns the starting progress; it is never nil. Remote mode reads the
// service and falls back to local storage when that fails.
func (a *Adapter) Load(ctx context.Context) *domain.UserProgress {
	if a.mode != ModeRemote {
		return a.local.Load(ctx)
	}
	snap, err := a.remote.FetchAll(ctx)
	if err != nil {
		a.log.Warn("remote load failed, using local progress", zap.Error(err))
		return a.local.Load(ctx)
	}
	up := snap.ToProgress()
	a.local.SaveSynced(ctx, up)
	return up
}

// Persist records the outcome of one mutation. up is the state after the
// mutation and must not be modified afterwards. The local write happens
// before Persist returns; remote writes are queued.
func (a *Adapter) Persist(ctx context.Context, up *domain.UserProgress, changes ...Change) {
	a.local.Save(ctx, up)
	if a.mode != ModeRemote {
		return
	}
	for _, c := range changes {
		fn, ok := a.remoteOp(up, c)
		if !ok {
			a.log.Warn("change has no matching record, skipping", zap.Stringer("change", c))
			continue
		}
		if err := a.outbox.Enqueue(c.String(), fn); err != nil {
			a.log.Warn("remote write not queued", zap.Stringer("change", c), zap.Error(err))
		}
	}
}

// remoteOp captures the record named by c from up.
func (a *Adapter) remoteOp(up *domain.UserProgress, c Change) (func(context.Context) error, bool) {
	svc := a.remote
	switch c.Record {
	case RecordDaily:
		d, ok := up.Daily[c.Day]
		if !ok {
			d = domain.DailyProgress{Date: c.Day, Tasks: []domain.TaskCompletion{}}
		}
		d = d.Clone()
		return func(ctx context.Context) error { return svc.UpsertDaily(ctx, d) }, true

	case RecordCustomTask:
		if c.Deleted {
			return func(ctx context.Context) error { return svc.DeleteCustomTask(ctx, c.ID) }, true
		}
		i := up.CustomTaskByID(c.ID)
		if i < 0 {
			return nil, false
		}
		t := up.CustomTasks[i].Clone()
		return func(ctx context.Context) error { return svc.UpsertCustomTask(ctx, t) }, true

	case RecordExam:
		if c.Deleted {
			return func(ctx context.Context) error { return svc.DeleteExam(ctx, c.ID) }, true
		}
		i := up.ExamByID(c.ID)
		if i < 0 {
			return nil, false
		}
		e := up.Exams[i].Clone()
		return func(ctx context.Context) error { return svc.UpsertExam(ctx, e) }, true

	case RecordTopicNote:
		if c.Deleted {
			return func(ctx context.Context) error { return svc.DeleteTopicNote(ctx, c.ID) }, true
		}
		i := up.NoteByID(c.ID)
		if i < 0 {
			return nil, false
		}
		n := up.TopicNotes[i]
		return func(ctx context.Context) error { return svc.UpsertTopicNote(ctx, n) }, true
	}
	return nil, false
}

// PushStats counts the records uploaded by Push.
type PushStats struct {
	Daily, CustomTasks, Exams, TopicNotes int
}

func (s PushStats) Total() int {
	return s.Daily + s.CustomTasks + s.Exams + s.TopicNotes
}

// Push uploads the full local snapshot to the remote service. It is used
// when switching an installation from local to remote mode.
func (a *Adapter) Push(ctx context.Context) (PushStats, error) {
	if a.remote == nil {
		return PushStats{}, ErrNoRemote
	}
	up := a.local.Load(ctx)
	snap := remote.FromProgress(up)
	stats := PushStats{
		Daily:       len(snap.Daily),
		CustomTasks: len(snap.CustomTasks),
		Exams:       len(snap.Exams),
		TopicNotes:  len(snap.TopicNotes),
	}
	if err := remote.Push(ctx, a.remote, snap); err != nil {
		return PushStats{}, fmt.Errorf("pushing local progress: %w", err)
	}
	a.local.SaveSynced(ctx, up)
	a.log.Info("local progress pushed", zap.Int("records", stats.Total()))
	return stats, nil
}

// SyncStatus describes the state of remote mirroring.
type SyncStatus struct {
	Mode     Mode
	Pending  int64
	Dropped  int64
	LastSync string
}

func (a *Adapter) Status(ctx context.Context) SyncStatus {
	st := SyncStatus{Mode: a.mode}
	if a.outbox != nil {
		st.Pending = a.outbox.Pending()
		st.Dropped = a.outbox.Dropped()
	}
	if t, ok := a.local.LastSync(ctx); ok {
		st.LastSync = t.Format("2006-01-02 15:04")
	}
	return st
}

// Close waits for queued remote writes until ctx ends.
func (a *Adapter) Close(ctx context.Context) error {
	if a.outbox == nil {
		return nil
	}
	return a.outbox.Close(ctx)
}
