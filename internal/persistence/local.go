package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/studyplan/internal/clock"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/kv"
)

const (
	// ProgressKey is where the progress payload lives in local storage.
	ProgressKey = "kpss_user_progress"
	// LastSyncKey holds the RFC 3339 time of the last successful remote sync.
	LastSyncKey = "kpss_last_sync"
	// PayloadVersion is written into every stored payload.
	PayloadVersion = "1.0.0"
)

// StoredProgress is the local payload.
type StoredProgress struct {
	Version     string               `json:"version"`
	UserID      string               `json:"userId"`
	Progress    *domain.UserProgress `json:"progress"`
	LastUpdated time.Time            `json:"lastUpdated"`
}

// LocalStore reads and writes the whole progress aggregate as one JSON value.
// It never fails its callers: problems are logged and reported as false or
// as empty progress.
type LocalStore struct {
	storage kv.Storage
	key     string
	userID  string
	clock   clock.Clock
	log     *zap.Logger
}

type LocalOptions struct {
	Key    string
	UserID string
	Clock  clock.Clock
	Logger *zap.Logger
}

func NewLocalStore(storage kv.Storage, opts LocalOptions) *LocalStore {
	if opts.Key == "" {
		opts.Key = ProgressKey
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &LocalStore{
		storage: storage,
		key:     opts.Key,
		userID:  opts.UserID,
		clock:   opts.Clock,
		log:     opts.Logger,
	}
}

// Load returns the stored progress. A missing, unreadable or corrupt payload
// yields empty progress; the last two are logged.
func (s *LocalStore) Load(ctx context.Context) *domain.UserProgress {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.Warn("reading local progress failed, starting empty", zap.String("key", s.key), zap.Error(err))
		return domain.NewUserProgress()
	}
	if !ok {
		return domain.NewUserProgress()
	}

	var stored StoredProgress
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.log.Warn("local progress is corrupt, starting empty", zap.String("key", s.key), zap.Error(err))
		return domain.NewUserProgress()
	}
	if stored.Version != PayloadVersion {
		s.log.Info("loading progress written by another version",
			zap.String("version", stored.Version), zap.String("current", PayloadVersion))
	}
	up := stored.Progress
	if up == nil {
		up = domain.NewUserProgress()
	}
	up.Normalize()
	return up
}

// Save writes up and reports whether it succeeded.
func (s *LocalStore) Save(ctx context.Context, up *domain.UserProgress) bool {
	return s.save(ctx, up, nil)
}

// SaveSynced writes up together with the last-sync marker in one batch.
func (s *LocalStore) SaveSynced(ctx context.Context, up *domain.UserProgress) bool {
	at := s.clock.Now().UTC().Format(time.RFC3339)
	return s.save(ctx, up, map[string][]byte{LastSyncKey: []byte(at)})
}

func (s *LocalStore) save(ctx context.Context, up *domain.UserProgress, extra map[string][]byte) bool {
	payload, err := s.encode(up)
	if err != nil {
		s.log.Error("encoding local progress failed", zap.Error(err))
		return false
	}
	entries := map[string][]byte{s.key: payload}
	for k, v := range extra {
		entries[k] = v
	}
	if err := kv.SetMany(ctx, s.storage, entries); err != nil {
		s.log.Error("writing local progress failed", zap.String("key", s.key), zap.Error(err))
		return false
	}
	return true
}

func (s *LocalStore) encode(up *domain.UserProgress) ([]byte, error) {
	if up == nil {
		up = domain.NewUserProgress()
	}
	b, err := json.Marshal(StoredProgress{
		Version:     PayloadVersion,
		UserID:      s.userID,
		Progress:    up,
		LastUpdated: s.clock.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling progress: %w", err)
	}
	return b, nil
}

// LastSync returns when progress was last synced with the remote service.
func (s *LocalStore) LastSync(ctx context.Context) (time.Time, bool) {
	raw, ok, err := s.storage.Get(ctx, LastSyncKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
