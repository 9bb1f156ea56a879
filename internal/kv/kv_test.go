package kv_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/alexanderramin/studyplan/internal/db"
	"github.com/alexanderramin/studyplan/internal/kv"
	"github.com/alexanderramin/studyplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storages(t *testing.T) map[string]kv.Storage {
	t.Helper()
	files, err := kv.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	out := map[string]kv.Storage{
		"memory": kv.NewMemoryStorage(),
		"file":   files,
		"sqlite": testutil.NewTestKV(t),
	}
	if addr := os.Getenv("STUDYPLAN_TEST_REDIS_ADDR"); addr != "" {
		r, err := kv.DialRedis(context.Background(), addr, "studyplan-test:"+t.Name()+":")
		require.NoError(t, err)
		t.Cleanup(func() { r.Close() })
		out["redis"] = r
	}
	return out
}

func TestStorage_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "kpss_user_progress")
			require.NoError(t, err)
			assert.False(t, ok, "missing key is not an error")

			require.NoError(t, s.Set(ctx, "kpss_user_progress", []byte(`{"v":1}`)))
			require.NoError(t, s.Set(ctx, "kpss_user_progress", []byte(`{"v":2}`)))

			got, ok, err := s.Get(ctx, "kpss_user_progress")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"v":2}`, string(got))

			assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), kv.ErrEmptyKey)
			_, _, err = s.Get(ctx, "")
			assert.ErrorIs(t, err, kv.ErrEmptyKey)
		})
	}
}

func TestSetMany_WritesEveryKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range storages(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.SetMany(ctx, s, map[string][]byte{
				"a":     []byte("1"),
				"b/c d": []byte("2"),
			}))

			for key, want := range map[string]string{"a": "1", "b/c d": "2"} {
				got, ok, err := s.Get(ctx, key)
				require.NoError(t, err)
				require.True(t, ok, key)
				assert.Equal(t, want, string(got))
			}
		})
	}
}

func TestMemoryStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemoryStorage()
	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'x'

	got, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	got[1] = 'y'

	again, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStorage_SetManyRollsBack(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	s := kv.NewSQLiteStorage(database, testutil.FailNthWrite(db.NewSQLiteUnitOfWork(database), 2, boom))

	err := s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")})
	require.ErrorIs(t, err, boom)

	_, ok, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok, "first write must be rolled back")
}

func TestSQLiteStorage_Revision(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	s := kv.NewSQLiteStorage(database, nil)

	rev, err := s.Revision(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, rev)

	require.NoError(t, s.Set(ctx, "k", []byte("1")))
	require.NoError(t, s.Set(ctx, "k", []byte("2")))
	require.NoError(t, s.SetMany(ctx, map[string][]byte{"k": []byte("3")}))

	rev, err = s.Revision(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rev)
}

func TestFileStorage_Persists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := kv.NewFileStorage(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "kpss_user_progress", []byte("saved")))

	second, err := kv.NewFileStorage(dir)
	require.NoError(t, err)
	got, ok, err := second.Get(ctx, "kpss_user_progress")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "saved", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}
