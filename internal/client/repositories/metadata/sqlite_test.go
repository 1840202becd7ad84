package metadata

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Rajgupta764/legal-saarthi/internal/client/migrations"
	"github.com/Rajgupta764/legal-saarthi/internal/common"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))
	return db
}

// Both implementations must behave the same way.
func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"sqlite": NewSQLiteRepository(setupDB(t)),
		"memory": NewMemoryRepository(),
	}
}

func TestRepository_GetMissingReturnsNilNil(t *testing.T) {
	for name, r := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			v, err := r.Get(context.Background(), common.AuthTokenKey)
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestRepository_SetUpsertsAndGetReturnsLatest(t *testing.T) {
	for name, r := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Set(ctx, common.AuthTokenKey, []byte("old")))
			require.NoError(t, r.Set(ctx, common.AuthTokenKey, []byte("new")))

			v, err := r.Get(ctx, common.AuthTokenKey)
			require.NoError(t, err)
			require.Equal(t, []byte("new"), v)
		})
	}
}

// get reads the given keys; missing keys are left out.
func get(t *testing.T, r Repository, keys ...string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	for _, k := range keys {
		v, err := r.Get(context.Background(), k)
		require.NoError(t, err)
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func TestRepository_SetManyAndDeleteMany(t *testing.T) {
	for name, r := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			keys := []string{"theme", common.AuthTokenKey, common.UserDataKey}

			require.NoError(t, r.Set(ctx, "theme", []byte("dark")))
			require.NoError(t, r.SetMany(ctx, map[string][]byte{
				common.AuthTokenKey: []byte("abc"),
				common.UserDataKey:  []byte(`{"name":"Asha"}`),
			}))

			all := get(t, r, keys...)
			assert.Len(t, all, 3)
			assert.Equal(t, []byte("abc"), all[common.AuthTokenKey])

			require.NoError(t, r.DeleteMany(ctx, common.AuthTokenKey, common.UserDataKey))
			// deleting again is harmless
			require.NoError(t, r.DeleteMany(ctx, common.AuthTokenKey, common.UserDataKey))

			assert.Equal(t, map[string][]byte{"theme": []byte("dark")}, get(t, r, keys...))
		})
	}
}

func TestSQLiteRepository_SetManyIsAtomic(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		CREATE TRIGGER reject_profile BEFORE INSERT ON metadata
		WHEN NEW.key = 'user_data'
		BEGIN SELECT RAISE(ABORT, 'profile rejected'); END;`)
	require.NoError(t, err)

	err = r.SetMany(ctx, map[string][]byte{
		common.AuthTokenKey: []byte("abc"),
		common.UserDataKey:  []byte(`{"name":"Asha"}`),
	})
	require.Error(t, err)

	assert.Empty(t, get(t, r, common.AuthTokenKey, common.UserDataKey))
}

func TestSQLiteRepository_ErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.SetMany(ctx, map[string][]byte{"k": []byte("v")})
	require.Error(t, err)

	require.Error(t, r.DeleteMany(ctx, "k"))
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, r.Set(ctx, common.AuthTokenKey, in))
	in[0] = 'x'

	out, err := r.Get(ctx, common.AuthTokenKey)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), out)

	out[0] = 'y'
	again, _ := r.Get(ctx, common.AuthTokenKey)
	require.Equal(t, []byte("abc"), again)
	require.Equal(t, []string{common.AuthTokenKey}, r.Keys())
}
