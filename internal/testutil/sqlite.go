// Package testutil builds throwaway stores for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Skotchmaster/sdp_shop/internal/repo"
	pkgdb "github.com/Skotchmaster/sdp_shop/pkg/db"
	"github.com/stretchr/testify/require"
)

// NewSQLiteRepo opens a migrated in-memory SQLite store that lives for the
// duration of the test.
func NewSQLiteRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	ctx := context.Background()
	db, err := pkgdb.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))

	t.Cleanup(func() { _ = r.Close(ctx) })
	return r
}
