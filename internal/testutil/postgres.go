package testutil

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Skotchmaster/sdp_shop/internal/repo"
	pkgdb "github.com/Skotchmaster/sdp_shop/pkg/db"
	"github.com/stretchr/testify/require"
)

// NewPostgresRepo opens the postgres database named by DATABASE_URL and
// migrates it. The test is skipped when no postgres URL is configured.
func NewPostgresRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" || strings.HasPrefix(dsn, "sqlite:") {
		t.Skip("DATABASE_URL does not point at postgres")
	}

	ctx := context.Background()
	db, err := pkgdb.Open(ctx, dsn)
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))

	t.Cleanup(func() { _ = r.Close(ctx) })
	return r
}
