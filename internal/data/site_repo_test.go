package data

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/annotator-store/internal/domain/model"
	apperrors "github.com/target/annotator-store/internal/errors"
	"github.com/target/annotator-store/internal/testutil"
)

func TestSiteRepo_GetByID_NotFound(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewSiteRepo(db)

		got, err := repo.GetByID(context.Background(), 999)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestSiteRepo_Upsert_InsertThenUpdate(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		tp := NewFixedTimeProvider(testutil.TestTime())
		repo := NewSiteRepoWithTimeProvider(db, tp)

		created, err := repo.Upsert(ctx, model.Site{ID: 1, Domain: "example.com", Name: "Example"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "example.com", created.Domain)
		assert.True(t, created.UpdatedAt.Equal(testutil.TestTime()))

		tp.AddTime(time.Hour)
		updated, err := repo.Upsert(ctx, model.Site{ID: 1, Domain: "notes.example.org", Name: "Notes"})
		require.NoError(t, err)
		assert.Equal(t, "notes.example.org", updated.Domain)
		assert.Equal(t, "Notes", updated.Name)
		assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, updated.Domain, got.Domain)
	})
}

func TestSiteRepo_Upsert_DuplicateDomain(t *testing.T) {
	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewSiteRepo(db)

		_, err := repo.Upsert(ctx, model.Site{ID: 1, Domain: "example.com"})
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, model.Site{ID: 2, Domain: "example.com"})
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestSiteRepo_Upsert_RejectsInvalidID(t *testing.T) {
	repo := NewSiteRepo(nil)

	_, err := repo.Upsert(context.Background(), model.Site{ID: 0, Domain: "example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "id", apperrors.GetField(err))
}
