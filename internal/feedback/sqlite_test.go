package feedback

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heart-risk-server/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "feedback.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sample(requestID string) *Feedback {
	return &Feedback{
		RequestID:      requestID,
		Model:          "logistic_regression",
		PredictedLabel: domain.LabelDisease,
		ClinicianLabel: domain.LabelNoDisease,
		Agreed:         false,
		Notes:          "follow-up angiography was clear",
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fb := sample("req-1")
	require.NoError(t, store.Save(ctx, fb))
	assert.NotZero(t, fb.ID)
	assert.False(t, fb.CreatedAt.IsZero())

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, domain.LabelDisease, got.PredictedLabel)
	assert.Equal(t, domain.LabelNoDisease, got.ClinicianLabel)
	assert.False(t, got.Agreed)
	assert.Equal(t, "follow-up angiography was clear", got.Notes)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_SaveIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sample("req-1")
	require.NoError(t, store.Save(ctx, first))

	second := sample("req-1")
	second.Agreed = true
	second.Notes = "clinician revised after review"
	require.NoError(t, store.Save(ctx, second))

	assert.Equal(t, first.ID, second.ID, "same request keeps the same row")

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, got.Agreed)
	assert.Equal(t, "clinician revised after review", got.Notes)
}

func TestSQLiteStore_ListAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"req-1", "req-2", "req-3"} {
		require.NoError(t, store.Save(ctx, sample(id)))
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	page, err := store.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := store.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestSQLiteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fb := sample("req-1")
	require.NoError(t, store.Save(ctx, fb))
	require.NoError(t, store.Delete(ctx, fb.ID))

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_ExportImportRoundTrip(t *testing.T) {
	source := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, source.Save(ctx, sample("req-1")))
	require.NoError(t, source.Save(ctx, sample("req-2")))

	var buf bytes.Buffer
	require.NoError(t, source.ExportJSON(ctx, &buf))

	target := newTestStore(t)
	require.NoError(t, target.Save(ctx, sample("req-1"))) // pre-existing entry

	imported, skipped, err := target.ImportJSON(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped, "existing entries are never overwritten on import")

	count, err := target.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
