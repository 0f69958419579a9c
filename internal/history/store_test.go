package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleResult(dt intelligence.DocumentType, score int) *intelligence.AnalysisResult {
	result := intelligence.EmptyResult()
	result.Type = dt
	result.Score = score
	result.Summary = "Sample."
	result.Entities = []string{"Acme Pvt. Ltd."}
	result.KeyDetails[intelligence.FieldDates] = []string{"5th February 2024"}
	result.Risks = []intelligence.RiskFinding{{
		Name:        "Critical Risk (Board Resolution)",
		Status:      intelligence.StatusWarning,
		Explanation: "Detected high-risk language: 'backdated'.",
	}}
	return result
}

func TestOpen(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// migrations are idempotent on reopen
	store, err = Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestOpen_DriverError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(driver, dsn string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	_, err := Open(context.Background(), ":memory:")
	assert.ErrorContains(t, err, "failed to open history database")
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://user@localhost/db"))
	assert.True(t, isPostgres("PostgreSQL://localhost/db"))
	assert.False(t, isPostgres("history.db"))
	assert.False(t, isPostgres(":memory:"))
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM analyses WHERE id = ? AND score > ?"

	sqlite := &Store{}
	assert.Equal(t, query, sqlite.rebind(query))

	pg := &Store{postgres: true}
	assert.Equal(t, "SELECT * FROM analyses WHERE id = $1 AND score > $2", pg.rebind(query))
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	result := sampleResult(intelligence.DocumentTypeBoardResolution, 75)
	rec, err := store.Save(ctx, "minutes.pdf", result)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "minutes.pdf", rec.Source)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "minutes.pdf", got.Source)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, result, got.Result)
}

func TestStore_SaveNil(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save(context.Background(), "x", nil)
	assert.Error(t, err)
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "3f1c1f5e-8a44-4d4e-9a55-1d2b1b0c9e77")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC)
	step := 0
	store.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	var ids []string
	for i, dt := range []intelligence.DocumentType{
		intelligence.DocumentTypeNDA,
		intelligence.DocumentTypeMoU,
		intelligence.DocumentTypeEmployment,
	} {
		rec, err := store.Save(ctx, "doc", sampleResult(dt, 100-i*25))
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	records, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{records[0].ID, records[1].ID, records[2].ID})
	assert.Equal(t, intelligence.DocumentTypeEmployment, records[0].Result.Type)
	assert.Equal(t, 50, records[0].Result.Score)

	records, err = store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}
