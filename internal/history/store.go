// Package history persists analysis results so they can be listed and
// fetched again by id. SQLite (pure Go, modernc) is the default backend;
// a postgres:// DSN switches to PostgreSQL through the pgx driver.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/a3tai/mcp-doc-analyzer/internal/intelligence"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// ErrNotFound is returned when no analysis exists for an id
var ErrNotFound = errors.New("analysis not found")

// DefaultListLimit caps List when the caller passes a non-positive limit
const DefaultListLimit = 20

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Record is one stored analysis
type Record struct {
	ID        string                       `json:"id" yaml:"id"`
	Source    string                       `json:"source" yaml:"source"`
	CreatedAt time.Time                    `json:"created_at" yaml:"created_at"`
	Result    *intelligence.AnalysisResult `json:"result" yaml:"result"`
}

// Store reads and writes analysis records
type Store struct {
	db       *sql.DB
	postgres bool
	now      func() time.Time
}

// Open connects to the database named by dsn and applies pending
// migrations. A DSN starting with postgres:// or postgresql:// selects
// PostgreSQL; anything else is a SQLite path (":memory:" included).
func Open(ctx context.Context, dsn string) (*Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("history dsn cannot be empty")
	}

	postgres := isPostgres(dsn)
	driver, dialect, dir := "sqlite", goose.DialectSQLite3, "migrations/sqlite"
	if postgres {
		driver, dialect, dir = "pgx", goose.DialectPostgres, "migrations/postgres"
	}

	db, err := openDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if !postgres {
		// every connection to :memory: is a separate database
		if strings.Contains(dsn, ":memory:") {
			db.SetMaxOpenConns(1)
		}
		for _, pragma := range []string{
			"PRAGMA busy_timeout = 5000",
			"PRAGMA synchronous = NORMAL",
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrate(ctx, db, dialect, dir); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, postgres: postgres, now: time.Now}, nil
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, db, sub)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores result under a fresh id
func (s *Store) Save(ctx context.Context, source string, result *intelligence.AnalysisResult) (*Record, error) {
	if result == nil {
		return nil, fmt.Errorf("result cannot be nil")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Result:    result,
	}

	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO analyses (id, source, doc_type, score, created_at, result) VALUES (?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.Source, string(result.Type), result.Score, rec.CreatedAt.UnixMilli(), string(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	return rec, nil
}

// Get returns the record with the given id or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, source, created_at, result FROM analyses WHERE id = ?`), id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	return rec, nil
}

// List returns up to limit records, newest first
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT id, source, created_at, result FROM analyses ORDER BY created_at DESC, id LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read analysis: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec       Record
		createdAt int64
		payload   []byte
	)
	if err := row.Scan(&rec.ID, &rec.Source, &createdAt, &payload); err != nil {
		return nil, err
	}

	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	rec.Result = &intelligence.AnalysisResult{}
	if err := json.Unmarshal(payload, rec.Result); err != nil {
		return nil, fmt.Errorf("corrupt result payload: %w", err)
	}
	return &rec, nil
}

// rebind rewrites ? placeholders to $n for PostgreSQL
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Repository is the subset of Store the invocation surfaces depend on
type Repository interface {
	Save(ctx context.Context, source string, result *intelligence.AnalysisResult) (*Record, error)
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, limit int) ([]*Record, error)
}

var _ Repository = (*Store)(nil)
