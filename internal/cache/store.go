package cache

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yoonbae81/ytcapt/internal/refine"
	"github.com/yoonbae81/ytcapt/pkg/file"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store is the TTL-bound cache of refined documents. Reads treat expired
// entries identically to absent ones and evict them on access; writes are
// single-statement upserts, so a reader never observes a partial entry.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

func NewStore(path string, ttl time.Duration) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, ttl: ttl}
	if err := store.init(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		return fmt.Errorf("set busy timeout: %w", err)
	}
	// Bootstrap schema_migrations table so we can track applied versions.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		version := migrationVersion(entry.Name())
		if version <= 0 {
			continue
		}
		var exists int
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&exists); err != nil {
			return fmt.Errorf("check migration %s: %w", entry.Name(), err)
		}
		if exists > 0 {
			continue
		}
		content, err := migrationFiles.ReadFile(filepath.Join("migrations", entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
		if _, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// migrationVersion extracts the leading integer from a migration filename (e.g. "001_init.sql" → 1).
func migrationVersion(name string) int {
	for i, c := range name {
		if c < '0' || c > '9' {
			if i == 0 {
				return 0
			}
			n, _ := strconv.Atoi(name[:i])
			return n
		}
	}
	n, _ := strconv.Atoi(name)
	return n
}

// Key derives the storage key for a video identifier, sanitized to a token
// that is stable for the same video across sessions.
func Key(videoID string) string {
	return file.SafeToken(videoID)
}

// Get returns the cached entry for (videoID, lang), or a miss when the entry
// is absent or expired. An expired row is deleted on access for storage
// hygiene.
func (s *Store) Get(ctx context.Context, videoID, lang string, now time.Time) (Entry, bool, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT video_id, language, title, source_url, payload_json, created_at, expires_at
		 FROM refined_cache
		 WHERE video_id = ? AND language = ?`,
		Key(videoID),
		lang,
	)

	var ret Entry
	var payloadJSON string
	if err := row.Scan(
		&ret.VideoID,
		&ret.Language,
		&ret.Document.Title,
		&ret.Document.SourceURL,
		&payloadJSON,
		&ret.CreatedAt,
		&ret.ExpiresAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}

	if !now.UTC().Before(ret.ExpiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM refined_cache WHERE video_id = ? AND language = ?`, ret.VideoID, ret.Language)
		return Entry{}, false, nil
	}

	if err := json.Unmarshal([]byte(payloadJSON), &ret.Document); err != nil {
		return Entry{}, false, err
	}
	return ret, true, nil
}

// Put writes a fresh entry for the document's key, unconditionally replacing
// any existing one and resetting the TTL.
func (s *Store) Put(ctx context.Context, doc refine.Document, now time.Time) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	createdAt := now.UTC()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO refined_cache (
			video_id, language, title, source_url, payload_json, created_at, expires_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id, language) DO UPDATE SET
			title=excluded.title,
			source_url=excluded.source_url,
			payload_json=excluded.payload_json,
			created_at=excluded.created_at,
			expires_at=excluded.expires_at`,
		Key(doc.VideoID),
		doc.Language,
		doc.Title,
		doc.SourceURL,
		string(payload),
		createdAt,
		createdAt.Add(s.ttl),
	)
	return err
}

// Invalidate removes the entry for (videoID, lang) if present.
func (s *Store) Invalidate(ctx context.Context, videoID, lang string) error {
	_, err := s.db.ExecContext(
		ctx,
		`DELETE FROM refined_cache WHERE video_id = ? AND language = ?`,
		Key(videoID),
		lang,
	)
	return err
}

// PurgeExpired removes all rows whose expires_at is at or before now.
// Lazy expiry on Get remains authoritative; this is storage hygiene.
func (s *Store) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM refined_cache WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
