package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/bunchhieng/sqid/internal/model"
)

const memoryPath = ":memory:"

const linkColumns = "id, url, title, note, tags, created_at, read_at"

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db  *sqlx.DB
	log *zap.Logger
}

// NewSQLiteStorage opens (creating if needed) the database at dbPath and
// applies pending migrations.
func NewSQLiteStorage(dbPath string, log *zap.Logger) (*SQLiteStorage, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var dsn string
	if dbPath == memoryPath {
		dsn = dbPath + "?_pragma=journal_mode(DELETE)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
	} else {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == memoryPath {
		// every connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	applied, err := runMigrations(context.Background(), db.DB)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	if len(applied) > 0 {
		log.Info("applied migrations", zap.String("db", dbPath), zap.Ints("versions", applied))
	}

	return &SQLiteStorage{db: db, log: log}, nil
}

type linkRow struct {
	ID        int64          `db:"id"`
	URL       string         `db:"url"`
	Title     sql.NullString `db:"title"`
	Note      sql.NullString `db:"note"`
	Tags      sql.NullString `db:"tags"`
	CreatedAt string         `db:"created_at"`
	ReadAt    sql.NullString `db:"read_at"`
}

func (r *linkRow) toLink() *model.Link {
	link := &model.Link{
		Key:       uint64(r.ID),
		URL:       r.URL,
		Title:     r.Title.String,
		Note:      r.Note.String,
		Tags:      r.Tags.String,
		CreatedAt: parseSQLiteTime(r.CreatedAt),
	}
	if r.ReadAt.Valid && r.ReadAt.String != "" {
		readAt := parseSQLiteTime(r.ReadAt.String)
		link.ReadAt = &readAt
	}
	return link
}

// rowID maps a key onto SQLite's signed rowid space.
func rowID(key uint64) (int64, bool) {
	if key == 0 || key > math.MaxInt64 {
		return 0, false
	}
	return int64(key), true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func joinTags(link *model.Link) string {
	return strings.Join(link.TagList(), ",")
}

func getByURL(ctx context.Context, q sqlx.QueryerContext, url string) (*model.Link, error) {
	var row linkRow
	err := sqlx.GetContext(ctx, q, &row, "SELECT "+linkColumns+" FROM links WHERE url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toLink(), nil
}

// Add creates a new link or merges into the existing link with the same URL:
// a non-empty title or note replaces the old one and tags are merged.
func (s *SQLiteStorage) Add(ctx context.Context, link *model.Link) (*model.Link, bool, error) {
	if err := link.Validate(); err != nil {
		return nil, false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := getByURL(ctx, tx, link.URL)
	var key int64
	merged := err == nil
	switch {
	case err == nil:
		if link.Title != "" {
			existing.Title = link.Title
		}
		if link.Note != "" {
			existing.Note = link.Note
		}
		existing.MergeTags(link)

		if _, err := tx.ExecContext(ctx,
			"UPDATE links SET title = ?, note = ?, tags = ? WHERE id = ?",
			existing.Title, existing.Note, existing.Tags, existing.Key); err != nil {
			return nil, false, fmt.Errorf("update link: %w", err)
		}
		key = int64(existing.Key)
	case errors.Is(err, model.ErrNotFound):
		result, err := tx.ExecContext(ctx,
			"INSERT INTO links (url, title, note, tags, created_at, read_at) VALUES (?, ?, ?, ?, ?, ?)",
			link.URL, link.Title, link.Note, joinTags(link), formatTime(link.CreatedAt), nullTime(link.ReadAt))
		if err != nil {
			return nil, false, fmt.Errorf("insert link: %w", err)
		}
		if key, err = result.LastInsertId(); err != nil {
			return nil, false, fmt.Errorf("get inserted key: %w", err)
		}
	default:
		return nil, false, fmt.Errorf("check existing link: %w", err)
	}

	var row linkRow
	if err := tx.GetContext(ctx, &row, "SELECT "+linkColumns+" FROM links WHERE id = ?", key); err != nil {
		return nil, false, fmt.Errorf("reload link: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit link: %w", err)
	}
	return row.toLink(), merged, nil
}

// Get retrieves a link by key.
func (s *SQLiteStorage) Get(ctx context.Context, key uint64) (*model.Link, error) {
	id, ok := rowID(key)
	if !ok {
		return nil, model.ErrNotFound
	}

	var row linkRow
	err := s.db.GetContext(ctx, &row, "SELECT "+linkColumns+" FROM links WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return row.toLink(), nil
}

// List retrieves links with optional filters, newest first.
func (s *SQLiteStorage) List(ctx context.Context, opts ListOptions) ([]*model.Link, error) {
	query := "SELECT " + linkColumns + " FROM links WHERE 1=1"
	var args []any

	switch opts.ReadStatus {
	case ReadStatusUnread:
		query += " AND read_at IS NULL"
	case ReadStatusRead:
		query += " AND read_at IS NOT NULL"
	}

	if opts.Tag != "" {
		query += ` AND (',' || lower(tags) || ',') LIKE lower(?) ESCAPE '\'`
		args = append(args, "%,"+escapeLike(opts.Tag)+",%")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var rows []linkRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return toLinks(rows), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match itself literally in a LIKE pattern using ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toLinks(rows []linkRow) []*model.Link {
	links := make([]*model.Link, len(rows))
	for i := range rows {
		links[i] = rows[i].toLink()
	}
	return links
}

func (s *SQLiteStorage) execByKey(ctx context.Context, action, query string, key uint64) error {
	id, ok := rowID(key)
	if !ok {
		return model.ErrNotFound
	}
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: get rows affected: %w", action, err)
	}
	if rowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete removes a link by key.
func (s *SQLiteStorage) Delete(ctx context.Context, key uint64) error {
	return s.execByKey(ctx, "delete link", "DELETE FROM links WHERE id = ?", key)
}

// MarkRead sets the read_at timestamp for a link.
func (s *SQLiteStorage) MarkRead(ctx context.Context, key uint64) error {
	return s.execByKey(ctx, "mark read",
		"UPDATE links SET read_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now') WHERE id = ?", key)
}

// MarkUnread clears the read_at timestamp for a link.
func (s *SQLiteStorage) MarkUnread(ctx context.Context, key uint64) error {
	return s.execByKey(ctx, "mark unread", "UPDATE links SET read_at = NULL WHERE id = ?", key)
}

// Export returns all links for export.
func (s *SQLiteStorage) Export(ctx context.Context) ([]*model.Link, error) {
	return s.List(ctx, ListOptions{ReadStatus: ReadStatusAll})
}

// Import imports links in one transaction. Links whose URL exists are merged
// (existing title and note win, tags are merged). New links keep their key
// when it was never issued here, so previously shared IDs stay valid and a
// deleted link's ID never comes back pointing elsewhere.
func (s *SQLiteStorage) Import(ctx context.Context, links []*model.Link) (ImportResult, error) {
	var res ImportResult

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, link := range links {
		if err := link.Validate(); err != nil {
			return res, fmt.Errorf("import %q: %w", link.URL, err)
		}

		existing, err := getByURL(ctx, tx, link.URL)
		if err == nil {
			if existing.Title == "" {
				existing.Title = link.Title
			}
			if existing.Note == "" {
				existing.Note = link.Note
			}
			existing.MergeTags(link)
			readAt := existing.ReadAt
			if readAt == nil {
				readAt = link.ReadAt
			}
			if _, err := tx.ExecContext(ctx,
				"UPDATE links SET title = ?, note = ?, tags = ?, read_at = ? WHERE id = ?",
				existing.Title, existing.Note, existing.Tags, nullTime(readAt), existing.Key); err != nil {
				return res, fmt.Errorf("merge link %s: %w", link.URL, err)
			}
			res.Merged++
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return res, fmt.Errorf("check existing link %s: %w", link.URL, err)
		}

		var id sql.NullInt64
		if key, ok := rowID(link.Key); ok {
			issued, err := lastIssuedKey(ctx, tx)
			if err != nil {
				return res, err
			}
			if key > issued {
				id = sql.NullInt64{Int64: key, Valid: true}
			} else {
				res.Rekeyed++
			}
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO links (id, url, title, note, tags, created_at, read_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			id, link.URL, link.Title, link.Note, joinTags(link), formatTime(link.CreatedAt), nullTime(link.ReadAt)); err != nil {
			return res, fmt.Errorf("insert link %s: %w", link.URL, err)
		}
		res.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit import: %w", err)
	}
	s.log.Info("imported links",
		zap.Int("inserted", res.Inserted), zap.Int("merged", res.Merged), zap.Int("rekeyed", res.Rekeyed))
	return res, nil
}

// lastIssuedKey returns the highest key AUTOINCREMENT has handed out, deleted
// or not. Keys at or below it must never be assigned again.
func lastIssuedKey(ctx context.Context, q sqlx.QueryerContext) (int64, error) {
	var seq int64
	if err := sqlx.GetContext(ctx, q, &seq,
		"SELECT COALESCE(MAX(seq), 0) FROM sqlite_sequence WHERE name = 'links'"); err != nil {
		return 0, fmt.Errorf("read key sequence: %w", err)
	}
	return seq, nil
}

// Search performs a full-text search across links.
func (s *SQLiteStorage) Search(ctx context.Context, query string) ([]*model.Link, error) {
	var rows []linkRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT l.id, l.url, l.title, l.note, l.tags, l.created_at, l.read_at
		FROM links l
		INNER JOIN links_fts ON l.id = links_fts.rowid
		WHERE links_fts MATCH ?
		ORDER BY rank
	`, query)
	if err != nil {
		return nil, fmt.Errorf("search links: %w", err)
	}
	return toLinks(rows), nil
}

// Meta returns the metadata value stored under key.
func (s *SQLiteStorage) Meta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get meta %s: %w", key, err)
	}
	return value, true, nil
}

// SetMeta stores value under key, replacing any previous value.
func (s *SQLiteStorage) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func parseSQLiteTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
