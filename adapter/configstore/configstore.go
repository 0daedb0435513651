// Package configstore contains a [domain.ConfigRepository] that keeps saved
// queries in a SQLite database, one row per view.
package configstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/gefilter/adapter/timegetter"
	"github.com/vinicius-lino-figueiredo/gefilter/domain"
	"github.com/vinicius-lino-figueiredo/gefilter/internal/wire"

	_ "modernc.org/sqlite" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS filter_configs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	config_id TEXT UNIQUE NOT NULL,
	page TEXT NOT NULL,
	filters TEXT NOT NULL,
	sort_by TEXT,
	sort_order TEXT DEFAULT 'asc',
	page_size INTEGER DEFAULT 50,
	page_number INTEGER DEFAULT 1,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_filter_configs_page ON filter_configs(page);
`

// Store implements [domain.ConfigRepository].
type Store struct {
	db          *sql.DB
	ownsDB      bool
	idGen       domain.IDGenerator
	timeGetter  domain.TimeGetter
	busyTimeout time.Duration
	log         *slog.Logger
}

// Open opens or creates the database file at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("db path cannot be empty")
	}
	s := newStore(opts)

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)

	s.db = db
	s.ownsDB = true
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New returns a store using an already open database. Closing the store does
// not close db.
func New(db *sql.DB, opts ...Option) (*Store, error) {
	s := newStore(opts)
	s.db = db
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func newStore(opts []Option) *Store {
	s := Store{busyTimeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&s)
	}
	if s.idGen == nil {
		s.idGen = idgenerator.NewIDGenerator()
	}
	if s.timeGetter == nil {
		s.timeGetter = timegetter.NewTimeGetter()
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return &s
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database if the store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// FetchConfig implements [domain.ConfigRepository].
func (s *Store) FetchConfig(ctx context.Context, view string) (*domain.Query, error) {
	saved, err := s.Saved(ctx, view)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &saved.Query, nil
}

// Saved returns the saved configuration of a view with its timestamps, or
// [domain.ErrNotFound].
func (s *Store) Saved(ctx context.Context, view string) (*domain.SavedConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT filters, sort_by, sort_order, page_size, page_number, created_at, updated_at
		FROM filter_configs
		WHERE page = ?
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`, view)

	var (
		filters            string
		sortBy             sql.NullString
		sortOrder          sql.NullString
		pageSize, pageNum  sql.NullInt64
		createdAt, updated int64
	)
	err := row.Scan(&filters, &sortBy, &sortOrder, &pageSize, &pageNum, &createdAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: config of view %q", domain.ErrNotFound, view)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := wire.Config{
		SortOrder:  sortOrder.String,
		PageSize:   int(pageSize.Int64),
		PageNumber: int(pageNum.Int64),
	}
	if sortBy.Valid {
		cfg.SortBy = &sortBy.String
	}
	if err := json.Unmarshal([]byte(filters), &cfg.Filters); err != nil {
		return nil, fmt.Errorf("failed to decode filters of view %q: %w", view, err)
	}

	return &domain.SavedConfig{
		View:      view,
		Query:     cfg.Query(),
		CreatedAt: time.Unix(0, createdAt).UTC(),
		UpdatedAt: time.Unix(0, updated).UTC(),
	}, nil
}

// SaveConfig implements [domain.ConfigRepository]. The previous configuration
// of the view is replaced; its creation time is kept.
func (s *Store) SaveConfig(ctx context.Context, view string, q domain.Query) error {
	id, err := s.idGen.GenerateID()
	if err != nil {
		return fmt.Errorf("failed to generate config id: %w", err)
	}

	q = q.Clone()
	filters, err := json.Marshal(q.Groups)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}
	var sortBy sql.NullString
	if q.SortField != "" {
		sortBy = sql.NullString{String: q.SortField, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.timeGetter.GetTime().UnixNano()
	created := now
	var prev sql.NullInt64
	err = tx.QueryRowContext(ctx, `SELECT MIN(created_at) FROM filter_configs WHERE page = ?`, view).Scan(&prev)
	if err != nil {
		return fmt.Errorf("failed to read previous config: %w", err)
	}
	if prev.Valid {
		created = prev.Int64
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM filter_configs WHERE page = ?`, view); err != nil {
		return fmt.Errorf("failed to delete previous config: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO filter_configs (
			config_id, page, filters, sort_by, sort_order, page_size, page_number, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, view, string(filters), sortBy, string(q.SortDirection), q.PageSize, q.PageNumber, created, now)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit config: %w", err)
	}
	s.log.Debug("config saved", slog.String("view", view), slog.String("config_id", id))
	return nil
}

// Delete removes the saved configuration of a view.
func (s *Store) Delete(ctx context.Context, view string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM filter_configs WHERE page = ?`, view); err != nil {
		return fmt.Errorf("failed to delete config: %w", err)
	}
	return nil
}

// Views returns the views with a saved configuration, sorted by name.
func (s *Store) Views(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT page FROM filter_configs ORDER BY page`)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	res := make([]string, 0)
	for rows.Next() {
		var view string
		if err := rows.Scan(&view); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		res = append(res, view)
	}
	return res, rows.Err()
}
