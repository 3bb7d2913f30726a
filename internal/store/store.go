// Package store persists privacy-conscious visitor metrics and the log of
// contact submissions in sqlite.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// VisitorMetric is one tracked page view. The IP is stored hashed.
type VisitorMetric struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Raven is one contact form submission attempt.
type Raven struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Outcome   string    `json:"outcome"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalRavens      int64           `json:"total_ravens"`
	DeliveredRavens  int64           `json:"delivered_ravens"`
	TopPaths         []PathCount     `json:"top_paths"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
	RecentRavens     []Raven         `json:"recent_ravens"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := migrateUp(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	return &Store{db: db, now: time.Now}, nil
}

func migrateUp(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, ts)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordRaven stores a contact attempt and its outcome.
func (s *Store) RecordRaven(ctx context.Context, r Raven) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ravens (name, email, message, outcome, ts)
		VALUES (?, ?, ?, ?, ?)
	`, r.Name, r.Email, r.Message, r.Outcome, s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("record raven: %w", err)
	}
	return nil
}

// PurgeVisitorsBefore deletes visitor rows older than cutoff.
func (s *Store) PurgeVisitorsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE ts < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge visitors: %w", err)
	}
	return res.RowsAffected()
}

// RecentVisitors returns up to limit visitors, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), ts
		FROM visitors
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scan visitor: %w", err)
		}
		v.Timestamp = time.UnixMilli(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

// RecentRavens returns up to limit contact attempts, newest first.
func (s *Store) RecentRavens(ctx context.Context, limit int) ([]Raven, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, message, outcome, ts
		FROM ravens
		ORDER BY ts DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query ravens: %w", err)
	}
	defer rows.Close()

	var out []Raven
	for rows.Next() {
		var r Raven
		var ts int64
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Message, &r.Outcome, &ts); err != nil {
			return nil, fmt.Errorf("scan raven: %w", err)
		}
		r.Timestamp = time.UnixMilli(ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Stats gathers the admin dashboard numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{midnight.UnixMilli()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE ts >= ?`, []any{weekAgo.UnixMilli()}},
		{&stats.TotalRavens, `SELECT COUNT(*) FROM ravens`, nil},
		{&stats.DeliveredRavens, `SELECT COUNT(*) FROM ravens WHERE outcome = 'success'`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(path, ''), COUNT(*) AS n
		FROM visitors
		GROUP BY path
		ORDER BY n DESC, path
		LIMIT 10
	`)
	if err != nil {
		return nil, fmt.Errorf("top paths: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentRavens, err = s.RecentRavens(ctx, 20); err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteRaven removes one raven and reports whether it existed.
func (s *Store) DeleteRaven(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ravens WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete raven: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
