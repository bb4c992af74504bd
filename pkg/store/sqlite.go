package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"

	_ "modernc.org/sqlite"
)

// SQLiteStore provides SQLite persistence for subscriptions and places.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
	hub *hub
}

// OpenSQLiteStore opens or creates the database at dbPath.
// Use ":memory:" for an in-memory database.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = ":memory:"
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now, hub: newHub()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s.refresh(context.Background())
	return s, nil
}

// migrate creates the database schema.
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS places (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		radius_m REAL NOT NULL,
		asset_address TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		id TEXT PRIMARY KEY,
		type INTEGER NOT NULL,
		event_kind TEXT NOT NULL,
		place_tag_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		expires_at INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_subscriptions_created_at ON subscriptions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SetClock overrides the clock used for CreatedAt. Intended for tests.
func (s *SQLiteStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Watch implements Store.
func (s *SQLiteStore) Watch(ctx context.Context) (<-chan Snapshot, error) {
	return s.hub.watch(ctx)
}

// Insert implements Store.
func (s *SQLiteStore) Insert(ctx context.Context, sub subscription.Subscription) (subscription.Subscription, error) {
	out, err := s.InsertMany(ctx, []subscription.Subscription{sub})
	if err != nil {
		return subscription.Subscription{}, err
	}
	return out[0], nil
}

// InsertMany implements Store.
func (s *SQLiteStore) InsertMany(ctx context.Context, subs []subscription.Subscription) ([]subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepared := make([]subscription.Subscription, 0, len(subs))
	for _, sub := range subs {
		p, err := prepare(sub, s.now)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, p)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, sub := range prepared {
		if sub.Place != nil {
			if err := upsertPlace(ctx, tx, *sub.Place); err != nil {
				return nil, err
			}
		}
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscriptions WHERE id = ?`, sub.ID).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists > 0 {
			return nil, fmt.Errorf("%w: subscription %s", ErrExists, sub.ID)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO subscriptions (id, type, event_kind, place_tag_id, created_at, is_active, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, sub.ID, int(sub.Type), string(sub.EventKind), sub.PlaceTagID,
			sub.CreatedAt.UnixNano(), boolInt(sub.IsActive), nullTime(sub.ExpiresAt))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.refresh(ctx)

	out := make([]subscription.Subscription, 0, len(prepared))
	for _, sub := range prepared {
		got, err := s.getByID(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, got)
	}
	return out, nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: subscription %s", ErrNotFound, id)
	}

	s.refresh(ctx)
	return nil
}

// GetByID implements Store.
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getByID(ctx, id)
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]subscription.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list(ctx)
}

// PutPlace implements Store.
func (s *SQLiteStore) PutPlace(ctx context.Context, place subscription.Place) (subscription.Place, error) {
	place, err := preparePlace(place)
	if err != nil {
		return subscription.Place{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := upsertPlace(ctx, s.db, place); err != nil {
		return subscription.Place{}, err
	}
	s.refresh(ctx)
	return place, nil
}

// GetPlace implements Store.
func (s *SQLiteStore) GetPlace(ctx context.Context, id string) (subscription.Place, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p subscription.Place
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, latitude, longitude, radius_m, asset_address
		FROM places WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Center.Latitude, &p.Center.Longitude, &p.RadiusMeters, &p.AssetAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return subscription.Place{}, fmt.Errorf("%w: place %s", ErrNotFound, id)
	}
	if err != nil {
		return subscription.Place{}, err
	}
	return p, nil
}

// Close closes watchers and the database connection.
func (s *SQLiteStore) Close() error {
	s.hub.close()
	return s.db.Close()
}

// refresh publishes the current list, or the reload error. Callers hold s.mu.
func (s *SQLiteStore) refresh(ctx context.Context) {
	subs, err := s.list(ctx)
	if err != nil {
		s.hub.publishErr(err)
		return
	}
	s.hub.publish(subs)
}

const selectSubscriptions = `
	SELECT s.id, s.type, s.event_kind, s.place_tag_id, s.created_at, s.is_active, s.expires_at,
	       p.id, p.name, p.latitude, p.longitude, p.radius_m, p.asset_address
	FROM subscriptions s
	LEFT JOIN places p ON p.id = s.place_tag_id
`

func (s *SQLiteStore) list(ctx context.Context) ([]subscription.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, selectSubscriptions+` ORDER BY s.created_at, s.id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) getByID(ctx context.Context, id string) (subscription.Subscription, error) {
	row := s.db.QueryRowContext(ctx, selectSubscriptions+` WHERE s.id = ?`, id)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return subscription.Subscription{}, fmt.Errorf("%w: subscription %s", ErrNotFound, id)
	}
	return sub, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (subscription.Subscription, error) {
	var (
		sub       subscription.Subscription
		typ       int
		kind      string
		createdAt int64
		active    int
		expiresAt sql.NullInt64
		placeID   sql.NullString
		name      sql.NullString
		lat, lon  sql.NullFloat64
		radius    sql.NullFloat64
		asset     sql.NullString
	)
	err := row.Scan(&sub.ID, &typ, &kind, &sub.PlaceTagID, &createdAt, &active, &expiresAt,
		&placeID, &name, &lat, &lon, &radius, &asset)
	if err != nil {
		return sub, err
	}

	sub.Type = subscription.Type(typ)
	sub.EventKind = subscription.EventKind(kind)
	sub.CreatedAt = time.Unix(0, createdAt).UTC()
	sub.IsActive = active != 0
	if expiresAt.Valid {
		t := time.Unix(0, expiresAt.Int64).UTC()
		sub.ExpiresAt = &t
	}
	if placeID.Valid {
		sub.Place = &subscription.Place{
			ID:           placeID.String,
			Name:         name.String,
			Center:       geo.Point{Latitude: lat.Float64, Longitude: lon.Float64},
			RadiusMeters: radius.Float64,
			AssetAddress: asset.String,
		}
	}
	return sub, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertPlace(ctx context.Context, db execer, p subscription.Place) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO places (id, name, latitude, longitude, radius_m, asset_address)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			radius_m = excluded.radius_m,
			asset_address = excluded.asset_address
	`, p.ID, p.Name, p.Center.Latitude, p.Center.Longitude, p.RadiusMeters, p.AssetAddress)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

var _ Store = (*SQLiteStore)(nil)
